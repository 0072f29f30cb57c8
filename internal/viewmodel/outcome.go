package viewmodel

// Outcome is the published result of the last write operation. The UI
// displays Message verbatim and never inspects error kinds.
type Outcome struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// outcomeOf maps an operation result to an Outcome, passing failure
// messages through verbatim.
func outcomeOf(err error, successMessage string) Outcome {
	if err != nil {
		return Outcome{Success: false, Message: err.Error()}
	}
	return Outcome{Success: true, Message: successMessage}
}
