package api

import "github.com/danielgtaylor/huma/v2"

// envelopeVersion is bumped when the envelope structure changes in a way
// clients must handle.
const envelopeVersion = 1

// Envelope is the wire structure every API response is wrapped in. The
// mobile client decodes this before looking at the payload.
type Envelope struct {
	V       int    `json:"v"`
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
	Code    string `json:"code,omitempty"`
	Details any    `json:"details,omitempty"`
}

// EnvelopeTransformer wraps huma response bodies in the client envelope.
// Error bodies (APIError) become {success:false, error, code}; everything
// else becomes {success:true, data}.
func EnvelopeTransformer(_ huma.Context, _ string, v any) (any, error) {
	if apiErr, ok := v.(*APIError); ok {
		return &Envelope{
			V:       envelopeVersion,
			Success: false,
			Error:   apiErr.Message,
			Code:    apiErr.Code,
			Details: apiErr.Details,
		}, nil
	}

	return &Envelope{
		V:       envelopeVersion,
		Success: true,
		Data:    v,
	}, nil
}
