package domain

// UserProfile is the profile document stored for an account. Its ID is the
// account service's identifier, not a store-generated key.
//
// Password is written once at registration for server-side use and is
// never returned through the API.
type UserProfile struct {
	ID       string `json:"userID"`
	UserName string `json:"userName"`
	Email    string `json:"email"`
	Password string `json:"password,omitempty"`
	PhotoURL string `json:"photoUrl,omitempty"`
	// PhotoBlurHash is a compact placeholder rendered while the photo loads.
	PhotoBlurHash string `json:"photoBlurHash,omitempty"`
	Roles         bool   `json:"roles"`
}
