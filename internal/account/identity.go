// Package account implements registration, sign-in, and credential
// management for BookHive accounts.
package account

// IdentityProvider reports the identity a caller is operating as.
// Repositories read it at the start of every operation.
type IdentityProvider interface {
	// CurrentIdentity returns the signed-in account identifier, or
	// false when nobody is signed in.
	CurrentIdentity() (string, bool)
}

// StaticIdentity is an IdentityProvider fixed at construction. The empty
// string means no signed-in user. HTTP handlers build one per request
// from the verified token subject.
type StaticIdentity string

// CurrentIdentity implements IdentityProvider.
func (s StaticIdentity) CurrentIdentity() (string, bool) {
	return string(s), s != ""
}
