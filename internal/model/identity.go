package model

// IdentityClaims is the decoded identity produced by the token verifier.
// It lives for the duration of a single request and is never persisted.
type IdentityClaims struct {
	SubjectID string
	Email     string // may be empty when the identity provider omits it
}
