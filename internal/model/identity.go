package model

// Identity is the authenticated representation of a user. It is a plain
// immutable value: construct it once from a credential row and never
// modify it. The password hash is carried so callers can hold the full
// projection of the row, but it must never be rendered or logged.
//
// Fields:
//  Username     – unique login name (users.username).
//  PasswordHash – bcrypt hash of the password (users.password_hash).
//  Role         – free-form role string, e.g. "user" or "admin" (users.role).
type Identity struct {
	Username     string
	PasswordHash string
	Role         string
}
