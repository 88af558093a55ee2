// Package queue defines audit event payloads exchanged over the message
// broker and the background consumer that records them.
package queue

// UserRegisteredEvent is published when a registration succeeds. It
// carries what the audit trail needs without touching the primary
// database; it never includes the password or its hash.
type UserRegisteredEvent struct {
	Username     string `json:"username"`
	Role         string `json:"role"`
	RegisteredAt string `json:"registered_at"`
}
