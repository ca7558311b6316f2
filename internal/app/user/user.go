/*
Package user contains the core data structure for user identity and plan status.

The identity fields are established by the identity provider at registration;
plan status and the message counter are owned by the persistence layer and
mirrored into memory for the lifetime of a single socket connection.
*/
package user

// User represents a chat participant.
type User struct {

	// ID is the immutable unique identifier for the user.
	ID string `json:"user_id"`

	// Username is the immutable display identifier for the user.
	Username string `json:"username"`

	// IsPremium reports whether the user is on the premium plan.
	IsPremium bool `json:"is_premium"`

	// MessageCount is the number of billable messages the user has sent.
	// It is refreshed from the persistence layer exactly once, at connect time.
	MessageCount int `json:"message_count"`
}
