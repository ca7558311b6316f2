/*
Package errs provides custom error types and application-level error code constants.

These error codes are used to clearly identify specific business or system errors
both internally within the server and in communication with clients.
*/
package errs

// 1xxx: General Request Handling Errors
const (
	// ErrInvalidParams indicates that request parameter validation failed.
	ErrInvalidParams = 1001

	// ErrUnsupportedMediaType indicates that the request header Content-Type is not supported.
	ErrUnsupportedMediaType = 1002

	// ErrInvalidJSONFormat indicates that the request body JSON format is incorrect (e.g., syntax error).
	ErrInvalidJSONFormat = 1003

	// ErrExtraContentInBody indicates that the request body contained extra content after valid JSON data.
	ErrExtraContentInBody = 1004

	// ErrRateLimitExceeded indicates that the request rate has exceeded the set limit.
	ErrRateLimitExceeded = 1005
)

// 2xxx: Chat and Content Business Logic Errors
const (
	// ErrChatNotFound indicates that the requested chat does not exist or the
	// requester is not one of its participants.
	ErrChatNotFound = 2101

	// ErrMessageContentTooLong indicates that the message content exceeded the maximum length limit.
	ErrMessageContentTooLong = 2201

	// ErrFileSizeTooLarge indicates that a file exceeds the size allowed for the user's plan.
	ErrFileSizeTooLarge = 2202
)

// 3xxx: User, Session, and Security Errors
const (
	// ErrAlreadyLoggedIn indicates that an authenticated user attempted to register or log in again.
	ErrAlreadyLoggedIn = 3001

	// ErrInvalidUsername indicates that the supplied username does not satisfy the format rules.
	ErrInvalidUsername = 3002

	// ErrInvalidPassword indicates that the supplied password does not satisfy the length rules.
	ErrInvalidPassword = 3003

	// ErrUserAlreadyExists indicates that the username is already taken.
	ErrUserAlreadyExists = 3004

	// ErrInvalidCredentials indicates a failed username/password check.
	ErrInvalidCredentials = 3005

	// ErrUserNotFound indicates that the referenced user account does not exist.
	ErrUserNotFound = 3006

	// ErrUnauthorized indicates that the request lacks a valid identity token.
	ErrUnauthorized = 3007

	// ErrSessionKicked indicates that the current connection was replaced by a newer one.
	ErrSessionKicked = 3008
)

// 5xxx: Internal System Errors
const (
	// ErrUnknown represents an unclassified, general server internal error.
	ErrUnknown = 5000

	// ErrFileStorageFailed indicates a failure while talking to the object storage service.
	ErrFileStorageFailed = 5001
)
