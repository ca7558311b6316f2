package jwt

import "github.com/golang-jwt/jwt"

// Payload defines the structure of the JSON Web Token (JWT) claims for the chat server.
// It includes standard claims required by the JWT specification and the custom claims
// needed to identify a user on both the REST API and the websocket endpoint.
type Payload struct {
	// StandardClaims embeds the necessary JWT standard fields such as Exp (Expiration),
	// Iat (Issued At), and Iss (Issuer). These are crucial for token validity checks.
	jwt.StandardClaims `json:"standard_claims"`

	// ID is the immutable user identifier established at registration.
	ID string `json:"id"`

	// Username is the immutable display identifier for the user.
	Username string `json:"username"`
}
