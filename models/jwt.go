package models

// InstructorClaims is the payload of the bearer token instructors present
// on the video endpoints. Subject is the instructor id.
type InstructorClaims struct {
	Issuer    string `json:"iss,omitempty"`
	Subject   string `json:"sub"`
	Role      string `json:"role"`
	IssuedAt  int64  `json:"iat"`
	ExpiresAt int64  `json:"exp"`
}
