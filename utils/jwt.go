package utils

import (
	"errors"
	"fmt"
	"time"

	"github.com/ArvinYang1925/kaiso-meow-backend/models"

	"github.com/go-jose/go-jose/v4"
	"github.com/go-jose/go-jose/v4/jwt"
)

var (
	ErrInvalidToken     = errors.New("invalid token format")
	ErrTokenExpired     = errors.New("token has expired")
	ErrTokenNotYetValid = errors.New("token not yet valid")
	ErrInvalidSignature = errors.New("invalid token signature")
	ErrNotInstructor    = errors.New("token does not carry the instructor role")
)

// VerifyConfig holds verification configuration.
type VerifyConfig struct {
	SecretKey      []byte        // HMAC secret (HS256)
	ExpectedIssuer string        // optional issuer check
	ClockSkew      time.Duration // optional allowed clock skew
}

// VerifyInstructorJWT verifies a bearer token and returns its claims.
// The caller identity is claims.Subject.
func VerifyInstructorJWT(tokenString string, config VerifyConfig) (*models.InstructorClaims, error) {
	if tokenString == "" {
		return nil, ErrInvalidToken
	}
	if len(config.SecretKey) == 0 {
		return nil, errors.New("no verification key provided")
	}

	tok, err := jwt.ParseSigned(tokenString, []jose.SignatureAlgorithm{jose.HS256})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims := &models.InstructorClaims{}
	if err := tok.Claims(config.SecretKey, claims); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}

	now := time.Now().Unix()
	clockSkew := int64(config.ClockSkew.Seconds())

	if claims.ExpiresAt > 0 && claims.ExpiresAt < (now-clockSkew) {
		return nil, ErrTokenExpired
	}
	if claims.IssuedAt > 0 && claims.IssuedAt > (now+clockSkew) {
		return nil, ErrTokenNotYetValid
	}
	if config.ExpectedIssuer != "" && claims.Issuer != config.ExpectedIssuer {
		return nil, fmt.Errorf("%w: expected issuer '%s', got '%s'",
			ErrInvalidSignature, config.ExpectedIssuer, claims.Issuer)
	}
	if claims.Role != "instructor" {
		return nil, ErrNotInstructor
	}

	return claims, nil
}

// CreateInstructorJWT signs claims with the given HMAC secret. Used by the
// auth subsystem when issuing tokens, and by tests.
func CreateInstructorJWT(claims *models.InstructorClaims, secretKey []byte) (string, error) {
	if claims == nil {
		return "", errors.New("claims cannot be nil")
	}

	signer, err := jose.NewSigner(jose.SigningKey{Algorithm: jose.HS256, Key: secretKey}, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create signer: %w", err)
	}

	token, err := jwt.Signed(signer).Claims(claims).Serialize()
	if err != nil {
		return "", fmt.Errorf("failed to sign claims: %w", err)
	}
	return token, nil
}
