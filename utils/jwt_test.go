package utils

import (
	"errors"
	"testing"
	"time"

	"github.com/ArvinYang1925/kaiso-meow-backend/models"
)

var testSecret = []byte("test-secret-key-for-jwt-signing-at-least-32-bytes")

func signedToken(t *testing.T, claims *models.InstructorClaims) string {
	t.Helper()
	token, err := CreateInstructorJWT(claims, testSecret)
	if err != nil {
		t.Fatal(err)
	}
	return token
}

func TestVerifyInstructorJWTRoundTrip(t *testing.T) {
	token := signedToken(t, &models.InstructorClaims{
		Subject:   "inst-42",
		Role:      "instructor",
		IssuedAt:  time.Now().Unix(),
		ExpiresAt: time.Now().Add(time.Hour).Unix(),
	})

	claims, err := VerifyInstructorJWT(token, VerifyConfig{SecretKey: testSecret})
	if err != nil {
		t.Fatal(err)
	}
	if claims.Subject != "inst-42" {
		t.Errorf("subject = %q", claims.Subject)
	}
}

func TestVerifyInstructorJWTRejectsWrongRole(t *testing.T) {
	token := signedToken(t, &models.InstructorClaims{
		Subject:   "stud-1",
		Role:      "student",
		ExpiresAt: time.Now().Add(time.Hour).Unix(),
	})

	_, err := VerifyInstructorJWT(token, VerifyConfig{SecretKey: testSecret})
	if !errors.Is(err, ErrNotInstructor) {
		t.Errorf("err = %v, want ErrNotInstructor", err)
	}
}

func TestVerifyInstructorJWTRejectsExpired(t *testing.T) {
	token := signedToken(t, &models.InstructorClaims{
		Subject:   "inst-1",
		Role:      "instructor",
		IssuedAt:  time.Now().Add(-2 * time.Hour).Unix(),
		ExpiresAt: time.Now().Add(-time.Hour).Unix(),
	})

	_, err := VerifyInstructorJWT(token, VerifyConfig{SecretKey: testSecret})
	if !errors.Is(err, ErrTokenExpired) {
		t.Errorf("err = %v, want ErrTokenExpired", err)
	}

	// A generous clock skew forgives the same token.
	if _, err := VerifyInstructorJWT(token, VerifyConfig{SecretKey: testSecret, ClockSkew: 2 * time.Hour}); err != nil {
		t.Errorf("skew-tolerant verify failed: %v", err)
	}
}

func TestVerifyInstructorJWTRejectsWrongKey(t *testing.T) {
	token := signedToken(t, &models.InstructorClaims{
		Subject:   "inst-1",
		Role:      "instructor",
		ExpiresAt: time.Now().Add(time.Hour).Unix(),
	})

	_, err := VerifyInstructorJWT(token, VerifyConfig{SecretKey: []byte("a-completely-different-signing-key")})
	if !errors.Is(err, ErrInvalidSignature) {
		t.Errorf("err = %v, want ErrInvalidSignature", err)
	}
}

func TestVerifyInstructorJWTIssuerCheck(t *testing.T) {
	token := signedToken(t, &models.InstructorClaims{
		Issuer:    "kaiso",
		Subject:   "inst-1",
		Role:      "instructor",
		ExpiresAt: time.Now().Add(time.Hour).Unix(),
	})

	if _, err := VerifyInstructorJWT(token, VerifyConfig{SecretKey: testSecret, ExpectedIssuer: "kaiso"}); err != nil {
		t.Errorf("matching issuer rejected: %v", err)
	}
	if _, err := VerifyInstructorJWT(token, VerifyConfig{SecretKey: testSecret, ExpectedIssuer: "someone-else"}); err == nil {
		t.Error("mismatched issuer accepted")
	}
}

func TestVerifyInstructorJWTGarbage(t *testing.T) {
	if _, err := VerifyInstructorJWT("", VerifyConfig{SecretKey: testSecret}); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("empty token: err = %v, want ErrInvalidToken", err)
	}
	if _, err := VerifyInstructorJWT("not.a.jwt", VerifyConfig{SecretKey: testSecret}); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("garbage token: err = %v, want ErrInvalidToken", err)
	}
}
