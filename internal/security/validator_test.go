package security

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	testIssuer   = "procurehub-auth"
	testAudience = "procurehub-api"
)

func newTestPair(t *testing.T) (*DevSigner, *TokenValidator) {
	t.Helper()
	signer, err := NewDevSigner(testIssuer, testAudience)
	if err != nil {
		t.Fatalf("NewDevSigner: %v", err)
	}
	return signer, NewTokenValidator(signer.PublicKey(), testIssuer, testAudience)
}

func TestValidateAccess_Valid(t *testing.T) {
	signer, validator := newTestPair(t)

	token, err := signer.Sign("user-1", "org-1", "sess-1", "Dana@Example.com", time.Minute)
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}

	id, err := validator.ValidateAccess(token)
	if err != nil {
		t.Fatalf("ValidateAccess: %v", err)
	}
	if id.UserID != "user-1" || id.OrgID != "org-1" || id.SessionID != "sess-1" {
		t.Errorf("identity = %+v", id)
	}
	if id.Email != "Dana@Example.com" {
		t.Errorf("email = %q", id.Email)
	}
}

func TestValidateAccess_Expired(t *testing.T) {
	signer, validator := newTestPair(t)

	token, err := signer.Sign("user-1", "org-1", "sess-1", "", -time.Minute)
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	if _, err := validator.ValidateAccess(token); err != ErrInvalidToken {
		t.Errorf("err = %v, want ErrInvalidToken", err)
	}
}

func TestValidateAccess_WrongIssuer(t *testing.T) {
	signer, err := NewDevSigner("other-issuer", testAudience)
	if err != nil {
		t.Fatalf("NewDevSigner: %v", err)
	}
	validator := NewTokenValidator(signer.PublicKey(), testIssuer, testAudience)

	token, err := signer.Sign("user-1", "org-1", "sess-1", "", time.Minute)
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	if _, err := validator.ValidateAccess(token); err != ErrInvalidToken {
		t.Errorf("err = %v, want ErrInvalidToken", err)
	}
}

func TestValidateAccess_WrongAudience(t *testing.T) {
	signer, err := NewDevSigner(testIssuer, "other-api")
	if err != nil {
		t.Fatalf("NewDevSigner: %v", err)
	}
	validator := NewTokenValidator(signer.PublicKey(), testIssuer, testAudience)

	token, err := signer.Sign("user-1", "org-1", "sess-1", "", time.Minute)
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	if _, err := validator.ValidateAccess(token); err != ErrInvalidToken {
		t.Errorf("err = %v, want ErrInvalidToken", err)
	}
}

func TestValidateAccess_WrongKey(t *testing.T) {
	signer, _ := newTestPair(t)
	otherSigner, err := NewDevSigner(testIssuer, testAudience)
	if err != nil {
		t.Fatalf("NewDevSigner: %v", err)
	}
	validator := NewTokenValidator(otherSigner.PublicKey(), testIssuer, testAudience)

	token, err := signer.Sign("user-1", "org-1", "sess-1", "", time.Minute)
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	if _, err := validator.ValidateAccess(token); err != ErrInvalidToken {
		t.Errorf("err = %v, want ErrInvalidToken", err)
	}
}

func TestValidateAccess_RejectsHMAC(t *testing.T) {
	_, validator := newTestPair(t)

	claims := AccessClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-1",
			Issuer:    testIssuer,
			Audience:  jwt.ClaimStrings{testAudience},
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
		},
		OrgID: "org-1",
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := validator.ValidateAccess(token); err != ErrInvalidToken {
		t.Errorf("err = %v, want ErrInvalidToken", err)
	}
}

func TestValidateAccess_MissingSubjectOrOrg(t *testing.T) {
	signer, validator := newTestPair(t)

	token, err := signer.Sign("", "org-1", "sess-1", "", time.Minute)
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	if _, err := validator.ValidateAccess(token); err != ErrInvalidToken {
		t.Errorf("missing subject: err = %v, want ErrInvalidToken", err)
	}

	token, err = signer.Sign("user-1", "", "sess-1", "", time.Minute)
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	if _, err := validator.ValidateAccess(token); err != ErrInvalidToken {
		t.Errorf("missing org: err = %v, want ErrInvalidToken", err)
	}
}

func TestValidateAccess_Garbage(t *testing.T) {
	_, validator := newTestPair(t)
	if _, err := validator.ValidateAccess("not-a-token"); err != ErrInvalidToken {
		t.Errorf("err = %v, want ErrInvalidToken", err)
	}
}
