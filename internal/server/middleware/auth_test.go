package middleware

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"

	"procurehub/internal/security"
)

func newAuthTestApp(t *testing.T, publicPaths map[string]bool) (*fiber.App, *security.DevSigner) {
	t.Helper()
	signer, err := security.NewDevSigner("procurehub-auth", "procurehub-api")
	if err != nil {
		t.Fatalf("NewDevSigner: %v", err)
	}
	validator := security.NewTokenValidator(signer.PublicKey(), "procurehub-auth", "procurehub-api")

	app := fiber.New()
	app.Use(BearerAuth(validator, publicPaths))
	app.Get("/v1/health", func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})
	app.Get("/v1/protected", func(c *fiber.Ctx) error {
		userID, _ := GetUserID(c.UserContext())
		orgID, _ := GetOrgID(c.UserContext())
		email, _ := GetEmail(c.UserContext())
		return c.JSON(fiber.Map{"userId": userID, "orgId": orgID, "email": email})
	})
	return app, signer
}

func TestBearerAuth_PublicPath(t *testing.T) {
	app, _ := newAuthTestApp(t, map[string]bool{"GET /v1/health": true})

	resp, err := app.Test(httptest.NewRequest("GET", "/v1/health", nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Errorf("status = %d, want %d", resp.StatusCode, fiber.StatusOK)
	}
}

func TestBearerAuth_Protected_NoToken(t *testing.T) {
	app, _ := newAuthTestApp(t, nil)

	resp, err := app.Test(httptest.NewRequest("GET", "/v1/protected", nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Errorf("status = %d, want %d", resp.StatusCode, fiber.StatusUnauthorized)
	}
}

func TestBearerAuth_Protected_InvalidToken(t *testing.T) {
	app, _ := newAuthTestApp(t, nil)

	req := httptest.NewRequest("GET", "/v1/protected", nil)
	req.Header.Set("Authorization", "Bearer invalid-token")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Errorf("status = %d, want %d", resp.StatusCode, fiber.StatusUnauthorized)
	}
}

func TestBearerAuth_Protected_ValidToken(t *testing.T) {
	app, signer := newAuthTestApp(t, nil)

	var gotUser, gotOrg, gotSession string
	app.Get("/v1/identity", func(c *fiber.Ctx) error {
		gotUser, _ = GetUserID(c.UserContext())
		gotOrg, _ = GetOrgID(c.UserContext())
		gotSession, _ = GetSessionID(c.UserContext())
		return c.SendStatus(fiber.StatusOK)
	})

	token, err := signer.Sign("user-1", "org-1", "session-1", "dana@example.com", time.Minute)
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	req := httptest.NewRequest("GET", "/v1/identity", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("status = %d, want %d", resp.StatusCode, fiber.StatusOK)
	}
	if gotUser != "user-1" || gotOrg != "org-1" || gotSession != "session-1" {
		t.Errorf("identity = %q/%q/%q", gotUser, gotOrg, gotSession)
	}
}

func TestExtractBearer(t *testing.T) {
	tests := []struct {
		header string
		want   string
	}{
		{"Bearer token123", "token123"},
		{"bearer token123", "token123"},
		{"  Bearer   token123  ", "token123"},
		{"Basic token123", ""},
		{"", ""},
		{"Bearer", ""},
	}
	for _, tt := range tests {
		if got := extractBearer(tt.header); got != tt.want {
			t.Errorf("extractBearer(%q) = %q, want %q", tt.header, got, tt.want)
		}
	}
}
