package middleware

import (
	"context"
	"testing"
)

func TestWithIdentity_SetsAllValues(t *testing.T) {
	ctx := context.Background()
	ctx = WithIdentity(ctx, "user-1", "org-1", "dana@example.com", "session-1")

	userID, ok := GetUserID(ctx)
	if !ok {
		t.Fatal("GetUserID should return true")
	}
	if userID != "user-1" {
		t.Errorf("user_id = %q, want %q", userID, "user-1")
	}

	orgID, ok := GetOrgID(ctx)
	if !ok {
		t.Fatal("GetOrgID should return true")
	}
	if orgID != "org-1" {
		t.Errorf("org_id = %q, want %q", orgID, "org-1")
	}

	email, ok := GetEmail(ctx)
	if !ok {
		t.Fatal("GetEmail should return true")
	}
	if email != "dana@example.com" {
		t.Errorf("email = %q, want %q", email, "dana@example.com")
	}

	sessionID, ok := GetSessionID(ctx)
	if !ok {
		t.Fatal("GetSessionID should return true")
	}
	if sessionID != "session-1" {
		t.Errorf("session_id = %q, want %q", sessionID, "session-1")
	}
}

func TestGetters_EmptyContext(t *testing.T) {
	ctx := context.Background()

	if v, ok := GetUserID(ctx); ok || v != "" {
		t.Errorf("GetUserID = %q, %v; want empty, false", v, ok)
	}
	if v, ok := GetOrgID(ctx); ok || v != "" {
		t.Errorf("GetOrgID = %q, %v; want empty, false", v, ok)
	}
	if v, ok := GetEmail(ctx); ok || v != "" {
		t.Errorf("GetEmail = %q, %v; want empty, false", v, ok)
	}
	if v, ok := GetSessionID(ctx); ok || v != "" {
		t.Errorf("GetSessionID = %q, %v; want empty, false", v, ok)
	}
}
