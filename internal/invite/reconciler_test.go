package invite

import (
	"context"
	"errors"
	"testing"

	"procurehub/internal/project/domain"
)

type fakePendingStore struct {
	pending map[string][]*domain.Member
	linked  map[string]string
	linkErr map[string]error
	listErr error
}

func newFakePendingStore() *fakePendingStore {
	return &fakePendingStore{
		pending: map[string][]*domain.Member{},
		linked:  map[string]string{},
		linkErr: map[string]error{},
	}
}

func (f *fakePendingStore) ListInvitedByEmail(ctx context.Context, email string) ([]*domain.Member, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.pending[email], nil
}

func (f *fakePendingStore) LinkInvited(ctx context.Context, id, userID string) error {
	if err := f.linkErr[id]; err != nil {
		return err
	}
	f.linked[id] = userID
	return nil
}

func TestReconcile_LinksMatchingInvites(t *testing.T) {
	store := newFakePendingStore()
	store.pending["dana@example.com"] = []*domain.Member{
		domain.NewInvitedMember("m1", "proj-1", "dana@example.com", domain.MemberRoleTechnicalLead),
		domain.NewInvitedMember("m2", "proj-2", "dana@example.com", domain.MemberRoleCommercialLead),
	}
	r := NewReconciler(store)

	// Mixed-case email must still match the lowercase rows.
	linked, err := r.Reconcile(context.Background(), "user-1", "Dana@Example.com")
	if err != nil {
		t.Fatalf("Reconcile: %v", err)
	}
	if linked != 2 {
		t.Errorf("linked = %d, want 2", linked)
	}
	for _, id := range []string{"m1", "m2"} {
		if store.linked[id] != "user-1" {
			t.Errorf("membership %s linked to %q, want user-1", id, store.linked[id])
		}
	}
}

func TestReconcile_NoPending(t *testing.T) {
	r := NewReconciler(newFakePendingStore())

	linked, err := r.Reconcile(context.Background(), "user-1", "nobody@example.com")
	if err != nil {
		t.Fatalf("Reconcile: %v", err)
	}
	if linked != 0 {
		t.Errorf("linked = %d, want 0", linked)
	}
}

func TestReconcile_ContinuesPastLinkFailure(t *testing.T) {
	store := newFakePendingStore()
	store.pending["dana@example.com"] = []*domain.Member{
		domain.NewInvitedMember("m1", "proj-1", "dana@example.com", domain.MemberRoleLead),
		domain.NewInvitedMember("m2", "proj-2", "dana@example.com", domain.MemberRoleLead),
	}
	store.linkErr["m1"] = errors.New("deadlock")
	r := NewReconciler(store)

	linked, err := r.Reconcile(context.Background(), "user-1", "dana@example.com")
	if err == nil {
		t.Fatal("expected first link error to be returned")
	}
	if linked != 1 {
		t.Errorf("linked = %d, want 1", linked)
	}
	if store.linked["m2"] != "user-1" {
		t.Error("second membership was not linked after first failed")
	}
}

func TestReconcile_RejectsEmptyInput(t *testing.T) {
	r := NewReconciler(newFakePendingStore())
	if _, err := r.Reconcile(context.Background(), "", "dana@example.com"); err == nil {
		t.Error("expected error for empty user id")
	}
	if _, err := r.Reconcile(context.Background(), "user-1", ""); err == nil {
		t.Error("expected error for empty email")
	}
}
