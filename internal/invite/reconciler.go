// Package invite reconciles pending (email-keyed) project memberships with
// concrete user accounts. The identity provider calls this after a sign-in
// so role signals exist before the user's first access check.
package invite

import (
	"context"
	"errors"
	"log"
	"strings"

	"procurehub/internal/project/domain"
)

// PendingStore is the slice of the project repository the reconciler needs.
type PendingStore interface {
	ListInvitedByEmail(ctx context.Context, email string) ([]*domain.Member, error)
	LinkInvited(ctx context.Context, id, userID string) error
}

// Reconciler promotes Invited memberships to Active when a user signs in
// with a matching email.
type Reconciler struct {
	store PendingStore
}

// NewReconciler returns a Reconciler backed by the given store.
func NewReconciler(store PendingStore) *Reconciler {
	return &Reconciler{store: store}
}

// Reconcile links every pending membership matching email to userID and
// returns the number of rows linked. Matching is case-insensitive. Linking
// continues past individual row failures; the first error is returned after
// the pass completes so a partial outage does not strand the remaining rows.
func (r *Reconciler) Reconcile(ctx context.Context, userID, email string) (int, error) {
	if userID == "" || email == "" {
		return 0, errors.New("user id and email are required")
	}
	pending, err := r.store.ListInvitedByEmail(ctx, strings.ToLower(email))
	if err != nil {
		return 0, err
	}

	linked := 0
	var firstErr error
	for _, m := range pending {
		if err := r.store.LinkInvited(ctx, m.ID, userID); err != nil {
			log.Printf("invite: link membership %s failed: %v", m.ID, err)
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		linked++
	}
	return linked, firstErr
}
