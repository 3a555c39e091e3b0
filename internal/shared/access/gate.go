// Package access decides whether a session may act as an administrator.
package access

import (
	"context"
	"errors"
	"fmt"

	"celebhub-backend/internal/domains/user/model"
)

type Decision int

const (
	Allowed Decision = iota
	Unauthenticated
	Forbidden
)

func (d Decision) String() string {
	switch d {
	case Allowed:
		return "allowed"
	case Unauthenticated:
		return "unauthenticated"
	case Forbidden:
		return "forbidden"
	}
	return fmt.Sprintf("Decision(%d)", int(d))
}

// Accounts resolves a session's account id
type Accounts interface {
	GetByID(ctx context.Context, id string) (*model.User, error)
}

// Gate grants admin access to accounts flagged is_admin and to usernames on
// the configured allow-list. The allow-list covers accounts created before
// the flag existed; matching is exact and case-sensitive.
type Gate struct {
	accounts Accounts
	allow    map[string]struct{}
}

func NewGate(accounts Accounts, usernames []string) *Gate {
	allow := make(map[string]struct{}, len(usernames))
	for _, u := range usernames {
		allow[u] = struct{}{}
	}
	return &Gate{accounts: accounts, allow: allow}
}

// IsAdmin applies the admin rule to a loaded account
func (g *Gate) IsAdmin(u *model.User) bool {
	if u == nil {
		return false
	}
	if u.IsAdmin {
		return true
	}
	_, ok := g.allow[u.Username]
	return ok
}

// Decide resolves accountID (empty when there is no session). A session
// naming an unknown account counts as unauthenticated. Store failures are
// returned as errors, never folded into a decision.
func (g *Gate) Decide(ctx context.Context, accountID string) (Decision, *model.User, error) {
	if accountID == "" {
		return Unauthenticated, nil, nil
	}

	u, err := g.accounts.GetByID(ctx, accountID)
	if errors.Is(err, model.ErrUserNotFound) {
		return Unauthenticated, nil, nil
	}
	if err != nil {
		return Unauthenticated, nil, fmt.Errorf("load account %s: %w", accountID, err)
	}

	if g.IsAdmin(u) {
		return Allowed, u, nil
	}
	return Forbidden, u, nil
}
