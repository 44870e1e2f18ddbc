package users

import (
	"context"
	"errors"
	"testing"
	"time"

	"petshop-crm/internal/platform/logger"
	"petshop-crm/internal/ports/auth"
)

// -------------------------
// Test repo (in-memory)
// -------------------------

type testRepo struct {
	byOpenID map[string]User
	creates  int
	updates  int
}

func newTestRepo() *testRepo { return &testRepo{byOpenID: map[string]User{}} }

func (r *testRepo) Create(_ context.Context, u User) error {
	r.creates++
	r.byOpenID[u.OpenID] = u
	return nil
}

func (r *testRepo) Update(_ context.Context, u User) error {
	if _, ok := r.byOpenID[u.OpenID]; !ok {
		return ErrNotFound
	}
	r.updates++
	r.byOpenID[u.OpenID] = u
	return nil
}

func (r *testRepo) GetByOpenID(_ context.Context, openID string) (User, error) {
	u, ok := r.byOpenID[openID]
	if !ok {
		return User{}, ErrNotFound
	}
	return u, nil
}

// -------------------------
// Tests
// -------------------------

func TestTouch_CreatesThenStampsLastSignedIn(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo, "", "session", logger.Nop())
	first := time.Date(2025, 5, 1, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return first }

	u, err := svc.Touch(context.Background(), auth.Claims{UserID: "u-1", Name: "Ana", Email: "ana@example.com", Role: auth.RoleUser})
	if err != nil {
		t.Fatalf("Touch: %v", err)
	}
	if u.Role != auth.RoleUser || u.LoginMethod != "session" || !u.LastSignedIn.Equal(first) {
		t.Fatalf("unexpected user: %+v", u)
	}

	second := first.Add(48 * time.Hour)
	svc.now = func() time.Time { return second }
	u2, err := svc.Touch(context.Background(), auth.Claims{UserID: "u-1"})
	if err != nil {
		t.Fatalf("Touch again: %v", err)
	}
	if u2.ID != u.ID || u2.Name != "Ana" || !u2.LastSignedIn.Equal(second) || !u2.CreatedAt.Equal(first) {
		t.Fatalf("unexpected user after second touch: %+v", u2)
	}
	if repo.creates != 1 || repo.updates != 1 {
		t.Fatalf("creates=%d updates=%d", repo.creates, repo.updates)
	}
}

func TestTouch_OwnerBecomesAdmin(t *testing.T) {
	repo := newTestRepo()
	repo.byOpenID["owner"] = User{ID: "x", OpenID: "owner", Role: auth.RoleUser}
	svc := NewService(repo, "owner", "session", logger.Nop())

	u, err := svc.Touch(context.Background(), auth.Claims{UserID: "owner", Role: auth.RoleUser})
	if err != nil {
		t.Fatalf("Touch: %v", err)
	}
	if u.Role != auth.RoleAdmin {
		t.Fatalf("expected admin, got %s", u.Role)
	}

	u, err = svc.Touch(context.Background(), auth.Claims{UserID: "someone", Role: auth.RoleUser})
	if err != nil {
		t.Fatalf("Touch: %v", err)
	}
	if u.Role != auth.RoleUser {
		t.Fatalf("expected user, got %s", u.Role)
	}
}

func TestTouch_RequiresOpenID(t *testing.T) {
	svc := NewService(newTestRepo(), "", "mock", logger.Nop())
	if _, err := svc.Touch(context.Background(), auth.Claims{}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}
