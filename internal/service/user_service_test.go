package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"steamx-api/internal/rag"
)

func newUserFixture(t *testing.T) (*UserService, *AuthService, *mockUserRepo, *mockSessionRepo, *mockMessageRepo) {
	t.Helper()
	users := newMockUserRepo()
	sessions := newMockSessionRepo()
	messages := newMockMessageRepo(sessions)
	userSvc := NewUserService(zap.NewNop(), users, sessions, messages)
	authSvc := newAuthService(users, nil)
	return userSvc, authSvc, users, sessions, messages
}

func TestUserService_GetProfile(t *testing.T) {
	userSvc, authSvc, _, _, _ := newUserFixture(t)
	ctx := context.Background()

	created, err := authSvc.Register(ctx, "a@x.com", "pw123", "Ann")
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	user, err := userSvc.GetProfile(ctx, created.ID)
	if err != nil {
		t.Fatalf("get profile: %v", err)
	}
	if user.Email != "a@x.com" || user.FullName != "Ann" {
		t.Fatalf("unexpected profile: %+v", user)
	}

	if _, err := userSvc.GetProfile(ctx, "missing"); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestUserService_UpdateProfile(t *testing.T) {
	userSvc, authSvc, _, _, _ := newUserFixture(t)
	ctx := context.Background()

	created, err := authSvc.Register(ctx, "a@x.com", "pw123", "Ann")
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	updated, err := userSvc.UpdateProfile(ctx, created.ID, UpdateProfileInput{FullName: "Ann B", Email: "ann@x.com"})
	if err != nil {
		t.Fatalf("update profile: %v", err)
	}
	if updated.FullName != "Ann B" || updated.Email != "ann@x.com" {
		t.Fatalf("unexpected update: %+v", updated)
	}

	// Campos vacíos no cambian nada.
	same, err := userSvc.UpdateProfile(ctx, created.ID, UpdateProfileInput{})
	if err != nil {
		t.Fatalf("noop update: %v", err)
	}
	if same.FullName != "Ann B" || same.Email != "ann@x.com" {
		t.Fatalf("noop update changed fields: %+v", same)
	}
}

func TestUserService_UpdateProfileRejectsTakenEmail(t *testing.T) {
	userSvc, authSvc, _, _, _ := newUserFixture(t)
	ctx := context.Background()

	if _, err := authSvc.Register(ctx, "a@x.com", "pw123", "Ann"); err != nil {
		t.Fatalf("register: %v", err)
	}
	other, err := authSvc.Register(ctx, "b@x.com", "pw123", "Bob")
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	if _, err := userSvc.UpdateProfile(ctx, other.ID, UpdateProfileInput{Email: "a@x.com"}); !errors.Is(err, ErrDuplicateEmail) {
		t.Fatalf("expected ErrDuplicateEmail, got %v", err)
	}
}

func TestUserService_Usage(t *testing.T) {
	userSvc, authSvc, _, sessions, messages := newUserFixture(t)
	ctx := context.Background()

	created, err := authSvc.Register(ctx, "a@x.com", "pw123", "Ann")
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	chatSvc := NewChatService(zap.NewNop(), sessions, messages, &rag.MockClient{Answer: "ok"})
	session, err := chatSvc.CreateSession(ctx, created.ID)
	if err != nil {
		t.Fatalf("create session: %v", err)
	}
	if _, err := chatSvc.SendMessage(ctx, created.ID, session.ID, "hola"); err != nil {
		t.Fatalf("send message: %v", err)
	}

	stats, err := userSvc.Usage(ctx, created.ID)
	if err != nil {
		t.Fatalf("usage: %v", err)
	}
	if stats.TotalSessions != 1 || stats.TotalMessages != 2 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
	if stats.SubscriptionTier != "free" {
		t.Fatalf("unexpected tier: %q", stats.SubscriptionTier)
	}
}

func TestUserService_DeleteAccount(t *testing.T) {
	userSvc, authSvc, users, _, _ := newUserFixture(t)
	ctx := context.Background()

	created, err := authSvc.Register(ctx, "a@x.com", "pw123", "Ann")
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	deleted, err := userSvc.DeleteAccount(ctx, created.ID)
	if err != nil {
		t.Fatalf("delete account: %v", err)
	}
	if deleted.Email != "a@x.com" {
		t.Fatalf("unexpected deleted user: %+v", deleted)
	}
	if len(users.usersByID) != 0 {
		t.Fatalf("expected user row removed")
	}
	if _, err := userSvc.DeleteAccount(ctx, created.ID); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound on second delete, got %v", err)
	}
}
