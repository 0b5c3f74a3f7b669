package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/lunaria-app/lunaria/internal/config"
	"github.com/lunaria-app/lunaria/internal/domain/user"
	"github.com/lunaria-app/lunaria/internal/pkg/errors"
)

// newTestDB opens an in-memory SQLite database with the full schema. The
// repositories run the same rebindable SQL against both backends, so SQLite
// stands in for postgres in tests.
func newTestDB(t *testing.T) *DB {
	t.Helper()

	db, err := New(config.DatabaseConfig{Driver: "sqlite", Path: ":memory:"})
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := Migrate(db, nil); err != nil {
		t.Fatalf("migrate test database: %v", err)
	}
	return db
}

func newTestUser(username, email string) *user.User {
	return &user.User{
		Username:     username,
		Email:        email,
		PasswordHash: "hash",
	}
}

func TestUserRepository_Create(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	u := newTestUser("luna", "luna@example.com")
	if err := repo.Create(ctx, u); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if u.ID == 0 {
		t.Error("Create() did not set the ID")
	}
	if u.CreatedAt.IsZero() {
		t.Error("Create() did not set CreatedAt")
	}

	tests := []struct {
		name string
		dup  *user.User
	}{
		{"duplicate email", newTestUser("other", "luna@example.com")},
		{"duplicate username", newTestUser("luna", "other@example.com")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := repo.Create(ctx, tt.dup); !errors.IsConflict(err) {
				t.Errorf("Create() error = %v, want conflict", err)
			}
		})
	}
}

func TestUserRepository_Lookups(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	fullName := "Luna Lovegood"
	u := newTestUser("luna", "luna@example.com")
	u.FullName = &fullName
	if err := repo.Create(ctx, u); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	byID, err := repo.GetByID(ctx, u.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if byID.Email != u.Email || byID.FullName == nil || *byID.FullName != fullName {
		t.Errorf("GetByID() = %+v", byID)
	}

	byEmail, err := repo.GetByEmail(ctx, "luna@example.com")
	if err != nil {
		t.Fatalf("GetByEmail() error = %v", err)
	}
	if byEmail.ID != u.ID {
		t.Errorf("GetByEmail() ID = %d, want %d", byEmail.ID, u.ID)
	}

	byName, err := repo.GetByUsername(ctx, "luna")
	if err != nil {
		t.Fatalf("GetByUsername() error = %v", err)
	}
	if byName.ID != u.ID {
		t.Errorf("GetByUsername() ID = %d, want %d", byName.ID, u.ID)
	}

	if _, err := repo.GetByID(ctx, 999); !errors.IsNotFound(err) {
		t.Errorf("GetByID(999) error = %v, want not found", err)
	}
}

func TestUserRepository_StripeInfo(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	u := newTestUser("luna", "luna@example.com")
	if err := repo.Create(ctx, u); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	updated, err := repo.UpdateStripeInfo(ctx, u.ID, "cus_1", "sub_1")
	if err != nil {
		t.Fatalf("UpdateStripeInfo() error = %v", err)
	}
	if updated.StripeCustomerID == nil || *updated.StripeCustomerID != "cus_1" {
		t.Errorf("customer ID = %v", updated.StripeCustomerID)
	}
	if updated.StripeSubscriptionID == nil || *updated.StripeSubscriptionID != "sub_1" {
		t.Errorf("subscription ID = %v", updated.StripeSubscriptionID)
	}

	active, err := repo.UpdateSubscriptionStatus(ctx, u.ID, user.SubscriptionActive)
	if err != nil {
		t.Fatalf("UpdateSubscriptionStatus() error = %v", err)
	}
	if active.SubscriptionStatus != user.SubscriptionActive {
		t.Errorf("status = %q", active.SubscriptionStatus)
	}

	if _, err := repo.UpdateSubscriptionStatus(ctx, 999, user.SubscriptionActive); !errors.IsNotFound(err) {
		t.Errorf("UpdateSubscriptionStatus(999) error = %v, want not found", err)
	}

	n, err := repo.CountBySubscriptionStatus(ctx, user.SubscriptionActive)
	if err != nil {
		t.Fatalf("CountBySubscriptionStatus() error = %v", err)
	}
	if n != 1 {
		t.Errorf("count = %d, want 1", n)
	}
}

func TestUserRepository_ResetToken(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	u := newTestUser("luna", "luna@example.com")
	if err := repo.Create(ctx, u); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if err := repo.SetResetToken(ctx, u.ID, "tok", time.Now().Add(time.Hour)); err != nil {
		t.Fatalf("SetResetToken() error = %v", err)
	}

	holder, err := repo.GetByResetToken(ctx, "tok")
	if err != nil {
		t.Fatalf("GetByResetToken() error = %v", err)
	}
	if holder.ID != u.ID {
		t.Errorf("holder = %d, want %d", holder.ID, u.ID)
	}

	userID, err := repo.ConsumeResetToken(ctx, "tok", "newhash", time.Now())
	if err != nil {
		t.Fatalf("ConsumeResetToken() error = %v", err)
	}
	if userID != u.ID {
		t.Errorf("userID = %d, want %d", userID, u.ID)
	}

	after, err := repo.GetByID(ctx, u.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if after.PasswordHash != "newhash" {
		t.Errorf("password hash = %q", after.PasswordHash)
	}
	if after.ResetToken != nil {
		t.Error("reset token not cleared")
	}

	// The token is single use.
	if _, err := repo.ConsumeResetToken(ctx, "tok", "another", time.Now()); !errors.IsNotFound(err) {
		t.Errorf("second consume error = %v, want not found", err)
	}
}

func TestUserRepository_ConsumeResetToken_DuplicateHash(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	// Another account already stores the exact hash the reset will write.
	// The consume must still resolve the token holder, not that account.
	other := newTestUser("other", "other@example.com")
	other.PasswordHash = "newhash"
	if err := repo.Create(ctx, other); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	u := newTestUser("luna", "luna@example.com")
	if err := repo.Create(ctx, u); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if err := repo.SetResetToken(ctx, u.ID, "tok", time.Now().Add(time.Hour)); err != nil {
		t.Fatalf("SetResetToken() error = %v", err)
	}

	userID, err := repo.ConsumeResetToken(ctx, "tok", "newhash", time.Now())
	if err != nil {
		t.Fatalf("ConsumeResetToken() error = %v", err)
	}
	if userID != u.ID {
		t.Errorf("userID = %d, want %d", userID, u.ID)
	}

	untouched, err := repo.GetByID(ctx, other.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if untouched.ResetToken != nil {
		t.Error("unrelated account's reset token modified")
	}
}

func TestUserRepository_ConsumeResetToken_Expired(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	u := newTestUser("luna", "luna@example.com")
	if err := repo.Create(ctx, u); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if err := repo.SetResetToken(ctx, u.ID, "tok", time.Now().Add(-time.Minute)); err != nil {
		t.Fatalf("SetResetToken() error = %v", err)
	}

	if _, err := repo.ConsumeResetToken(ctx, "tok", "newhash", time.Now()); !errors.IsNotFound(err) {
		t.Errorf("ConsumeResetToken() error = %v, want not found", err)
	}
}

func TestUserRepository_SetAdmin(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	u := newTestUser("luna", "luna@example.com")
	if err := repo.Create(ctx, u); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if err := repo.SetAdmin(ctx, u.ID, true); err != nil {
		t.Fatalf("SetAdmin() error = %v", err)
	}
	after, _ := repo.GetByID(ctx, u.ID)
	if !after.IsAdmin {
		t.Error("admin flag not set")
	}

	if err := repo.SetAdmin(ctx, 999, true); !errors.IsNotFound(err) {
		t.Errorf("SetAdmin(999) error = %v, want not found", err)
	}
}

func TestUserRepository_List(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	emails := []string{"a@example.com", "b@example.com", "c@example.com"}
	for i, email := range emails {
		u := newTestUser(email[:1], email)
		if err := repo.Create(ctx, u); err != nil {
			t.Fatalf("Create(%d) error = %v", i, err)
		}
	}

	users, total, err := repo.List(ctx, 2, 0)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if total != 3 {
		t.Errorf("total = %d, want 3", total)
	}
	if len(users) != 2 {
		t.Errorf("page length = %d, want 2", len(users))
	}
	if users[0].Email != "a@example.com" {
		t.Errorf("first = %q, want insertion order", users[0].Email)
	}
}
