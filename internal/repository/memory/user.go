package memory

import (
	"context"
	"time"

	"github.com/lunaria-app/lunaria/internal/domain/user"
	"github.com/lunaria-app/lunaria/internal/pkg/errors"
)

type userRepo struct {
	s *Store
}

func (r *userRepo) Create(ctx context.Context, u *user.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, existing := range r.s.users {
		if existing.Email == u.Email {
			return errors.Conflict("Email already registered")
		}
		if existing.Username == u.Username {
			return errors.Conflict("Username already taken")
		}
	}

	u.ID = r.s.nextUserID
	r.s.nextUserID++
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now()
	}

	stored := *u
	r.s.users[u.ID] = &stored
	return nil
}

func (r *userRepo) GetByID(ctx context.Context, id int64) (*user.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	u, ok := r.s.users[id]
	if !ok {
		return nil, errors.NotFound("User")
	}
	copied := *u
	return &copied, nil
}

func (r *userRepo) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, u := range r.s.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, errors.NotFound("User")
}

func (r *userRepo) GetByUsername(ctx context.Context, username string) (*user.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, u := range r.s.users {
		if u.Username == username {
			copied := *u
			return &copied, nil
		}
	}
	return nil, errors.NotFound("User")
}

func (r *userRepo) GetByResetToken(ctx context.Context, token string) (*user.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	now := time.Now()
	for _, u := range r.s.users {
		if u.ResetToken != nil && *u.ResetToken == token &&
			u.ResetTokenExpiresAt != nil && u.ResetTokenExpiresAt.After(now) {
			copied := *u
			return &copied, nil
		}
	}
	return nil, errors.NotFound("User")
}

func (r *userRepo) UpdateStripeInfo(ctx context.Context, userID int64, customerID, subscriptionID string) (*user.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	u, ok := r.s.users[userID]
	if !ok {
		return nil, errors.NotFound("User")
	}
	u.StripeCustomerID = &customerID
	u.StripeSubscriptionID = &subscriptionID
	copied := *u
	return &copied, nil
}

func (r *userRepo) UpdateSubscriptionStatus(ctx context.Context, userID int64, status string) (*user.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	u, ok := r.s.users[userID]
	if !ok {
		return nil, errors.NotFound("User")
	}
	u.SubscriptionStatus = status
	copied := *u
	return &copied, nil
}

func (r *userRepo) SetResetToken(ctx context.Context, userID int64, token string, expiresAt time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	u, ok := r.s.users[userID]
	if !ok {
		return errors.NotFound("User")
	}
	u.ResetToken = &token
	u.ResetTokenExpiresAt = &expiresAt
	return nil
}

func (r *userRepo) ConsumeResetToken(ctx context.Context, token, passwordHash string, now time.Time) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, u := range r.s.users {
		if u.ResetToken != nil && *u.ResetToken == token &&
			u.ResetTokenExpiresAt != nil && u.ResetTokenExpiresAt.After(now) {
			u.PasswordHash = passwordHash
			u.ResetToken = nil
			u.ResetTokenExpiresAt = nil
			return u.ID, nil
		}
	}
	return 0, errors.NotFound("Reset token")
}

func (r *userRepo) UpdatePassword(ctx context.Context, userID int64, passwordHash string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	u, ok := r.s.users[userID]
	if !ok {
		return errors.NotFound("User")
	}
	u.PasswordHash = passwordHash
	return nil
}

func (r *userRepo) SetAdmin(ctx context.Context, userID int64, isAdmin bool) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	u, ok := r.s.users[userID]
	if !ok {
		return errors.NotFound("User")
	}
	u.IsAdmin = isAdmin
	return nil
}

func (r *userRepo) ClearResetToken(ctx context.Context, userID int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	u, ok := r.s.users[userID]
	if !ok {
		return errors.NotFound("User")
	}
	u.ResetToken = nil
	u.ResetTokenExpiresAt = nil
	return nil
}

func (r *userRepo) List(ctx context.Context, limit, offset int) ([]*user.User, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	ids := sortedIDs(r.s.users)
	total := int64(len(ids))
	start, end := paginate(len(ids), limit, offset)

	result := make([]*user.User, 0, end-start)
	for _, id := range ids[start:end] {
		copied := *r.s.users[id]
		result = append(result, &copied)
	}
	return result, total, nil
}

func (r *userRepo) CountBySubscriptionStatus(ctx context.Context, status string) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var n int64
	for _, u := range r.s.users {
		if u.SubscriptionStatus == status {
			n++
		}
	}
	return n, nil
}
