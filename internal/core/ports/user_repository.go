package ports

import (
	"context"

	"github.com/marketloop/accounts-api/internal/core/domain"
)

// UpdateUserFields carries the allow-listed mutable fields of a partial
// update. A nil pointer means "leave unchanged"; fields outside this set
// (password hash, status) cannot be reached through a generic update at all.
type UpdateUserFields struct {
	Firstname *string
	Lastname  *string
	Email     *string
	Phone     *string
	Address   *string
	// Role is honored only on the admin update path; the self-update path
	// clears it before it reaches the repository.
	Role *string
}

// Empty reports whether no field is set.
func (f UpdateUserFields) Empty() bool {
	return f.Firstname == nil && f.Lastname == nil && f.Email == nil &&
		f.Phone == nil && f.Address == nil && f.Role == nil
}

// UserRepository defines persistence operations for user accounts. Every
// operation is atomic with respect to a single document.
type UserRepository interface {
	CountAll(ctx context.Context) (int64, error)
	ListAll(ctx context.Context) ([]*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	// Create inserts a new account. The unique email index is the
	// authoritative duplicate guard: a duplicate-key violation surfaces as
	// domain.ErrEmailExists regardless of any advisory pre-check.
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	// UpdateByID merges the provided fields into an existing document and
	// returns the updated record.
	UpdateByID(ctx context.Context, id string, fields UpdateUserFields) (*domain.User, error)
	// SoftDelete marks the account deleted; the document stays retrievable.
	SoftDelete(ctx context.Context, id string) (*domain.User, error)
	SetAvatar(ctx context.Context, id, uri string) (*domain.User, error)
}
