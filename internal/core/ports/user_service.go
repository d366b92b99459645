package ports

import (
	"context"

	"github.com/marketloop/accounts-api/internal/core/domain"
)

// CreateUserInput carries the fields an admin supplies when creating an
// account. Role is not part of the input: new accounts always start as "user".
type CreateUserInput struct {
	Firstname string
	Lastname  string
	Email     string
	Phone     string
	Address   string
	Password  string
}

// ListUsersResult mirrors the list endpoint payload: FilteredCount equals the
// length of Users since no server-side filter is applied.
type ListUsersResult struct {
	TotalCount    int64          `json:"totalCount"`
	Users         []*domain.User `json:"users"`
	FilteredCount int            `json:"filteredCount"`
}

// UserService composes the account lifecycle operations. Role policy is
// enforced upstream by the HTTP gate; the service assumes an authorized caller.
type UserService interface {
	List(ctx context.Context) (*ListUsersResult, error)
	GetByID(ctx context.Context, id string) (*domain.User, error)
	Create(ctx context.Context, in CreateUserInput) (*domain.User, error)
	// UpdateProfile merges fields into the caller's own record. Role changes
	// are stripped from the input before persistence.
	UpdateProfile(ctx context.Context, callerID string, fields UpdateUserFields) (*domain.User, error)
	// AdminUpdate merges fields into an arbitrary record and may change the
	// role, constrained to the closed role set.
	AdminUpdate(ctx context.Context, id string, fields UpdateUserFields) (*domain.User, error)
	SoftDelete(ctx context.Context, id string) error
	SetAvatar(ctx context.Context, callerID, uri string) (*domain.User, error)
}
