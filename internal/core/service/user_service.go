package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/marketloop/accounts-api/internal/core/domain"
	"github.com/marketloop/accounts-api/internal/core/ports"
)

// UserService orchestrates the account lifecycle on top of the repository and
// the credential hasher. Role policy is enforced by the HTTP gate before any
// of these methods run.
type UserService struct {
	repo   ports.UserRepository
	hasher ports.PasswordHasher
	logger zerolog.Logger
}

func NewUserService(repo ports.UserRepository, hasher ports.PasswordHasher, logger zerolog.Logger) *UserService {
	return &UserService{repo: repo, hasher: hasher, logger: logger}
}

// List returns the total count, the full user set, and the filtered count.
// No server-side filter is applied, so both counts are currently equal; the
// split exists as the hook for a future filter.
func (s *UserService) List(ctx context.Context) (*ports.ListUsersResult, error) {
	total, err := s.repo.CountAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("count users: %w", err)
	}

	users, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	return &ports.ListUsersResult{
		TotalCount:    total,
		Users:         users,
		FilteredCount: len(users),
	}, nil
}

// GetByID fetches a single account. The id shape is validated before any
// repository call is issued.
func (s *UserService) GetByID(ctx context.Context, id string) (*domain.User, error) {
	if !primitive.IsValidObjectID(id) {
		return nil, domain.ErrInvalidUserID
	}
	return s.repo.FindByID(ctx, id)
}

// Create registers a new account with role "user" and a hashed credential.
// The email pre-check is advisory; the unique index at the store remains the
// authoritative guard, so a concurrent create racing past the pre-check still
// surfaces as ErrEmailExists from the repository.
func (s *UserService) Create(ctx context.Context, in ports.CreateUserInput) (*domain.User, error) {
	if _, err := s.repo.FindByEmail(ctx, in.Email); err == nil {
		return nil, domain.ErrEmailExists
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, fmt.Errorf("check email: %w", err)
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	created, err := s.repo.Create(ctx, &domain.User{
		Firstname:    in.Firstname,
		Lastname:     in.Lastname,
		Email:        in.Email,
		Phone:        in.Phone,
		Address:      in.Address,
		PasswordHash: hash,
		Role:         domain.RoleUser,
		Status:       domain.StatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("user_id", created.ID).Msg("user created")
	return created, nil
}

// UpdateProfile merges fields into the caller's own record. The role field is
// cleared unconditionally: self-service updates can never escalate.
func (s *UserService) UpdateProfile(ctx context.Context, callerID string, fields ports.UpdateUserFields) (*domain.User, error) {
	if !primitive.IsValidObjectID(callerID) {
		return nil, domain.ErrInvalidUserID
	}
	fields.Role = nil
	return s.repo.UpdateByID(ctx, callerID, fields)
}

// AdminUpdate merges fields into an arbitrary record. A role change must name
// a member of the closed role set.
func (s *UserService) AdminUpdate(ctx context.Context, id string, fields ports.UpdateUserFields) (*domain.User, error) {
	if !primitive.IsValidObjectID(id) {
		return nil, domain.ErrInvalidUserID
	}
	if fields.Role != nil && !domain.ValidRole(*fields.Role) {
		return nil, domain.ErrInvalidRole
	}
	return s.repo.UpdateByID(ctx, id, fields)
}

// SoftDelete marks the target account deleted. A miss is not an error: the
// endpoint has always reported success whether or not the id matched a record.
func (s *UserService) SoftDelete(ctx context.Context, id string) error {
	if !primitive.IsValidObjectID(id) {
		return domain.ErrInvalidUserID
	}

	user, err := s.repo.SoftDelete(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil
		}
		return err
	}

	s.logger.Info().Str("user_id", user.ID).Msg("user soft-deleted")
	return nil
}

// SetAvatar persists an already-stored avatar URI on the caller's record.
func (s *UserService) SetAvatar(ctx context.Context, callerID, uri string) (*domain.User, error) {
	if !primitive.IsValidObjectID(callerID) {
		return nil, domain.ErrInvalidUserID
	}
	return s.repo.SetAvatar(ctx, callerID, uri)
}
