package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"

	"github.com/marketloop/accounts-api/internal/core/domain"
	"github.com/marketloop/accounts-api/internal/core/ports"
)

// ---------------------------------------------------------------------------
// Stubs
// ---------------------------------------------------------------------------

type stubUserRepo struct {
	users     map[string]*domain.User // keyed by id
	lookups   int                     // FindByID calls, to prove validation happens first
	createErr error                   // forced create failure (simulated index violation)
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubUserRepo) CountAll(_ context.Context) (int64, error) {
	return int64(len(r.users)), nil
}

func (r *stubUserRepo) ListAll(_ context.Context) ([]*domain.User, error) {
	out := make([]*domain.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, cloneUser(u))
	}
	return out, nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	r.lookups++
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	if r.createErr != nil {
		return nil, r.createErr
	}
	for _, u := range r.users {
		if u.Email == user.Email {
			return nil, domain.ErrEmailExists
		}
	}
	created := cloneUser(user)
	created.ID = primitive.NewObjectID().Hex()
	r.users[created.ID] = cloneUser(created)
	return created, nil
}

func (r *stubUserRepo) UpdateByID(_ context.Context, id string, fields ports.UpdateUserFields) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	if fields.Email != nil {
		for otherID, other := range r.users {
			if otherID != id && other.Email == *fields.Email {
				return nil, domain.ErrEmailExists
			}
		}
		u.Email = *fields.Email
	}
	if fields.Firstname != nil {
		u.Firstname = *fields.Firstname
	}
	if fields.Lastname != nil {
		u.Lastname = *fields.Lastname
	}
	if fields.Phone != nil {
		u.Phone = *fields.Phone
	}
	if fields.Address != nil {
		u.Address = *fields.Address
	}
	if fields.Role != nil {
		u.Role = *fields.Role
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) SoftDelete(_ context.Context, id string) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	u.Status = domain.StatusDeleted
	return cloneUser(u), nil
}

func (r *stubUserRepo) SetAvatar(_ context.Context, id, uri string) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	u.Avatar = uri
	return cloneUser(u), nil
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func newTestService(repo *stubUserRepo) *UserService {
	// MinCost keeps the bcrypt rounds cheap for tests.
	return NewUserService(repo, NewBcryptHasher(bcrypt.MinCost), zerolog.Nop())
}

func mustCreate(t *testing.T, svc *UserService, email string) *domain.User {
	t.Helper()
	u, err := svc.Create(context.Background(), ports.CreateUserInput{
		Firstname: "Ada",
		Lastname:  "Lovelace",
		Email:     email,
		Password:  "s3cret-pass",
	})
	if err != nil {
		t.Fatalf("create %s: %v", email, err)
	}
	return u
}

func strptr(s string) *string { return &s }

// ---------------------------------------------------------------------------
// Tests
// ---------------------------------------------------------------------------

func TestCreate_AssignsUserRoleAndHashesPassword(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestService(repo)

	u := mustCreate(t, svc, "ada@example.com")

	if u.Role != domain.RoleUser {
		t.Fatalf("expected role %q, got %q", domain.RoleUser, u.Role)
	}
	if u.Status != domain.StatusActive {
		t.Fatalf("expected status active, got %q", u.Status)
	}
	if u.PasswordHash == "" || u.PasswordHash == "s3cret-pass" {
		t.Fatalf("password was not hashed")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("s3cret-pass")); err != nil {
		t.Fatalf("stored hash does not match password: %v", err)
	}
	if u.ID == "" {
		t.Fatalf("expected an assigned id")
	}
}

func TestCreate_DuplicateEmail(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestService(repo)

	mustCreate(t, svc, "dup@example.com")
	if _, err := svc.Create(context.Background(), ports.CreateUserInput{
		Firstname: "Eve", Lastname: "Other", Email: "dup@example.com", Password: "pass-word",
	}); !errors.Is(err, domain.ErrEmailExists) {
		t.Fatalf("expected ErrEmailExists, got %v", err)
	}
	if len(repo.users) != 1 {
		t.Fatalf("expected exactly one record for the email, got %d", len(repo.users))
	}
}

func TestCreate_DuplicateCaughtByStoreAfterPreCheck(t *testing.T) {
	// The advisory pre-check misses a concurrent insert; the repository's
	// unique index reports the conflict instead. Same error either way.
	repo := newStubUserRepo()
	repo.createErr = domain.ErrEmailExists
	svc := newTestService(repo)

	if _, err := svc.Create(context.Background(), ports.CreateUserInput{
		Firstname: "Ada", Lastname: "L", Email: "race@example.com", Password: "pass-word",
	}); !errors.Is(err, domain.ErrEmailExists) {
		t.Fatalf("expected ErrEmailExists, got %v", err)
	}
}

func TestCreate_DistinctEmailsGetDistinctIDs(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestService(repo)

	a := mustCreate(t, svc, "a@example.com")
	b := mustCreate(t, svc, "b@example.com")
	if a.ID == b.ID {
		t.Fatalf("expected distinct ids, both were %s", a.ID)
	}
}

func TestGetByID_InvalidIDBeforeLookup(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestService(repo)

	if _, err := svc.GetByID(context.Background(), "not-an-object-id"); !errors.Is(err, domain.ErrInvalidUserID) {
		t.Fatalf("expected ErrInvalidUserID, got %v", err)
	}
	if repo.lookups != 0 {
		t.Fatalf("repository was queried %d times for a malformed id", repo.lookups)
	}
}

func TestGetByID_NotFound(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestService(repo)

	missing := primitive.NewObjectID().Hex()
	if _, err := svc.GetByID(context.Background(), missing); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestUpdateProfile_CannotChangeRole(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestService(repo)
	u := mustCreate(t, svc, "ada@example.com")
	originalHash := repo.users[u.ID].PasswordHash

	updated, err := svc.UpdateProfile(context.Background(), u.ID, ports.UpdateUserFields{
		Firstname: strptr("Augusta"),
		Role:      strptr(domain.RoleAdmin), // must be ignored
	})
	if err != nil {
		t.Fatalf("update profile: %v", err)
	}
	if updated.Firstname != "Augusta" {
		t.Fatalf("firstname not updated: %q", updated.Firstname)
	}
	if stored := repo.users[u.ID]; stored.Role != domain.RoleUser {
		t.Fatalf("self-update escalated role to %q", stored.Role)
	}
	if stored := repo.users[u.ID]; stored.PasswordHash != originalHash {
		t.Fatalf("self-update changed the password hash")
	}
}

func TestUpdateProfile_DuplicateEmail(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestService(repo)
	mustCreate(t, svc, "taken@example.com")
	u := mustCreate(t, svc, "mine@example.com")

	if _, err := svc.UpdateProfile(context.Background(), u.ID, ports.UpdateUserFields{
		Email: strptr("taken@example.com"),
	}); !errors.Is(err, domain.ErrEmailExists) {
		t.Fatalf("expected ErrEmailExists, got %v", err)
	}
}

func TestAdminUpdate_RoleChange(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestService(repo)
	u := mustCreate(t, svc, "ada@example.com")

	updated, err := svc.AdminUpdate(context.Background(), u.ID, ports.UpdateUserFields{
		Role: strptr(domain.RoleAdmin),
	})
	if err != nil {
		t.Fatalf("admin update: %v", err)
	}
	if updated.Role != domain.RoleAdmin {
		t.Fatalf("expected role admin, got %q", updated.Role)
	}
}

func TestAdminUpdate_RejectsUnknownRole(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestService(repo)
	u := mustCreate(t, svc, "ada@example.com")

	if _, err := svc.AdminUpdate(context.Background(), u.ID, ports.UpdateUserFields{
		Role: strptr("superuser"),
	}); !errors.Is(err, domain.ErrInvalidRole) {
		t.Fatalf("expected ErrInvalidRole, got %v", err)
	}
	if stored := repo.users[u.ID]; stored.Role != domain.RoleUser {
		t.Fatalf("role was changed to %q despite rejection", stored.Role)
	}
}

func TestSoftDelete_RecordStaysRetrievable(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestService(repo)
	u := mustCreate(t, svc, "ada@example.com")

	if err := svc.SoftDelete(context.Background(), u.ID); err != nil {
		t.Fatalf("soft delete: %v", err)
	}

	got, err := svc.GetByID(context.Background(), u.ID)
	if err != nil {
		t.Fatalf("deleted record no longer retrievable: %v", err)
	}
	if got.Status != domain.StatusDeleted {
		t.Fatalf("expected status deleted, got %q", got.Status)
	}
}

func TestSoftDelete_MissingIDReportsSuccess(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestService(repo)

	if err := svc.SoftDelete(context.Background(), primitive.NewObjectID().Hex()); err != nil {
		t.Fatalf("expected success on missing id, got %v", err)
	}
}

func TestSoftDelete_MalformedID(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestService(repo)

	if err := svc.SoftDelete(context.Background(), "zz"); !errors.Is(err, domain.ErrInvalidUserID) {
		t.Fatalf("expected ErrInvalidUserID, got %v", err)
	}
}

func TestList_CountsMatch(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestService(repo)
	mustCreate(t, svc, "a@example.com")
	mustCreate(t, svc, "b@example.com")
	// Deleted users stay in the listing: no server-side filter is applied.
	u := mustCreate(t, svc, "c@example.com")
	if err := svc.SoftDelete(context.Background(), u.ID); err != nil {
		t.Fatalf("soft delete: %v", err)
	}

	result, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if result.TotalCount != 3 {
		t.Fatalf("expected total 3, got %d", result.TotalCount)
	}
	if result.FilteredCount != len(result.Users) || result.FilteredCount != 3 {
		t.Fatalf("expected filtered count 3, got %d (users %d)", result.FilteredCount, len(result.Users))
	}
}

func TestSetAvatar(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestService(repo)
	u := mustCreate(t, svc, "ada@example.com")

	uri := "http://localhost:8080/img/profiles/profile-x-1.png"
	updated, err := svc.SetAvatar(context.Background(), u.ID, uri)
	if err != nil {
		t.Fatalf("set avatar: %v", err)
	}
	if updated.Avatar != uri {
		t.Fatalf("avatar not persisted: %q", updated.Avatar)
	}
}

func TestBcryptHasher_Verify(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)
	digest, err := h.Hash("correct horse")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if !h.Verify("correct horse", digest) {
		t.Fatalf("verify rejected the original password")
	}
	if h.Verify("wrong horse", digest) {
		t.Fatalf("verify accepted a wrong password")
	}
}
