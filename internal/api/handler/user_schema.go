package handler

import (
	"github.com/marketloop/accounts-api/internal/core/domain"
	"github.com/marketloop/accounts-api/internal/core/ports"
)

type messageResponse struct {
	Message string `json:"message"`
}

// listErrorResponse is the failure envelope of the list endpoint only; every
// other endpoint reports errors as a bare message.
type listErrorResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

type createUserRequest struct {
	Firstname string `json:"firstname" validate:"required"`
	Lastname  string `json:"lastname" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	Phone     string `json:"phone"`
	Address   string `json:"address"`
	Password  string `json:"password" validate:"required,min=6"`
}

// updateProfileRequest is the self-update payload. Role and password are not
// part of the schema at all: unknown body keys are dropped at bind time, so
// neither can reach the repository through this path.
type updateProfileRequest struct {
	Firstname *string `json:"firstname"`
	Lastname  *string `json:"lastname"`
	Email     *string `json:"email"`
	Phone     *string `json:"phone"`
	Address   *string `json:"address"`
}

func (r updateProfileRequest) fields() ports.UpdateUserFields {
	return ports.UpdateUserFields{
		Firstname: r.Firstname,
		Lastname:  r.Lastname,
		Email:     r.Email,
		Phone:     r.Phone,
		Address:   r.Address,
	}
}

// adminUpdateRequest additionally admits a role change.
type adminUpdateRequest struct {
	Firstname *string `json:"firstname"`
	Lastname  *string `json:"lastname"`
	Email     *string `json:"email"`
	Phone     *string `json:"phone"`
	Address   *string `json:"address"`
	Role      *string `json:"role"`
}

func (r adminUpdateRequest) fields() ports.UpdateUserFields {
	return ports.UpdateUserFields{
		Firstname: r.Firstname,
		Lastname:  r.Lastname,
		Email:     r.Email,
		Phone:     r.Phone,
		Address:   r.Address,
		Role:      r.Role,
	}
}

type createUserResponse struct {
	User    *domain.User `json:"user"`
	Message string       `json:"message"`
}

type updateProfileResponse struct {
	UpdatedUser *domain.User `json:"updatedUser"`
	Message     string       `json:"message"`
}

type adminUpdateResponse struct {
	Message string       `json:"message"`
	Offer   *domain.User `json:"offer"`
}

type uploadAvatarResponse struct {
	UpdateAvatar *domain.User `json:"updateAvatar"`
}
