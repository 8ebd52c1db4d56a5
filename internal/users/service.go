package users

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/higherself/network-server/pkg/config"
	"github.com/higherself/network-server/pkg/db"
	"github.com/higherself/network-server/pkg/db/models"
	pkgerrors "github.com/higherself/network-server/pkg/errors"
	"github.com/higherself/network-server/pkg/pagination"
	"github.com/higherself/network-server/pkg/security"
	"gorm.io/gorm"
)

// Service defines the administrative user operations.
type Service interface {
	Create(ctx context.Context, req CreateRequest) (*UserDTO, error)
	Get(ctx context.Context, id uuid.UUID) (*UserDTO, error)
	Update(ctx context.Context, id uuid.UUID, req UpdateRequest) (*UserDTO, error)
	UpdatePassword(ctx context.Context, id uuid.UUID, req UpdatePasswordRequest) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, req ListRequest) (*ListResponse, error)
}

// CreateRequest is the admin create-user payload.
type CreateRequest struct {
	Username  string `json:"username" validate:"required,min=3,max=64"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8"`
	FirstName string `json:"first_name" validate:"max=64"`
	LastName  string `json:"last_name" validate:"max=64"`
	Role      string `json:"role" validate:"omitempty"`
	IsActive  *bool  `json:"is_active"`
}

// UpdateRequest is the admin update-user payload; absent fields are untouched.
type UpdateRequest struct {
	Email     *string `json:"email" validate:"omitempty,email"`
	FirstName *string `json:"first_name" validate:"omitempty,max=64"`
	LastName  *string `json:"last_name" validate:"omitempty,max=64"`
	Role      *string `json:"role"`
	IsActive  *bool   `json:"is_active"`
}

// UpdatePasswordRequest carries a password change.
type UpdatePasswordRequest struct {
	Password string `json:"password" validate:"required,min=8"`
}

// ListRequest carries list filters and pagination.
type ListRequest struct {
	Role    string
	Active  *bool
	Search  string
	Page    int
	PerPage int
}

// ListResponse is a page of users with metadata.
type ListResponse struct {
	Users []*UserDTO      `json:"users"`
	Meta  pagination.Meta `json:"meta"`
}

type service struct {
	repo        *Repository
	passwordCfg config.PasswordConfig
}

// NewService constructs the user admin service.
func NewService(repo *Repository, passwordCfg config.PasswordConfig) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("user repository is required")
	}
	return &service{repo: repo, passwordCfg: passwordCfg}, nil
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*UserDTO, error) {
	role := strings.TrimSpace(req.Role)
	if role != "" && !models.ValidRole(role) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown role %q", role))
	}

	hash, err := security.HashPassword(req.Password, s.passwordCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	user, err := s.repo.Create(ctx, CreateUserDTO{
		Username:     strings.TrimSpace(req.Username),
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		PasswordHash: hash,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Role:         role,
		IsActive:     req.IsActive,
	})
	if err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.Wrap(pkgerrors.CodeConflict, err, "username or email already in use")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create user")
	}
	return FromModel(user), nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*UserDTO, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, mapRepoError(err, id)
	}
	return FromModel(user), nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, req UpdateRequest) (*UserDTO, error) {
	if req.Role != nil && !models.ValidRole(*req.Role) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown role %q", *req.Role))
	}

	var email *string
	if req.Email != nil {
		normalized := strings.ToLower(strings.TrimSpace(*req.Email))
		email = &normalized
	}

	user, err := s.repo.Update(ctx, id, UpdateUserDTO{
		Email:     email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Role:      req.Role,
		IsActive:  req.IsActive,
	})
	if err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.Wrap(pkgerrors.CodeConflict, err, "email already in use")
		}
		return nil, mapRepoError(err, id)
	}
	return FromModel(user), nil
}

func (s *service) UpdatePassword(ctx context.Context, id uuid.UUID, req UpdatePasswordRequest) error {
	hash, err := security.HashPassword(req.Password, s.passwordCfg)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}
	if err := s.repo.UpdatePassword(ctx, id, hash); err != nil {
		return mapRepoError(err, id)
	}
	return nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.SoftDelete(ctx, id); err != nil {
		return mapRepoError(err, id)
	}
	return nil
}

func (s *service) List(ctx context.Context, req ListRequest) (*ListResponse, error) {
	page := pagination.Params{Page: req.Page, PerPage: req.PerPage}.Normalize()
	rows, total, err := s.repo.List(ctx, ListFilter{
		Role:   req.Role,
		Active: req.Active,
		Search: req.Search,
	}, page)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list users")
	}

	dtos := make([]*UserDTO, 0, len(rows))
	for i := range rows {
		dtos = append(dtos, FromModel(&rows[i]))
	}
	return &ListResponse{
		Users: dtos,
		Meta:  pagination.NewMeta(page, total),
	}, nil
}

func mapRepoError(err error, id uuid.UUID) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("user %s not found", id))
	}
	return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "user repository")
}
