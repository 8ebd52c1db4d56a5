package auth

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/higherself/network-server/internal/store"
	"github.com/higherself/network-server/internal/users"
	"github.com/higherself/network-server/pkg/db/models"
	pkgerrors "github.com/higherself/network-server/pkg/errors"
)

// UserDirectory abstracts user lookup so the auth service works against the
// relational repository in production and the in-memory store in demo mode.
type UserDirectory interface {
	FindByIdentifier(ctx context.Context, identifier string) (*models.User, error)
	FindByID(ctx context.Context, id string) (*models.User, error)
	RecordLogin(ctx context.Context, id string, at time.Time) error
}

type repoDirectory struct {
	repo *users.Repository
}

// NewRepoDirectory adapts the relational user repository to the directory surface.
func NewRepoDirectory(repo *users.Repository) UserDirectory {
	return &repoDirectory{repo: repo}
}

func (d *repoDirectory) FindByIdentifier(ctx context.Context, identifier string) (*models.User, error) {
	return d.repo.FindByIdentifier(ctx, identifier)
}

func (d *repoDirectory) FindByID(ctx context.Context, id string) (*models.User, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid user id")
	}
	return d.repo.FindByID(ctx, parsed)
}

func (d *repoDirectory) RecordLogin(ctx context.Context, id string, at time.Time) error {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid user id")
	}
	return d.repo.UpdateLastLogin(ctx, parsed, at)
}

type demoDirectory struct {
	store *store.Store
}

// NewDemoDirectory adapts the in-memory demo store to the directory surface.
func NewDemoDirectory(s *store.Store) UserDirectory {
	return &demoDirectory{store: s}
}

func (d *demoDirectory) FindByIdentifier(ctx context.Context, identifier string) (*models.User, error) {
	user, err := d.store.FindUserByIdentifier(identifier)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (d *demoDirectory) FindByID(ctx context.Context, id string) (*models.User, error) {
	user, err := d.store.FindUserByID(id)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (d *demoDirectory) RecordLogin(ctx context.Context, id string, at time.Time) error {
	return d.store.TouchUserLogin(id, at)
}
