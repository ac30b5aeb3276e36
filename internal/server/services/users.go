// Package services contains server-side business logic. Each service owns
// one resource, reads through repositories bound to the pool and runs every
// write inside a single transaction.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/recipebox/internal/common"
	"github.com/dmitrijs2005/recipebox/internal/dbx"
	"github.com/dmitrijs2005/recipebox/internal/server/auth"
	"github.com/dmitrijs2005/recipebox/internal/server/models"
	"github.com/dmitrijs2005/recipebox/internal/server/repositories/repomanager"
)

// UserService handles registration, login, identity lookup and account
// removal.
type UserService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	hasher      *auth.PasswordHasher
	tokens      *auth.TokenService
}

// NewUserService constructs a UserService.
func NewUserService(db *sql.DB, m repomanager.RepositoryManager, hasher *auth.PasswordHasher, tokens *auth.TokenService) *UserService {
	return &UserService{
		db:          db,
		repomanager: m,
		hasher:      hasher,
		tokens:      tokens,
	}
}

// Register creates a user. Usernames are compared exactly; a taken one
// yields common.ErrorConflict.
func (s *UserService) Register(ctx context.Context, userName, password string) (*models.User, error) {
	if userName == "" || password == "" {
		return nil, fmt.Errorf("%w: both username and password are required", common.ErrorValidation)
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, err
	}

	var user *models.User
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Users(tx)

		_, err := repo.GetByUsername(ctx, userName)
		switch {
		case err == nil:
			return fmt.Errorf("%w: username already exists", common.ErrorConflict)
		case !errors.Is(err, common.ErrorNotFound):
			return fmt.Errorf("error looking up user: %w", err)
		}

		user, err = repo.Create(ctx, &models.User{UserName: userName, PasswordHash: hash})
		if errors.Is(err, common.ErrorConflict) {
			return fmt.Errorf("%w: username already exists", common.ErrorConflict)
		}
		if err != nil {
			return fmt.Errorf("error creating user: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return user, nil
}

// Login checks the credentials and issues a bearer token. An unknown user
// and a wrong password give the same common.ErrInvalidCredentials.
func (s *UserService) Login(ctx context.Context, userName, password string) (*auth.Token, error) {
	if userName == "" || password == "" {
		return nil, fmt.Errorf("%w: both username and password are required", common.ErrorValidation)
	}

	user, err := s.repomanager.Users(s.db).GetByUsername(ctx, userName)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			s.hasher.Burn(password)
			return nil, common.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("error looking up user: %w", err)
	}

	if !s.hasher.Verify(user.PasswordHash, password) {
		return nil, common.ErrInvalidCredentials
	}

	return s.tokens.Issue(user.ID)
}

// Identify resolves a verified token subject to the caller's identity. A
// user that no longer exists yields common.ErrorUnauthorized.
func (s *UserService) Identify(ctx context.Context, userID int64) (auth.Identity, error) {
	user, err := s.repomanager.Users(s.db).GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return auth.Identity{}, common.ErrorUnauthorized
		}
		return auth.Identity{}, fmt.Errorf("error looking up user: %w", err)
	}
	return auth.Identity{UserID: user.ID, UserName: user.UserName}, nil
}

// Delete removes the user together with all of their recipes.
func (s *UserService) Delete(ctx context.Context, userID int64) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.repomanager.Users(tx).Delete(ctx, userID); err != nil {
			return fmt.Errorf("error deleting user: %w", err)
		}
		return nil
	})
}
