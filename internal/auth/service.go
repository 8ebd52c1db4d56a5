package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/higherself/network-server/internal/users"
	pkgAuth "github.com/higherself/network-server/pkg/auth"
	"github.com/higherself/network-server/pkg/auth/session"
	"github.com/higherself/network-server/pkg/config"
	"github.com/higherself/network-server/pkg/db/models"
	pkgerrors "github.com/higherself/network-server/pkg/errors"
	"github.com/higherself/network-server/pkg/logger"
	"github.com/higherself/network-server/pkg/security"
	"gorm.io/gorm"
)

// invalidCredentialsMessage is the uniform public message for every
// authentication failure so callers cannot tell which check rejected them.
const invalidCredentialsMessage = "invalid credentials"

// Service defines the behavior needed by the auth controllers.
type Service interface {
	Login(ctx context.Context, req LoginRequest) (*LoginResponse, error)
	Refresh(ctx context.Context, req RefreshRequest) (*RefreshResponse, error)
	Logout(ctx context.Context, req LogoutRequest) error
}

type sessionManager interface {
	Track(ctx context.Context, tokenID string, userID string) error
	Check(ctx context.Context, tokenID string) error
	Revoke(ctx context.Context, tokenID string) error
	Rotate(ctx context.Context, oldTokenID, userID string) (string, error)
}

type service struct {
	directory UserDirectory
	session   sessionManager
	jwtCfg    config.JWTConfig
	logg      *logger.Logger
	now       func() time.Time
}

// ServiceParams bundles the dependencies required to build an auth service.
type ServiceParams struct {
	Directory      UserDirectory
	SessionManager sessionManager
	JWTConfig      config.JWTConfig
	Logger         *logger.Logger
}

// NewService constructs an auth service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Directory == nil {
		return nil, fmt.Errorf("user directory is required")
	}
	if params.SessionManager == nil {
		return nil, fmt.Errorf("session manager is required")
	}
	return &service{
		directory: params.Directory,
		session:   params.SessionManager,
		jwtCfg:    params.JWTConfig,
		logg:      params.Logger,
		now:       time.Now,
	}, nil
}

func (s *service) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	user, err := s.authenticate(ctx, req.Identifier, req.Password)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	if err := s.directory.RecordLogin(ctx, user.ID.String(), now); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update last login")
	}
	user.LastLoginAt = &now

	accessToken, refreshToken, err := s.mintPair(ctx, user, now)
	if err != nil {
		return nil, err
	}

	return &LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         users.FromModel(user),
	}, nil
}

// Refresh verifies the refresh token, confirms the session is still live, and
// re-fetches the user so a deactivated account cannot ride an old token.
func (s *service) Refresh(ctx context.Context, req RefreshRequest) (*RefreshResponse, error) {
	claims, err := pkgAuth.ParseRefreshToken(s.jwtCfg, req.RefreshToken)
	if err != nil {
		s.warnAuthFailure(ctx, "refresh token rejected", err)
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}

	user, err := s.directory.FindByID(ctx, claims.UserID.String())
	if err != nil {
		if isNotFound(err) {
			s.warnAuthFailure(ctx, "refresh for unknown user", nil)
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup user")
	}
	if !user.IsActive {
		s.warnAuthFailure(ctx, "refresh for inactive user", nil)
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}

	newTokenID, err := s.session.Rotate(ctx, claims.ID, user.ID.String())
	if err != nil {
		if errors.Is(err, session.ErrSessionNotFound) {
			s.warnAuthFailure(ctx, "refresh session revoked or expired", nil)
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "rotate session")
	}

	now := s.now().UTC()
	payload := pkgAuth.TokenPayload{
		UserID:   user.ID,
		Username: user.Username,
		Role:     user.Role,
	}
	accessToken, err := pkgAuth.MintAccessToken(s.jwtCfg, now, payload)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint access token")
	}
	payload.JTI = newTokenID
	refreshToken, err := pkgAuth.MintRefreshToken(s.jwtCfg, now, payload)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint refresh token")
	}

	return &RefreshResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

func (s *service) Logout(ctx context.Context, req LogoutRequest) error {
	claims, err := pkgAuth.ParseRefreshToken(s.jwtCfg, req.RefreshToken)
	if err != nil {
		s.warnAuthFailure(ctx, "logout with invalid refresh token", err)
		return pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}
	if err := s.session.Revoke(ctx, claims.ID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "revoke session")
	}
	return nil
}

// authenticate returns the uniform invalid-credentials error for unknown
// identifier, inactive account, and wrong password alike.
func (s *service) authenticate(ctx context.Context, identifier, password string) (*models.User, error) {
	input := strings.TrimSpace(identifier)
	if input == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}

	user, err := s.directory.FindByIdentifier(ctx, input)
	if err != nil {
		if isNotFound(err) {
			s.warnAuthFailure(ctx, "login for unknown identifier", nil)
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup user")
	}

	if !security.VerifyPassword(password, user.PasswordHash) || !user.IsActive {
		s.warnAuthFailure(ctx, "login rejected", nil)
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}
	return user, nil
}

func (s *service) mintPair(ctx context.Context, user *models.User, now time.Time) (string, string, error) {
	payload := pkgAuth.TokenPayload{
		UserID:   user.ID,
		Username: user.Username,
		Role:     user.Role,
	}

	accessToken, err := pkgAuth.MintAccessToken(s.jwtCfg, now, payload)
	if err != nil {
		return "", "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint access token")
	}

	tokenID := session.NewTokenID()
	payload.JTI = tokenID
	refreshToken, err := pkgAuth.MintRefreshToken(s.jwtCfg, now, payload)
	if err != nil {
		return "", "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint refresh token")
	}
	if err := s.session.Track(ctx, tokenID, user.ID.String()); err != nil {
		return "", "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "track session")
	}
	return accessToken, refreshToken, nil
}

func (s *service) warnAuthFailure(ctx context.Context, msg string, err error) {
	if s.logg == nil {
		return
	}
	if err != nil {
		ctx = s.logg.WithField(ctx, "reason", err.Error())
	}
	s.logg.Warn(ctx, msg)
}

func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound) || pkgerrors.IsCode(err, pkgerrors.CodeNotFound)
}
