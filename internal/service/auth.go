package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/Skotchmaster/clothing_shop/internal/hash"
	"github.com/Skotchmaster/clothing_shop/internal/logging"
	"github.com/Skotchmaster/clothing_shop/internal/models"
	"github.com/Skotchmaster/clothing_shop/internal/repo"
	"github.com/Skotchmaster/clothing_shop/internal/tokens"
	"github.com/Skotchmaster/clothing_shop/internal/transport"
	"github.com/google/uuid"
)

const minPasswordLen = 6

type AuthService struct {
	Repo          *repo.GormRepo
	JWTSecret     []byte
	RefreshSecret []byte
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
}

type LoginResult struct {
	User         *models.User
	AccessToken  string
	RefreshToken string
	AccessExp    time.Time
	RefreshExp   time.Time
}

func normalizeEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if _, err := mail.ParseAddress(email); err != nil {
		return "", fmt.Errorf("%w: invalid email", ErrValidation)
	}
	return email, nil
}

// issue signs a new token pair and stores the refresh token hash.
func (s *AuthService) issue(ctx context.Context, r *repo.GormRepo, user *models.User, rotateFrom string) (*LoginResult, error) {
	now := time.Now()
	accessExp := now.Add(s.AccessTTL)
	refreshExp := now.Add(s.RefreshTTL)

	access, err := tokens.CreateAccessToken(s.JWTSecret, user.ID.String(), user.Role, accessExp)
	if err != nil {
		return nil, err
	}
	jti := tokens.NewJTI()
	refresh, err := tokens.CreateRefreshToken(s.RefreshSecret, user.ID.String(), jti, refreshExp)
	if err != nil {
		return nil, err
	}

	record := &models.RefreshToken{
		Token:     hash.Sha256Hex(refresh),
		UserID:    user.ID,
		JTI:       jti,
		ExpiresAt: refreshExp.Unix(),
	}
	if rotateFrom == "" {
		err = r.SaveRefreshToken(ctx, record)
	} else {
		err = r.RotateRefreshToken(ctx, rotateFrom, record)
	}
	if errors.Is(err, repo.ErrTokenRevoked) || repo.IsNotFound(err) {
		return nil, fmt.Errorf("%w: refresh token expired or revoked", ErrUnauthorized)
	}
	if err != nil {
		return nil, err
	}

	return &LoginResult{
		User:         user,
		AccessToken:  access,
		RefreshToken: refresh,
		AccessExp:    accessExp,
		RefreshExp:   refreshExp,
	}, nil
}

func (s *AuthService) createUser(ctx context.Context, name, email, password, role string) (*models.User, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrValidation)
	}
	email, err := normalizeEmail(email)
	if err != nil {
		return nil, err
	}
	if len(password) < minPasswordLen {
		return nil, fmt.Errorf("%w: password must be at least %d characters", ErrValidation, minPasswordLen)
	}

	pwHash, err := hash.HashPassword(password)
	if err != nil {
		return nil, err
	}
	user := &models.User{Name: name, Email: email, PasswordHash: pwHash, Role: role}
	if err := s.Repo.CreateUserIfNotExists(ctx, user); err != nil {
		if errors.Is(err, repo.ErrUserAlreadyExist) {
			return nil, fmt.Errorf("%w: user already exist", ErrConflict)
		}
		return nil, err
	}
	return user, nil
}

func (s *AuthService) Register(ctx context.Context, name, email, password string) (*LoginResult, error) {
	l := logging.FromContext(ctx).With("svc", "auth.register")

	user, err := s.createUser(ctx, name, email, password, models.RoleUser)
	if err != nil {
		return nil, err
	}
	l.Info("user_registered", "user_id", user.ID)
	return s.issue(ctx, s.Repo, user, "")
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	l := logging.FromContext(ctx).With("svc", "auth.login")

	user, err := s.Repo.GetUserByEmail(ctx, strings.TrimSpace(email))
	if repo.IsNotFound(err) {
		l.Warn("login_failed", "reason", "unknown email")
		return nil, fmt.Errorf("%w: invalid email or password", ErrUnauthorized)
	}
	if err != nil {
		return nil, err
	}
	if !hash.CheckPassword(user.PasswordHash, password) {
		l.Warn("login_failed", "reason", "wrong password", "user_id", user.ID)
		return nil, fmt.Errorf("%w: invalid email or password", ErrUnauthorized)
	}
	return s.issue(ctx, s.Repo, user, "")
}

// Refresh rotates the refresh token: the presented one is revoked and a new
// pair is issued.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*LoginResult, error) {
	claims, err := tokens.RefreshClaimsFromToken(refreshToken, s.RefreshSecret)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid refresh token", ErrUnauthorized)
	}
	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid refresh token", ErrUnauthorized)
	}
	user, err := s.Repo.GetUserByID(ctx, userID)
	if repo.IsNotFound(err) {
		return nil, fmt.Errorf("%w: user no longer exists", ErrUnauthorized)
	}
	if err != nil {
		return nil, err
	}
	return s.issue(ctx, s.Repo, user, claims.ID)
}

func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	return s.Repo.RevokeRefreshToken(ctx, hash.Sha256Hex(refreshToken))
}

func (s *AuthService) Me(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	u, err := s.Repo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, notFound(err, "user")
	}
	return u, nil
}

// UpdateDetails edits the caller's profile. Moving to an email held by
// another account is a conflict.
func (s *AuthService) UpdateDetails(ctx context.Context, userID uuid.UUID, req transport.UpdateDetailsRequest) (*models.User, error) {
	l := logging.FromContext(ctx).With("svc", "auth.update_details")

	user, err := s.Repo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, notFound(err, "user")
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: name is required", ErrValidation)
		}
		user.Name = name
	}
	if req.Email != nil {
		email, err := normalizeEmail(*req.Email)
		if err != nil {
			return nil, err
		}
		if email != user.Email {
			other, err := s.Repo.GetUserByEmail(ctx, email)
			if err == nil && other.ID != user.ID {
				return nil, fmt.Errorf("%w: email already in use", ErrConflict)
			}
			if err != nil && !repo.IsNotFound(err) {
				return nil, err
			}
		}
		user.Email = email
	}
	if req.Phone != nil {
		user.Phone = strings.TrimSpace(*req.Phone)
	}
	if req.Address != nil {
		user.Address = strings.TrimSpace(*req.Address)
	}

	if err := s.Repo.UpdateUserDetails(ctx, user); err != nil {
		return nil, notFound(err, "user")
	}
	l.Info("user_details_updated", "user_id", user.ID)
	return user, nil
}

// EnsureAdmin creates an admin account or promotes and resets an existing one.
func (s *AuthService) EnsureAdmin(ctx context.Context, name, email, password string) (*models.User, error) {
	user, err := s.createUser(ctx, name, email, password, models.RoleAdmin)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, ErrConflict) {
		return nil, err
	}

	existing, err := s.Repo.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	pwHash, err := hash.HashPassword(password)
	if err != nil {
		return nil, err
	}
	if err := s.Repo.SetUserPassword(ctx, existing.ID, pwHash); err != nil {
		return nil, err
	}
	if err := s.Repo.SetUserRole(ctx, existing.ID, models.RoleAdmin); err != nil {
		return nil, err
	}
	existing.Role = models.RoleAdmin
	return existing, nil
}
