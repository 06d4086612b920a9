package service

import (
	"context"
	"testing"
	"time"

	"github.com/Skotchmaster/clothing_shop/internal/models"
	"github.com/Skotchmaster/clothing_shop/internal/repo"
	"github.com/Skotchmaster/clothing_shop/internal/testutil"
	"github.com/Skotchmaster/clothing_shop/internal/tokens"
	"github.com/Skotchmaster/clothing_shop/internal/transport"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuth(t *testing.T) *AuthService {
	t.Helper()
	return &AuthService{
		Repo:          &repo.GormRepo{DB: testutil.NewDB(t)},
		JWTSecret:     []byte("access"),
		RefreshSecret: []byte("refresh"),
		AccessTTL:     15 * time.Minute,
		RefreshTTL:    time.Hour,
	}
}

func TestRegisterAndLogin(t *testing.T) {
	ctx := context.Background()
	s := newAuth(t)

	res, err := s.Register(ctx, "Ann", "Ann@Example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, models.RoleUser, res.User.Role)
	assert.Equal(t, "ann@example.com", res.User.Email)

	claims, err := tokens.AccessClaimsFromToken(res.AccessToken, s.JWTSecret)
	require.NoError(t, err)
	assert.Equal(t, res.User.ID.String(), claims.Subject)
	assert.Equal(t, models.RoleUser, claims.Role)

	_, err = s.Register(ctx, "Ann", "ann@example.com", "secret1")
	require.ErrorIs(t, err, ErrConflict)

	_, err = s.Login(ctx, "ann@example.com", "wrong")
	require.ErrorIs(t, err, ErrUnauthorized)
	_, err = s.Login(ctx, "nobody@example.com", "secret1")
	require.ErrorIs(t, err, ErrUnauthorized)

	res, err = s.Login(ctx, "ANN@example.com", "secret1")
	require.NoError(t, err)
	assert.NotEmpty(t, res.RefreshToken)

	me, err := s.Me(ctx, res.User.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ann", me.Name)
	_, err = s.Me(ctx, uuid.New())
	require.ErrorIs(t, err, ErrNotFound)
}

func TestRegister_Validation(t *testing.T) {
	s := newAuth(t)
	for _, in := range [][3]string{
		{"", "a@b.co", "secret1"},
		{"A", "not-an-email", "secret1"},
		{"A", "a@b.co", "123"},
	} {
		_, err := s.Register(context.Background(), in[0], in[1], in[2])
		assert.ErrorIs(t, err, ErrValidation)
	}
}

func TestRefreshRotationAndLogout(t *testing.T) {
	ctx := context.Background()
	s := newAuth(t)
	first, err := s.Register(ctx, "Bob", "bob@example.com", "secret1")
	require.NoError(t, err)

	second, err := s.Refresh(ctx, first.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, first.RefreshToken, second.RefreshToken)

	_, err = s.Refresh(ctx, first.RefreshToken)
	require.ErrorIs(t, err, ErrUnauthorized, "a rotated token cannot be reused")

	require.NoError(t, s.Logout(ctx, second.RefreshToken))
	_, err = s.Refresh(ctx, second.RefreshToken)
	require.ErrorIs(t, err, ErrUnauthorized)

	_, err = s.Refresh(ctx, "garbage")
	require.ErrorIs(t, err, ErrUnauthorized)
	require.NoError(t, s.Logout(ctx, ""))
}

func TestEnsureAdmin(t *testing.T) {
	ctx := context.Background()
	s := newAuth(t)

	_, err := s.Register(ctx, "Cat", "cat@example.com", "secret1")
	require.NoError(t, err)

	admin, err := s.EnsureAdmin(ctx, "Cat", "cat@example.com", "newpass1")
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, admin.Role)

	res, err := s.Login(ctx, "cat@example.com", "newpass1")
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, res.User.Role)

	fresh, err := s.EnsureAdmin(ctx, "Root", "root@example.com", "rootpass")
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, fresh.Role)
}

func TestUpdateDetails(t *testing.T) {
	ctx := context.Background()
	s := newAuth(t)
	str := func(v string) *string { return &v }

	ann, err := s.Register(ctx, "Ann", "ann@example.com", "secret1")
	require.NoError(t, err)
	_, err = s.Register(ctx, "Bob", "bob@example.com", "secret1")
	require.NoError(t, err)

	got, err := s.UpdateDetails(ctx, ann.User.ID, transport.UpdateDetailsRequest{
		Name: str(" Ann Lee "), Phone: str("+91 98765 43210"), Address: str("12 MG Road, Pune"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Ann Lee", got.Name)
	assert.Equal(t, "ann@example.com", got.Email)
	assert.Equal(t, "+91 98765 43210", got.Phone)

	got, err = s.UpdateDetails(ctx, ann.User.ID, transport.UpdateDetailsRequest{Email: str("Ann.Lee@Example.com")})
	require.NoError(t, err)
	assert.Equal(t, "ann.lee@example.com", got.Email)
	assert.Equal(t, "12 MG Road, Pune", got.Address, "absent fields are kept")

	_, err = s.Login(ctx, "ann.lee@example.com", "secret1")
	require.NoError(t, err)

	_, err = s.UpdateDetails(ctx, ann.User.ID, transport.UpdateDetailsRequest{Email: str("BOB@example.com")})
	require.ErrorIs(t, err, ErrConflict)
	_, err = s.UpdateDetails(ctx, ann.User.ID, transport.UpdateDetailsRequest{Email: str("nope")})
	require.ErrorIs(t, err, ErrValidation)
	_, err = s.UpdateDetails(ctx, ann.User.ID, transport.UpdateDetailsRequest{Name: str("  ")})
	require.ErrorIs(t, err, ErrValidation)
	_, err = s.UpdateDetails(ctx, uuid.New(), transport.UpdateDetailsRequest{Name: str("Ghost")})
	require.ErrorIs(t, err, ErrNotFound)

	me, err := s.Me(ctx, ann.User.ID)
	require.NoError(t, err)
	assert.Equal(t, "ann.lee@example.com", me.Email)
}
