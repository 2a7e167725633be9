package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	types "github.com/yungbote/promptdesk-backend/internal/domain"
	"github.com/yungbote/promptdesk-backend/internal/pkg/dbctx"
	pkgerrors "github.com/yungbote/promptdesk-backend/internal/pkg/errors"
	"github.com/yungbote/promptdesk-backend/internal/platform/ctxutil"
)

func TestAuthRegisterLoginRefreshLogout(t *testing.T) {
	f := newFixture(t)
	svc := f.authService()
	dbc := dbctx.From(context.Background())

	err := svc.RegisterUser(dbc, &types.User{Email: " Ada@Example.com ", Password: "correct-horse", FirstName: "Ada", LastName: "L"})
	require.NoError(t, err)

	err = svc.RegisterUser(dbc, &types.User{Email: "ada@example.com", Password: "correct-horse"})
	assert.True(t, errors.Is(err, pkgerrors.ErrConflict), "duplicate email: %v", err)

	_, _, err = svc.LoginUser(dbc, "ada@example.com", "wrong-password")
	assert.True(t, errors.Is(err, pkgerrors.ErrUnauthorized), "bad password: %v", err)

	access, refresh, err := svc.LoginUser(dbc, "ADA@example.com", "correct-horse")
	require.NoError(t, err)
	require.NotEmpty(t, access)
	require.NotEmpty(t, refresh)

	ctx, err := svc.SetContextFromToken(context.Background(), access)
	require.NoError(t, err)
	rd := ctxutil.GetRequestData(ctx)
	require.NotNil(t, rd)
	assert.Equal(t, access, rd.TokenString)

	access2, refresh2, err := svc.RefreshUser(dbc, refresh)
	require.NoError(t, err)
	assert.NotEqual(t, access, access2)
	assert.NotEqual(t, refresh, refresh2)

	_, _, err = svc.RefreshUser(dbc, refresh)
	assert.True(t, errors.Is(err, pkgerrors.ErrUnauthorized), "reused refresh token: %v", err)

	ctx2, err := svc.SetContextFromToken(context.Background(), access2)
	require.NoError(t, err)
	require.NoError(t, svc.LogoutUser(dbctx.From(ctx2)))

	_, err = svc.SetContextFromToken(context.Background(), access2)
	assert.True(t, errors.Is(err, pkgerrors.ErrUnauthorized), "revoked token: %v", err)
}

func TestAuthRegisterValidation(t *testing.T) {
	f := newFixture(t)
	svc := f.authService()
	dbc := dbctx.From(context.Background())

	err := svc.RegisterUser(dbc, &types.User{Email: "not-an-email", Password: "long-enough"})
	assert.True(t, errors.Is(err, pkgerrors.ErrInvalidArgument), "bad email: %v", err)

	err = svc.RegisterUser(dbc, &types.User{Email: "short@example.com", Password: "short"})
	assert.True(t, errors.Is(err, pkgerrors.ErrInvalidArgument), "short password: %v", err)
}

func TestSetContextFromTokenRejectsGarbage(t *testing.T) {
	f := newFixture(t)
	svc := f.authService()

	_, err := svc.SetContextFromToken(context.Background(), "")
	assert.True(t, errors.Is(err, pkgerrors.ErrUnauthorized))

	_, err = svc.SetContextFromToken(context.Background(), "not.a.jwt")
	assert.True(t, errors.Is(err, pkgerrors.ErrUnauthorized))

	other := NewAuthService(f.db, f.log, f.users, f.tokens, "other-secret", time.Minute, time.Hour)
	require.NoError(t, other.RegisterUser(dbctx.From(context.Background()), &types.User{Email: "x@example.com", Password: "long-enough"}))
	access, _, err := other.LoginUser(dbctx.From(context.Background()), "x@example.com", "long-enough")
	require.NoError(t, err)
	_, err = svc.SetContextFromToken(context.Background(), access)
	assert.True(t, errors.Is(err, pkgerrors.ErrUnauthorized), "foreign signature: %v", err)
}
