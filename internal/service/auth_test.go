package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forkfeed/backend/internal/errs"
	"github.com/forkfeed/backend/internal/logging"
	"github.com/forkfeed/backend/internal/service"
	"github.com/forkfeed/backend/internal/testhelpers"
	"github.com/forkfeed/backend/internal/types"
)

func registerReq(name string) types.RegisterRequest {
	return types.RegisterRequest{
		Email:     name + "@example.com",
		Username:  name,
		FirstName: name,
		LastName:  "Tester",
		Password:  "supersecret",
	}
}

func TestRegisterAndLogin(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	auth := service.NewAuthService(db, logging.Nop(), "test-secret")
	ctx := context.Background()

	token, err := auth.Register(ctx, registerReq("alice"))
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := auth.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "alice", claims.Username)

	user, err := auth.GetUser(ctx, claims.UserID)
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", user.Email)

	token, err = auth.Login(ctx, "alice@example.com", "supersecret")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
}

func TestRegisterDuplicate(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	auth := service.NewAuthService(db, logging.Nop(), "test-secret")
	ctx := context.Background()

	_, err := auth.Register(ctx, registerReq("alice"))
	require.NoError(t, err)

	_, err = auth.Register(ctx, registerReq("alice"))
	assert.True(t, errs.IsConflict(err))
}

func TestLoginBadCredentials(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	auth := service.NewAuthService(db, logging.Nop(), "test-secret")
	ctx := context.Background()

	_, err := auth.Register(ctx, registerReq("alice"))
	require.NoError(t, err)

	_, err = auth.Login(ctx, "alice@example.com", "wrong")
	assert.True(t, errs.IsUnauthorized(err))

	_, err = auth.Login(ctx, "nobody@example.com", "supersecret")
	assert.True(t, errs.IsUnauthorized(err))
}

func TestValidateTokenRejectsForeignSignature(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	ctx := context.Background()

	issuer := service.NewAuthService(db, logging.Nop(), "issuer-secret")
	verifier := service.NewAuthService(db, logging.Nop(), "other-secret")

	token, err := issuer.Register(ctx, registerReq("alice"))
	require.NoError(t, err)

	_, err = verifier.ValidateToken(token)
	assert.True(t, errs.IsUnauthorized(err))

	_, err = verifier.ValidateToken("not-a-token")
	assert.True(t, errs.IsUnauthorized(err))
}
