package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"testing"
	"time"

	"github.com/ferreteria/ordenes-api/internal/domain/entity"
	"github.com/ferreteria/ordenes-api/internal/domain/enum"
	"github.com/ferreteria/ordenes-api/internal/infrastructure/repository"
	"github.com/ferreteria/ordenes-api/pkg/apperror"
	"github.com/ferreteria/ordenes-api/pkg/logger"
	"github.com/ferreteria/ordenes-api/pkg/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type accounts struct {
	*ledger
	auth  *AuthService
	users *UserService
	jwt   *utils.JWTManager
}

func newAccounts(t *testing.T) *accounts {
	l := newLedger(t, testLedgerConfig())
	userRepo := repository.NewUserRepository(l.db)
	jwt := utils.NewJWTManager("test-secret", time.Hour)
	return &accounts{
		ledger: l,
		auth:   NewAuthService(userRepo, jwt, logger.Nop()),
		users:  NewUserService(userRepo),
		jwt:    jwt,
	}
}

func TestCreateUserAndLogin(t *testing.T) {
	ctx := context.Background()
	a := newAccounts(t)

	user, err := a.users.CreateUser(ctx, &CreateUserInput{
		Username:    " vendedor ",
		Password:    "secreto1",
		DisplayName: "Pedro",
	})
	require.NoError(t, err)
	assert.Equal(t, "vendedor", user.Username)
	assert.Equal(t, enum.RoleUser, user.Role)

	out, err := a.auth.Login(ctx, &LoginInput{Username: "vendedor", Password: "secreto1"})
	require.NoError(t, err)

	claims, err := a.jwt.ValidateAccessToken(out.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, "user", claims.Role)

	_, err = a.auth.Login(ctx, &LoginInput{Username: "vendedor", Password: "wrong"})
	assert.Equal(t, apperror.ErrInvalidCredentials, err)
	_, err = a.auth.Login(ctx, &LoginInput{Username: "nobody", Password: "secreto1"})
	assert.Equal(t, apperror.ErrInvalidCredentials, err)
}

func TestCreateUserRejectsDuplicatesAndBadInput(t *testing.T) {
	ctx := context.Background()
	a := newAccounts(t)

	_, err := a.users.CreateUser(ctx, &CreateUserInput{Username: "jefe", Password: "secreto1", Role: "admin"})
	require.NoError(t, err)

	_, err = a.users.CreateUser(ctx, &CreateUserInput{Username: "jefe", Password: "secreto2"})
	require.Error(t, err)
	assert.True(t, apperror.IsKind(err, apperror.KindConflict))

	_, err = a.users.CreateUser(ctx, &CreateUserInput{Username: "", Password: "123", Role: "root"})
	require.Error(t, err)
	assert.True(t, apperror.IsValidation(err))
	assert.ElementsMatch(t, []string{"username", "password", "role"}, fieldNames(apperror.GetAppError(err).Errors))
}

func TestLegacyLoginUpgradesHash(t *testing.T) {
	ctx := context.Background()
	a := newAccounts(t)

	salt := "a1b2c3"
	sum := sha256.Sum256([]byte(salt + "admin123"))
	legacy := &entity.User{
		Username:     "antiguo",
		PasswordHash: hex.EncodeToString(sum[:]),
		Salt:         &salt,
		Role:         enum.RoleAdmin,
	}
	require.NoError(t, a.db.Create(legacy).Error)

	out, err := a.auth.Login(ctx, &LoginInput{Username: "antiguo", Password: "admin123"})
	require.NoError(t, err)
	assert.NotEmpty(t, out.AccessToken)

	upgraded, err := a.auth.GetCurrentUser(ctx, legacy.ID)
	require.NoError(t, err)
	assert.Nil(t, upgraded.Salt)
	assert.True(t, utils.CheckPasswordHash("admin123", upgraded.PasswordHash))

	// the upgraded account keeps working
	_, err = a.auth.Login(ctx, &LoginInput{Username: "antiguo", Password: "admin123"})
	assert.NoError(t, err)
}

func TestChangePassword(t *testing.T) {
	ctx := context.Background()
	a := newAccounts(t)

	user, err := a.users.CreateUser(ctx, &CreateUserInput{Username: "caja", Password: "secreto1"})
	require.NoError(t, err)

	err = a.auth.ChangePassword(ctx, &ChangePasswordInput{UserID: user.ID, CurrentPassword: "nope", NewPassword: "nuevo123"})
	assert.Equal(t, 400, apperror.GetAppError(err).Code)

	err = a.auth.ChangePassword(ctx, &ChangePasswordInput{UserID: user.ID, CurrentPassword: "secreto1", NewPassword: "123"})
	assert.True(t, apperror.IsValidation(err))

	err = a.auth.ChangePassword(ctx, &ChangePasswordInput{UserID: user.ID, CurrentPassword: "secreto1", NewPassword: "nuevo123"})
	require.NoError(t, err)

	_, err = a.auth.Login(ctx, &LoginInput{Username: "caja", Password: "nuevo123"})
	assert.NoError(t, err)

	_, err = a.auth.GetCurrentUser(ctx, 999)
	assert.True(t, apperror.IsNotFound(err))
}
