package usecases

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orris-inc/subtrack/internal/application/testutil"
	"github.com/orris-inc/subtrack/internal/infrastructure/auth"
	"github.com/orris-inc/subtrack/internal/shared/config"
	"github.com/orris-inc/subtrack/internal/shared/errors"
	"github.com/orris-inc/subtrack/internal/shared/logger"
)

type fixture struct {
	users    *testutil.MockUserRepository
	jwt      *auth.JWTService
	register *RegisterUseCase
	login    *LoginUseCase
	me       *GetCurrentUserUseCase
}

func newFixture() *fixture {
	users := testutil.NewMockUserRepository()
	hasher := auth.NewBcryptPasswordHasher(4)
	jwt := auth.NewJWTService("test-secret", time.Hour)
	admin := config.AdminConfig{Email: "admin@subtrack.test", Password: "admin123"}
	log := logger.NewNopLogger()
	return &fixture{
		users:    users,
		jwt:      jwt,
		register: NewRegisterUseCase(users, hasher, log),
		login:    NewLoginUseCase(users, hasher, jwt, admin, log),
		me:       NewGetCurrentUserUseCase(users, log),
	}
}

func validRegistration() RegisterCommand {
	return RegisterCommand{
		FullName:        "Jordan Lee",
		Email:           "Jordan@Example.test",
		Phone:           "9876543210",
		Password:        "secret1",
		ConfirmPassword: "secret1",
	}
}

func TestRegisterAndLogin(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	u, err := f.register.Execute(ctx, validRegistration())
	require.NoError(t, err)
	assert.Equal(t, "jordan@example.test", u.Email)
	assert.False(t, u.IsAdmin)

	out, err := f.login.Execute(ctx, LoginCommand{Email: "JORDAN@example.test", Password: "secret1"})
	require.NoError(t, err)
	require.NotEmpty(t, out.Token)

	claims, err := f.jwt.Verify(out.Token)
	require.NoError(t, err)
	assert.Equal(t, u.ID, claims.UserSID)
	assert.Equal(t, "user", claims.Role)

	me, err := f.me.Execute(ctx, CurrentUserQuery{UserSID: claims.UserSID, Email: claims.Email, Role: claims.Role})
	require.NoError(t, err)
	assert.Equal(t, "Jordan Lee", me.FullName)
	assert.Equal(t, "9876543210", me.Phone)
	assert.NotNil(t, me.CreatedAt)
}

func TestRegisterValidation(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	mismatch := validRegistration()
	mismatch.ConfirmPassword = "other1"
	_, err := f.register.Execute(ctx, mismatch)
	assert.True(t, errors.IsValidationError(err))

	weak := validRegistration()
	weak.Password, weak.ConfirmPassword = "secret", "secret"
	_, err = f.register.Execute(ctx, weak)
	assert.True(t, errors.IsValidationError(err))

	badPhone := validRegistration()
	badPhone.Phone = "12345"
	_, err = f.register.Execute(ctx, badPhone)
	assert.True(t, errors.IsValidationError(err))

	_, err = f.register.Execute(ctx, validRegistration())
	require.NoError(t, err)
	_, err = f.register.Execute(ctx, validRegistration())
	require.Error(t, err)
	assert.True(t, errors.IsConflictError(err))
	assert.Equal(t, 400, errors.GetAppError(err).Code)
	assert.Equal(t, "User already exists", errors.GetAppError(err).Message)
}

func TestLoginFailures(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	_, err := f.register.Execute(ctx, validRegistration())
	require.NoError(t, err)

	for _, cmd := range []LoginCommand{
		{Email: "jordan@example.test", Password: "wrong1"},
		{Email: "nobody@example.test", Password: "secret1"},
		{Email: "admin@subtrack.test", Password: "nope"},
	} {
		_, err := f.login.Execute(ctx, cmd)
		require.Error(t, err)
		assert.Equal(t, 401, errors.GetAppError(err).Code)
		assert.Equal(t, "Invalid credentials", errors.GetAppError(err).Message)
	}
}

func TestBootstrapAdminLogin(t *testing.T) {
	f := newFixture()

	out, err := f.login.Execute(context.Background(), LoginCommand{Email: "Admin@subtrack.test", Password: "admin123"})
	require.NoError(t, err)
	assert.True(t, out.User.IsAdmin)

	claims, err := f.jwt.Verify(out.Token)
	require.NoError(t, err)
	assert.Empty(t, claims.UserSID)
	assert.Equal(t, "admin", claims.Role)

	me, err := f.me.Execute(context.Background(), CurrentUserQuery{Email: claims.Email, Role: claims.Role})
	require.NoError(t, err)
	assert.True(t, me.IsAdmin)
	assert.Equal(t, "admin@subtrack.test", me.Email)
}

func TestGetCurrentUserNotFound(t *testing.T) {
	f := newFixture()
	_, err := f.me.Execute(context.Background(), CurrentUserQuery{UserSID: "usr_missing", Role: "user"})
	require.Error(t, err)
	assert.True(t, errors.IsNotFoundError(err))
}
