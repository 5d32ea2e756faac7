package usecases

import (
	"context"
	"crypto/subtle"
	"strings"

	"github.com/orris-inc/subtrack/internal/application/user/dto"
	"github.com/orris-inc/subtrack/internal/domain/user"
	"github.com/orris-inc/subtrack/internal/shared/config"
	"github.com/orris-inc/subtrack/internal/shared/constants"
	"github.com/orris-inc/subtrack/internal/shared/logger"
)

type LoginCommand struct {
	Email    string
	Password string
}

// LoginUseCase checks the configured bootstrap admin first and stored users
// second, and issues an access token.
type LoginUseCase struct {
	userRepo user.Repository
	hasher   PasswordHasher
	tokens   TokenIssuer
	admin    config.AdminConfig
	logger   logger.Interface
}

func NewLoginUseCase(
	userRepo user.Repository,
	hasher PasswordHasher,
	tokens TokenIssuer,
	admin config.AdminConfig,
	logger logger.Interface,
) *LoginUseCase {
	return &LoginUseCase{
		userRepo: userRepo,
		hasher:   hasher,
		tokens:   tokens,
		admin:    admin,
		logger:   logger,
	}
}

func (uc *LoginUseCase) Execute(ctx context.Context, cmd LoginCommand) (*dto.TokenDTO, error) {
	email := strings.ToLower(strings.TrimSpace(cmd.Email))

	if uc.isBootstrapAdmin(email, cmd.Password) {
		token, exp, err := uc.tokens.Generate("", email, constants.RoleAdmin)
		if err != nil {
			return nil, err
		}
		uc.logger.Infow("bootstrap admin logged in", "email", email)
		return &dto.TokenDTO{Token: token, ExpiresAt: exp, User: dto.BootstrapAdmin(email)}, nil
	}

	u, err := uc.userRepo.GetByEmail(ctx, email)
	if err != nil {
		uc.logger.Errorw("failed to get user by email", "error", err)
		return nil, err
	}
	if u == nil {
		return nil, errInvalidCredentials
	}
	if err := uc.hasher.Verify(cmd.Password, u.PasswordHash()); err != nil {
		uc.logger.Warnw("login failed", "user_id", u.ID())
		return nil, errInvalidCredentials
	}

	token, exp, err := uc.tokens.Generate(u.SID(), u.Email(), u.Role())
	if err != nil {
		return nil, err
	}
	uc.logger.Infow("user logged in", "user_id", u.ID())
	return &dto.TokenDTO{Token: token, ExpiresAt: exp, User: dto.UserMapper.ToDTO(u)}, nil
}

func (uc *LoginUseCase) isBootstrapAdmin(email, password string) bool {
	if uc.admin.Email == "" || uc.admin.Password == "" {
		return false
	}
	if email != strings.ToLower(uc.admin.Email) {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(password), []byte(uc.admin.Password)) == 1
}
