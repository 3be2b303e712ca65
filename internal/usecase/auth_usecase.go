package usecase

import (
	"context"

	"telemedicine-core/internal/converter"
	"telemedicine-core/internal/delivery/dto"
	"telemedicine-core/internal/delivery/http/middleware"
	"telemedicine-core/internal/domain/repository"
	"telemedicine-core/pkg/jwt"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// AuthUsecase covers the caller's session on this service. Registration and
// token issuance live in the identity service; it writes the access token
// keys this service checks and revokes.
type AuthUsecase interface {
	GetCurrentUser(ctx context.Context) (*dto.CurrentUserResponse, error)
	Logout(ctx context.Context) error
}

type authUsecase struct {
	db          *gorm.DB
	log         *logrus.Logger
	userRepo    repository.UserRepository
	redisClient *redis.Client
}

func NewAuthUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	userRepo repository.UserRepository,
	redisClient *redis.Client,
) AuthUsecase {
	return &authUsecase{
		db:          db,
		log:         log,
		userRepo:    userRepo,
		redisClient: redisClient,
	}
}

func (u *authUsecase) GetCurrentUser(ctx context.Context) (*dto.CurrentUserResponse, error) {
	userID, err := actorFromContext(ctx)
	if err != nil {
		return nil, err
	}

	user, err := u.userRepo.FindByID(u.db.WithContext(ctx), userID)
	if err != nil {
		u.log.Warnf("Failed to find user %s: %+v", userID, err)
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	return converter.UserToCurrentUserResponse(user), nil
}

// Logout revokes the access token the request was made with
func (u *authUsecase) Logout(ctx context.Context) error {
	userID, err := actorFromContext(ctx)
	if err != nil {
		return err
	}

	tokenID, ok := middleware.GetTokenIDFromContext(ctx)
	if !ok {
		return ErrUserNotInContext
	}

	if err := u.redisClient.Del(ctx, jwt.AccessTokenKey(userID, tokenID)).Err(); err != nil {
		u.log.Warnf("Failed to revoke token %s: %+v", tokenID, err)
		return err
	}

	u.log.Infof("User %s logged out", userID)
	return nil
}
