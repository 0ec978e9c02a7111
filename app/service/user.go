package service

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/mkarani499/video-platform-2/app/entity"
	"github.com/mkarani499/video-platform-2/app/factory"
	"github.com/mkarani499/video-platform-2/app/repository"
	"github.com/mkarani499/video-platform-2/app/types"
)

type userRepository interface {
	Create(ctx context.Context, user *entity.User) error
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
}

type UserService struct {
	userRepo userRepository
	logger   logrus.FieldLogger
}

func NewUserService(userRepo userRepository) *UserService {
	return &UserService{
		userRepo: userRepo,
		logger:   factory.NewModuleLogger("user-service"),
	}
}

func (s *UserService) Register(ctx context.Context, req *types.RegisterUserRequest) (*entity.User, error) {
	existing, err := s.userRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrUserExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &entity.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: string(hash),
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrUserAlreadyExists) {
			return nil, ErrUserExists
		}
		return nil, err
	}

	return user, nil
}
