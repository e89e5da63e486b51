package services

import (
	"strings"

	"github.com/rdavila/packstore/internal/dto"
	"github.com/rdavila/packstore/internal/models"
	"github.com/rdavila/packstore/internal/repositories"
	"github.com/rdavila/packstore/internal/security"
	"github.com/rdavila/packstore/pkg/errors"
	"golang.org/x/crypto/bcrypt"
)

// UserService provisions accounts. Sessions and login are handled
// elsewhere; this only creates the user row with the starting balance.
type UserService struct {
	userRepo     *repositories.UserRepository
	defaultCoins int64
}

func NewUserService(userRepo *repositories.UserRepository, defaultCoins int64) *UserService {
	return &UserService{
		userRepo:     userRepo,
		defaultCoins: defaultCoins,
	}
}

func (s *UserService) Register(username, email, password string) (*dto.UserDTO, error) {
	username = security.SanitizeHTML(security.SanitizeString(username))
	email = strings.ToLower(security.SanitizeString(email))

	if username == "" || email == "" {
		return nil, errors.New(errors.ErrCodeValidationFailed, "username and email are required")
	}
	if len(password) < 8 {
		return nil, errors.New(errors.ErrCodeValidationFailed, "password must be at least 8 characters")
	}

	if _, err := s.userRepo.GetUserByUsername(username); err == nil {
		return nil, errors.New(errors.ErrCodeAlreadyExists, "username already taken")
	} else if errors.Code(err) != errors.ErrCodeNotFound {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternalError, "failed to hash password")
	}

	user := &models.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		Coins:        s.defaultCoins,
	}
	if err := s.userRepo.CreateUser(user); err != nil {
		return nil, err
	}

	profile := dto.FromUser(user)
	return &profile, nil
}
