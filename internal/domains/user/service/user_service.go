package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"bookstore-catalog/internal/domains/user"
	"bookstore-catalog/internal/shared/utils"
	"bookstore-catalog/internal/shared/validation"
	"bookstore-catalog/pkg/jwt"
	"bookstore-catalog/pkg/logger"
)

// bcryptCost is lowered in tests.
var bcryptCost = 12

// userService implements user.Service
type userService struct {
	repo user.Repository
	jwt  *jwt.Manager
	now  func() time.Time
}

func NewUserService(repo user.Repository, jwtManager *jwt.Manager) user.Service {
	return &userService{repo: repo, jwt: jwtManager, now: time.Now}
}

// Register creates a customer account and signs it in.
func (s *userService) Register(ctx context.Context, req user.RegisterRequest) (*user.LoginResponse, error) {
	req.Normalize()
	errs, err := req.Validate()
	if err != nil {
		return nil, err
	}

	if _, bad := errs["login_identifier"]; !bad {
		taken, err := s.identifierTaken(ctx, req.LoginIdentifier)
		if err != nil {
			return nil, err
		}
		if taken {
			errs.Add("login_identifier", "has already been taken")
		}
	}
	if len(errs) > 0 {
		return nil, errs
	}

	u, err := s.create(ctx, req.LoginIdentifier, req.Password, "", user.RoleCustomer)
	if err != nil {
		return nil, err
	}

	logger.Info("User registered", map[string]interface{}{"user_id": u.ID})
	return s.issueToken(u)
}

func (s *userService) identifierTaken(ctx context.Context, identifier string) (bool, error) {
	taken, err := s.repo.ExistsByLoginIdentifier(ctx, identifier)
	if err != nil || taken {
		return taken, err
	}
	if user.IsPhone(identifier) {
		return s.repo.ExistsByPhone(ctx, identifier, nil)
	}
	return s.repo.ExistsByEmail(ctx, identifier, nil)
}

func (s *userService) create(ctx context.Context, identifier, password, name string, role user.Role) (*user.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	u := &user.User{
		LoginIdentifier: identifier,
		PasswordHash:    string(hash),
		Name:            utils.NullString(name),
		Role:            role,
	}
	if user.IsPhone(identifier) {
		u.Phone = &identifier
	} else {
		u.Email = &identifier
	}

	if err := s.repo.Create(ctx, u); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return u, nil
}

// Login checks the password and issues an access token. Unknown identifiers
// and wrong passwords give the same error.
func (s *userService) Login(ctx context.Context, req user.LoginRequest) (*user.LoginResponse, error) {
	u, err := s.repo.FindByLoginIdentifier(ctx, user.NormalizeIdentifier(req.LoginIdentifier))
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return nil, user.ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)); err != nil {
		return nil, user.ErrInvalidCredentials
	}

	return s.issueToken(u)
}

func (s *userService) issueToken(u *user.User) (*user.LoginResponse, error) {
	token, expiresAt, err := s.jwt.GenerateAccessToken(u.ID, string(u.Role))
	if err != nil {
		return nil, fmt.Errorf("generate access token: %w", err)
	}
	return &user.LoginResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresAt:   expiresAt,
		User:        u.ToDTO(),
	}, nil
}

func (s *userService) GetProfile(ctx context.Context, userID int64) (*user.UserDTO, error) {
	u, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	dto := u.ToDTO()
	return &dto, nil
}

// UpdateProfile completes the profile. Email and phone must be unique
// across other accounts.
func (s *userService) UpdateProfile(ctx context.Context, userID int64, req user.UpdateProfileRequest) (*user.UserDTO, error) {
	u, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	req.Normalize()
	errs, err := req.Validate(s.now())
	if err != nil {
		return nil, err
	}

	if _, bad := errs["email"]; !bad && req.Email != "" {
		taken, err := s.repo.ExistsByEmail(ctx, req.Email, &userID)
		if err != nil {
			return nil, err
		}
		if taken {
			errs.Add("email", "has already been taken")
		}
	}
	if _, bad := errs["phone"]; !bad && req.Phone != "" {
		taken, err := s.repo.ExistsByPhone(ctx, req.Phone, &userID)
		if err != nil {
			return nil, err
		}
		if taken {
			errs.Add("phone", "has already been taken")
		}
	}
	if len(errs) > 0 {
		return nil, errs
	}

	req.Apply(u)
	if err := s.repo.UpdateProfile(ctx, u); err != nil {
		logger.ErrorWithFields("Profile update error", err, map[string]interface{}{"user_id": userID})
		return nil, err
	}

	dto := u.ToDTO()
	return &dto, nil
}

// CreateAdmin seeds a staff account. The identifier follows the same rules
// as registration.
func (s *userService) CreateAdmin(ctx context.Context, identifier, password, name string) (*user.User, error) {
	req := user.RegisterRequest{
		LoginIdentifier:      identifier,
		Password:             password,
		PasswordConfirmation: password,
	}
	req.Normalize()

	errs, err := req.Validate()
	if err != nil {
		return nil, err
	}
	if len(errs) > 0 {
		return nil, errs
	}

	taken, err := s.identifierTaken(ctx, req.LoginIdentifier)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, validation.Errors{"login_identifier": "has already been taken"}
	}

	return s.create(ctx, req.LoginIdentifier, req.Password, name, user.RoleAdmin)
}
