package services

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"alfredoptarigan/hiremind/internal/logger"
	"alfredoptarigan/hiremind/internal/models"
	"alfredoptarigan/hiremind/internal/repositories"
)

const (
	minUsernameLength = 3
	maxUsernameLength = 50
	minPasswordLength = 8
)

// AuthService handles registration, login and bearer tokens.
type AuthService interface {
	Register(req *models.RegisterRequest) (*models.User, error)
	Authenticate(email, password string) (*models.TokenResponse, error)
	CurrentUser(token string) (*models.User, error)
	IssueToken(userID uint) (string, error)
	ParseToken(token string) (uint, error)
}

type authService struct {
	userRepo  repositories.UserRepository
	secretKey []byte
	expiry    time.Duration
	now       func() time.Time
}

func NewAuthService(userRepo repositories.UserRepository, secretKey string, expiry time.Duration) AuthService {
	if expiry <= 0 {
		expiry = 30 * time.Minute
	}
	return &authService{
		userRepo:  userRepo,
		secretKey: []byte(secretKey),
		expiry:    expiry,
		now:       time.Now,
	}
}

func (s *authService) Register(req *models.RegisterRequest) (*models.User, error) {
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.Username = strings.TrimSpace(req.Username)

	if err := validateRegistration(req); err != nil {
		return nil, err
	}

	exists, err := s.userRepo.ExistsByEmailOrUsername(req.Email, req.Username)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, fmt.Errorf("email or username already registered: %w", models.ErrAlreadyExists)
	}

	hashed, err := HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Email:          req.Email,
		Username:       req.Username,
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		HashedPassword: hashed,
		IsActive:       true,
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, err
	}

	logger.Logger.WithField("user_id", user.ID).Info("👤 User registered")
	return user, nil
}

func validateRegistration(req *models.RegisterRequest) error {
	if req.Email == "" || !strings.Contains(req.Email, "@") {
		return fmt.Errorf("%w: a valid email is required", models.ErrInvalidInput)
	}
	if n := utf8.RuneCountInString(req.Username); n < minUsernameLength || n > maxUsernameLength {
		return fmt.Errorf("%w: username must be between %d and %d characters", models.ErrInvalidInput, minUsernameLength, maxUsernameLength)
	}
	if utf8.RuneCountInString(req.Password) < minPasswordLength {
		return fmt.Errorf("%w: password must be at least %d characters", models.ErrInvalidInput, minPasswordLength)
	}
	return nil
}

func (s *authService) Authenticate(email, password string) (*models.TokenResponse, error) {
	user, err := s.userRepo.FindByEmail(strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, fmt.Errorf("incorrect email or password: %w", models.ErrUnauthorized)
		}
		return nil, err
	}

	if !CheckPassword(user.HashedPassword, password) {
		return nil, fmt.Errorf("incorrect email or password: %w", models.ErrUnauthorized)
	}
	if !user.IsActive {
		return nil, models.ErrInactiveUser
	}

	token, err := s.IssueToken(user.ID)
	if err != nil {
		return nil, err
	}

	return &models.TokenResponse{AccessToken: token, TokenType: "bearer"}, nil
}

// CurrentUser resolves a bearer token to an active user.
func (s *authService) CurrentUser(token string) (*models.User, error) {
	userID, err := s.ParseToken(token)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrUnauthorized
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, models.ErrInactiveUser
	}
	return user, nil
}

// IssueToken signs an HS256 token whose subject is the user id.
func (s *authService) IssueToken(userID uint) (string, error) {
	now := s.now()
	claims := jwt.RegisteredClaims{
		Subject:   strconv.FormatUint(uint64(userID), 10),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.expiry)),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secretKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// ParseToken verifies the token and returns its subject.
func (s *authService) ParseToken(token string) (uint, error) {
	var claims jwt.RegisteredClaims
	_, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (interface{}, error) {
		return s.secretKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.now))
	if err != nil {
		return 0, fmt.Errorf("%w: %v", models.ErrUnauthorized, err)
	}

	userID, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil || userID == 0 {
		return 0, models.ErrUnauthorized
	}
	return uint(userID), nil
}

func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashed), nil
}

func CheckPassword(hashed, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(password)) == nil
}
