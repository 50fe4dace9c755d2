package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/sebahatselcuk/campus-tracker/internal/config"
	"github.com/sebahatselcuk/campus-tracker/internal/mailer"
	"github.com/sebahatselcuk/campus-tracker/internal/models"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

// MinPasswordLen - минимальная длина пароля при регистрации
const MinPasswordLen = 6

// Claims - полезная нагрузка JWT сессии
type Claims struct {
	UserID string      `json:"uid"`
	Email  string      `json:"email"`
	Role   models.Role `json:"role"`
	jwt.RegisteredClaims
}

// AuthService определяет контракт сессий: регистрация, вход, сброс пароля
type AuthService interface {
	Register(ctx context.Context, name, email, password, department string) (*models.User, string, error)
	Login(ctx context.Context, email, password string) (*models.User, string, error)
	RequestPasswordReset(ctx context.Context, email string) error
	ParseToken(token string) (*Claims, error)
	GetUser(ctx context.Context, id string) (*models.User, error)
}

type authService struct {
	users  UserRepository
	logger *logrus.Logger
	cfg    *config.Config
	mail   mailer.Publisher
}

func NewAuthService(users UserRepository, logger *logrus.Logger, cfg *config.Config, mail mailer.Publisher) AuthService {
	return &authService{
		users:  users,
		logger: logger,
		cfg:    cfg,
		mail:   mail,
	}
}

// Register создает пользователя. Валидация выполняется до любого обращения
// к хранилищу. Роль назначается по e-mail: "admin" в локальной части адреса
// делает пользователя администратором.
func (s *authService) Register(ctx context.Context, name, email, password, department string) (*models.User, string, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service": "auth",
		"method":  "Register",
		"email":   email,
	})

	if email == "" || password == "" {
		return nil, "", ErrMissingCredentials
	}
	if len(password) < MinPasswordLen {
		return nil, "", ErrPasswordTooShort
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.WithError(err).Error("Failed to hash password")
		return nil, "", fmt.Errorf("service: could not hash password: %w", err)
	}

	user := &models.User{
		Name:              name,
		Email:             email,
		Role:              models.RoleForEmail(email),
		Department:        department,
		FollowedIncidents: []string{},
	}
	if err := s.users.Create(ctx, user, string(hash)); err != nil {
		if errors.Is(err, ErrEmailTaken) {
			log.Warn("Registration refused: email already registered")
			return nil, "", ErrEmailTaken
		}
		log.WithError(err).Error("Failed to create user in repository")
		return nil, "", fmt.Errorf("service: could not create user: %w", err)
	}

	token, err := s.issueToken(user)
	if err != nil {
		log.WithError(err).Error("Failed to issue token")
		return nil, "", fmt.Errorf("service: could not issue token: %w", err)
	}

	log.WithFields(logrus.Fields{"user_id": user.ID, "role": user.Role}).Info("User registered successfully")
	return user, token, nil
}

// Login проверяет пару e-mail/пароль и выдает токен сессии
func (s *authService) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service": "auth",
		"method":  "Login",
		"email":   email,
	})

	if email == "" || password == "" {
		return nil, "", ErrMissingCredentials
	}

	user, hash, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			log.Warn("Login refused: unknown email")
			return nil, "", ErrInvalidCredentials
		}
		log.WithError(err).Error("Failed to get user from repository")
		return nil, "", fmt.Errorf("service: could not get user: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		log.Warn("Login refused: wrong password")
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.issueToken(user)
	if err != nil {
		log.WithError(err).Error("Failed to issue token")
		return nil, "", fmt.Errorf("service: could not issue token: %w", err)
	}

	log.WithField("user_id", user.ID).Info("User logged in successfully")
	return user, token, nil
}

// RequestPasswordReset кладет одноразовый токен в Redis и ставит письмо в
// очередь доставки. Ответ всегда успешный, чтобы не раскрывать наличие адреса.
func (s *authService) RequestPasswordReset(ctx context.Context, email string) error {
	log := s.logger.WithFields(logrus.Fields{
		"service": "auth",
		"method":  "RequestPasswordReset",
		"email":   email,
	})

	if email == "" {
		return ErrMissingCredentials
	}

	if _, _, err := s.users.GetByEmail(ctx, email); err != nil {
		if errors.Is(err, ErrUserNotFound) {
			log.Info("Password reset requested for unknown email, ignoring")
			return nil
		}
		log.WithError(err).Error("Failed to get user from repository")
		return fmt.Errorf("service: could not get user: %w", err)
	}

	token := uuid.NewString()
	if err := s.users.SaveResetToken(ctx, email, token, s.cfg.ResetTokenTTL); err != nil {
		log.WithError(err).Error("Failed to save reset token")
		return fmt.Errorf("service: could not save reset token: %w", err)
	}

	event := mailer.ResetEmailEvent{
		Email:     email,
		Token:     token,
		Timestamp: time.Now(),
	}
	if err := s.mail.Publish(ctx, event); err != nil {
		log.WithError(err).Error("Failed to queue reset email")
		return fmt.Errorf("service: could not queue reset email: %w", err)
	}

	log.Info("Password reset queued successfully")
	return nil
}

// ParseToken проверяет подпись и срок действия токена сессии
func (s *authService) ParseToken(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		return []byte(s.cfg.JWTSecret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, fmt.Errorf("service: could not parse token: %w", err)
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("service: invalid token")
	}
	return claims, nil
}

// GetUser возвращает пользователя по ID (текущая личность по claims)
func (s *authService) GetUser(ctx context.Context, id string) (*models.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("service: could not get user: %w", err)
	}
	return user, nil
}

func (s *authService) issueToken(user *models.User) (string, error) {
	now := time.Now().UTC()
	claims := Claims{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.TokenTTL)),
		},
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return tok.SignedString([]byte(s.cfg.JWTSecret))
}
