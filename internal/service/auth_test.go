package service

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/sebahatselcuk/campus-tracker/internal/config"
	"github.com/sebahatselcuk/campus-tracker/internal/mailer"
	mailer_mocks "github.com/sebahatselcuk/campus-tracker/internal/mailer/mocks"
	"github.com/sebahatselcuk/campus-tracker/internal/models"
	"github.com/sebahatselcuk/campus-tracker/internal/service/mocks"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"golang.org/x/crypto/bcrypt"
)

// newTestAuthService — вспомогательная функция для создания инстанса сервиса с моками.
func newTestAuthService(t *testing.T) (*authService, *mocks.MockUserRepository, *mailer_mocks.MockPublisher) {
	ctrl := gomock.NewController(t)
	usersMock := mocks.NewMockUserRepository(ctrl)
	mailMock := mailer_mocks.NewMockPublisher(ctrl)

	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{}) // Отключаем вывод логов в тестах

	cfg := &config.Config{
		JWTSecret:     "test-secret",
		TokenTTL:      time.Hour,
		ResetTokenTTL: 30 * time.Minute,
	}

	service := NewAuthService(usersMock, logger, cfg, mailMock)
	return service.(*authService), usersMock, mailMock
}

func TestRegister_Success(t *testing.T) {
	// Подготовка
	service, usersMock, _ := newTestAuthService(t)
	ctx := context.Background()

	// Ожидания
	usersMock.EXPECT().
		Create(ctx, gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, user *models.User, passwordHash string) error {
			user.ID = "new-user"
			// В хранилище уходит bcrypt-хеш, не сам пароль
			assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(passwordHash), []byte("secret1")))
			return nil
		}).Times(1)

	// Действие
	user, token, err := service.Register(ctx, "Ayşe", "ayse@campus.edu", "secret1", "CS")

	// Проверки
	require.NoError(t, err)
	assert.Equal(t, "new-user", user.ID)
	assert.Equal(t, models.RoleRegular, user.Role)
	assert.NotEmpty(t, token)
}

func TestRegister_AdminEmailGetsAdminRole(t *testing.T) {
	// Подготовка
	service, usersMock, _ := newTestAuthService(t)
	ctx := context.Background()

	// Ожидания
	usersMock.EXPECT().
		Create(ctx, gomock.Any(), gomock.Any()).
		Do(func(ctx context.Context, user *models.User, passwordHash string) {
			assert.Equal(t, models.RoleAdministrator, user.Role)
		}).Return(nil).Times(1)

	// Действие
	user, _, err := service.Register(ctx, "Admin", "Admin@campus.edu", "secret1", "")

	// Проверки
	require.NoError(t, err)
	assert.True(t, user.IsAdmin())
}

func TestRegister_ShortPassword(t *testing.T) {
	// Подготовка
	service, usersMock, _ := newTestAuthService(t)
	ctx := context.Background()

	// Ожидания: до хранилища дело не доходит
	usersMock.EXPECT().Create(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	// Действие
	user, token, err := service.Register(ctx, "Ayşe", "ayse@campus.edu", "abc", "")

	// Проверки
	assert.ErrorIs(t, err, ErrPasswordTooShort)
	assert.Nil(t, user)
	assert.Empty(t, token)
}

func TestRegister_MissingCredentials(t *testing.T) {
	// Подготовка
	service, usersMock, _ := newTestAuthService(t)
	ctx := context.Background()

	// Ожидания
	usersMock.EXPECT().Create(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	// Действие
	_, _, err := service.Register(ctx, "Ayşe", "", "secret1", "")

	// Проверки
	assert.ErrorIs(t, err, ErrMissingCredentials)
}

func TestRegister_EmailTaken(t *testing.T) {
	// Подготовка
	service, usersMock, _ := newTestAuthService(t)
	ctx := context.Background()

	// Ожидания
	usersMock.EXPECT().Create(ctx, gomock.Any(), gomock.Any()).Return(ErrEmailTaken).Times(1)

	// Действие
	_, _, err := service.Register(ctx, "Ayşe", "ayse@campus.edu", "secret1", "")

	// Проверки
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestLogin_Success(t *testing.T) {
	// Подготовка
	service, usersMock, _ := newTestAuthService(t)
	ctx := context.Background()
	hash, err := bcrypt.GenerateFromPassword([]byte("secret1"), bcrypt.MinCost)
	require.NoError(t, err)
	storedUser := &models.User{ID: "u1", Email: "ayse@campus.edu", Role: models.RoleRegular}

	// Ожидания
	usersMock.EXPECT().GetByEmail(ctx, "ayse@campus.edu").Return(storedUser, string(hash), nil).Times(1)

	// Действие
	user, token, err := service.Login(ctx, "ayse@campus.edu", "secret1")

	// Проверки
	require.NoError(t, err)
	assert.Equal(t, storedUser, user)
	assert.NotEmpty(t, token)

	// Выданный токен принимается обратно
	claims, err := service.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, models.RoleRegular, claims.Role)
}

func TestLogin_WrongPassword(t *testing.T) {
	// Подготовка
	service, usersMock, _ := newTestAuthService(t)
	ctx := context.Background()
	hash, err := bcrypt.GenerateFromPassword([]byte("secret1"), bcrypt.MinCost)
	require.NoError(t, err)

	// Ожидания
	usersMock.EXPECT().
		GetByEmail(ctx, "ayse@campus.edu").
		Return(&models.User{ID: "u1"}, string(hash), nil).
		Times(1)

	// Действие
	_, _, err = service.Login(ctx, "ayse@campus.edu", "wrong")

	// Проверки
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogin_UnknownEmail(t *testing.T) {
	// Подготовка
	service, usersMock, _ := newTestAuthService(t)
	ctx := context.Background()

	// Ожидания
	usersMock.EXPECT().GetByEmail(ctx, "kimse@campus.edu").Return(nil, "", ErrUserNotFound).Times(1)

	// Действие
	_, _, err := service.Login(ctx, "kimse@campus.edu", "secret1")

	// Проверки: неизвестный адрес неотличим от неверного пароля
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRequestPasswordReset_Success(t *testing.T) {
	// Подготовка
	service, usersMock, mailMock := newTestAuthService(t)
	ctx := context.Background()

	// Ожидания
	usersMock.EXPECT().
		GetByEmail(ctx, "ayse@campus.edu").
		Return(&models.User{ID: "u1"}, "hash", nil).
		Times(1)
	usersMock.EXPECT().
		SaveResetToken(ctx, "ayse@campus.edu", gomock.Any(), 30*time.Minute).
		Return(nil).
		Times(1)
	mailMock.EXPECT().
		Publish(ctx, gomock.Any()).
		Do(func(ctx context.Context, event mailer.ResetEmailEvent) {
			assert.Equal(t, "ayse@campus.edu", event.Email)
			assert.NotEmpty(t, event.Token)
		}).Return(nil).Times(1)

	// Действие
	err := service.RequestPasswordReset(ctx, "ayse@campus.edu")

	// Проверки
	require.NoError(t, err)
}

func TestRequestPasswordReset_UnknownEmailIsSilentlyIgnored(t *testing.T) {
	// Подготовка
	service, usersMock, mailMock := newTestAuthService(t)
	ctx := context.Background()

	// Ожидания: письмо не уходит, но и ошибки нет
	usersMock.EXPECT().GetByEmail(ctx, "kimse@campus.edu").Return(nil, "", ErrUserNotFound).Times(1)
	usersMock.EXPECT().SaveResetToken(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
	mailMock.EXPECT().Publish(gomock.Any(), gomock.Any()).Times(0)

	// Действие
	err := service.RequestPasswordReset(ctx, "kimse@campus.edu")

	// Проверки
	require.NoError(t, err)
}

func TestParseToken_Invalid(t *testing.T) {
	// Подготовка
	service, _, _ := newTestAuthService(t)

	// Действие
	claims, err := service.ParseToken("not-a-token")

	// Проверки
	require.Error(t, err)
	assert.Nil(t, claims)
}

func TestParseToken_RejectsUnexpectedSigningMethod(t *testing.T) {
	// Подготовка
	service, _, _ := newTestAuthService(t)

	// Токен подписан тем же секретом, но алгоритмом HS384
	tok := jwt.NewWithClaims(jwt.SigningMethodHS384, Claims{
		UserID: "u1",
		Email:  "ogrenci@campus.edu",
		Role:   models.RoleRegular,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	signed, err := tok.SignedString([]byte("test-secret"))
	require.NoError(t, err)

	// Действие
	claims, err := service.ParseToken(signed)

	// Проверки
	require.Error(t, err)
	assert.Nil(t, claims)
}
