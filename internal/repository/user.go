package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/sebahatselcuk/campus-tracker/internal/models"
	"github.com/sebahatselcuk/campus-tracker/internal/service"
)

// Код ошибки PostgreSQL для нарушения уникальности
const uniqueViolationCode = "23505"

type UserRepository struct {
	db          *pgxpool.Pool
	redisClient *redis.Client
}

func NewUserRepository(db *pgxpool.Pool, redisClient *redis.Client) service.UserRepository {
	return &UserRepository{
		db:          db,
		redisClient: redisClient,
	}
}

// Create создает нового пользователя; id присваивает хранилище
func (r *UserRepository) Create(ctx context.Context, user *models.User, passwordHash string) error {
	query := `
		INSERT INTO users (name, email, password_hash, role, department, followed_incidents)
		VALUES ($1, $2, $3, $4, $5, $6) RETURNING id::text;
	`
	err := r.db.QueryRow(ctx, query,
		user.Name,
		user.Email,
		passwordHash,
		string(user.Role),
		user.Department,
		user.FollowedIncidents,
	).Scan(&user.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return service.ErrEmailTaken
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// GetByID возвращает пользователя по id
func (r *UserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	user := &models.User{}
	var rawRole string
	query := `
		SELECT id::text, name, email, role, department, followed_incidents
		FROM users
		WHERE id = $1;
	`
	err := r.db.QueryRow(ctx, query, id).Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&rawRole,
		&user.Department,
		&user.FollowedIncidents,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, service.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user by id: %w", err)
	}
	user.Role = models.ParseRole(rawRole)
	return user, nil
}

// GetByEmail возвращает пользователя и хеш его пароля
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, string, error) {
	user := &models.User{}
	var rawRole, passwordHash string
	query := `
		SELECT id::text, name, email, password_hash, role, department, followed_incidents
		FROM users
		WHERE email = $1;
	`
	err := r.db.QueryRow(ctx, query, email).Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&passwordHash,
		&rawRole,
		&user.Department,
		&user.FollowedIncidents,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, "", service.ErrUserNotFound
		}
		return nil, "", fmt.Errorf("failed to get user by email: %w", err)
	}
	user.Role = models.ParseRole(rawRole)
	return user, passwordHash, nil
}

// UpdateFollowedIncidents сохраняет новый набор подписок пользователя
func (r *UserRepository) UpdateFollowedIncidents(ctx context.Context, userID string, follows []string) error {
	query := `
		UPDATE users SET followed_incidents = $1 WHERE id = $2;
	`
	cmdTag, err := r.db.Exec(ctx, query, follows, userID)
	if err != nil {
		return fmt.Errorf("failed to update followed incidents: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return service.ErrUserNotFound
	}
	return nil
}

// SaveResetToken сохраняет одноразовый токен сброса пароля в Redis с TTL
func (r *UserRepository) SaveResetToken(ctx context.Context, email, token string, ttl time.Duration) error {
	key := fmt.Sprintf("reset_token:%s", token)
	if err := r.redisClient.Set(ctx, key, email, ttl).Err(); err != nil {
		return fmt.Errorf("failed to save reset token: %w", err)
	}
	return nil
}
