package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/sebahatselcuk/campus-tracker/internal/models"
	"github.com/sebahatselcuk/campus-tracker/internal/service"
)

type IncidentRepository struct {
	db          *pgxpool.Pool
	redisClient *redis.Client
}

func NewIncidentRepository(db *pgxpool.Pool, redisClient *redis.Client) service.IncidentRepository {
	return &IncidentRepository{
		db:          db,
		redisClient: redisClient,
	}
}

// Create создает новую запись о событии в бд; id присваивает хранилище
func (r *IncidentRepository) Create(ctx context.Context, incident *models.Incident) error {
	query := `
		INSERT INTO incidents (type, title, description, status, date, author_id, location_name)
		VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id::text;
	`
	err := r.db.QueryRow(ctx, query,
		string(incident.Type),
		incident.Title,
		incident.Description,
		string(incident.Status),
		incident.Date,
		incident.AuthorID,
		incident.LocationName,
	).Scan(&incident.ID)
	if err != nil {
		return fmt.Errorf("failed to create incident: %w", err)
	}
	return nil
}

// GetByID возвращает событие по его id. Тип и статус читаются как сырые
// строки и тотально парсятся: испорченное значение молча заменяется на
// TECH/OPEN, а не ломает выдачу.
func (r *IncidentRepository) GetByID(ctx context.Context, id string) (*models.Incident, error) {
	incident := &models.Incident{}
	var rawType, rawStatus string
	query := `
		SELECT id::text, type, title, description, status, date, author_id, location_name
		FROM incidents
		WHERE id = $1;
	`
	err := r.db.QueryRow(ctx, query, id).Scan(
		&incident.ID,
		&rawType,
		&incident.Title,
		&incident.Description,
		&rawStatus,
		&incident.Date,
		&incident.AuthorID,
		&incident.LocationName,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, service.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get incident by id: %w", err)
	}
	incident.Type = models.ParseIncidentType(rawType)
	incident.Status = models.ParseIncidentStatus(rawStatus)
	return incident, nil
}

// UpdateStatus устанавливает новый статус события
func (r *IncidentRepository) UpdateStatus(ctx context.Context, id string, status models.IncidentStatus) error {
	query := `
		UPDATE incidents SET status = $1 WHERE id = $2;
	`
	cmdTag, err := r.db.Exec(ctx, query, string(status), id)
	if err != nil {
		return fmt.Errorf("failed to update incident status: %w", err)
	}

	// RowsAffected() == 0 означает, что события с таким id не существует
	if cmdTag.RowsAffected() == 0 {
		return service.ErrNotFound
	}
	return nil
}

// Delete удаляет событие из бд. Подписки пользователей не трогаются.
func (r *IncidentRepository) Delete(ctx context.Context, id string) error {
	query := `
		DELETE FROM incidents WHERE id = $1;
	`
	cmdTag, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete incident: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return service.ErrNotFound
	}
	return nil
}

// ListIncidents возвращает полный список событий по дате по убыванию
func (r *IncidentRepository) ListIncidents(ctx context.Context) ([]models.Incident, error) {
	query := `
		SELECT id::text, type, title, description, status, date, author_id, location_name
		FROM incidents
		ORDER BY date DESC;
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list incidents: %w", err)
	}
	defer rows.Close()

	incidents := make([]models.Incident, 0)
	for rows.Next() {
		incident := models.Incident{}
		var rawType, rawStatus string
		err := rows.Scan(
			&incident.ID,
			&rawType,
			&incident.Title,
			&incident.Description,
			&rawStatus,
			&incident.Date,
			&incident.AuthorID,
			&incident.LocationName,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan incident row: %w", err)
		}
		incident.Type = models.ParseIncidentType(rawType)
		incident.Status = models.ParseIncidentStatus(rawStatus)
		incidents = append(incidents, incident)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error list iteration: %w", err)
	}
	return incidents, nil
}

// GetIncidentFromCache пытается получить событие из Redis
func (r *IncidentRepository) GetIncidentFromCache(ctx context.Context, id string) (*models.Incident, error) {
	key := fmt.Sprintf("incident:%s", id)
	val, err := r.redisClient.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get incident from cache: %w", err)
	}

	incident := &models.Incident{}
	if err := json.Unmarshal(val, incident); err != nil {
		return nil, fmt.Errorf("failed to unmarshal incident from cache: %w", err)
	}
	// Кеш тоже может содержать устаревшие строковые значения
	incident.Type = models.ParseIncidentType(string(incident.Type))
	incident.Status = models.ParseIncidentStatus(string(incident.Status))
	return incident, nil
}

// SetIncidentCache сохраняет событие в Redis
func (r *IncidentRepository) SetIncidentCache(ctx context.Context, incident *models.Incident) error {
	key := fmt.Sprintf("incident:%s", incident.ID)
	val, err := json.Marshal(incident)
	if err != nil {
		return fmt.Errorf("failed to marshal incident for cache: %w", err)
	}
	// Срок жизни кэша - 5 минут
	if err := r.redisClient.Set(ctx, key, val, 5*time.Minute).Err(); err != nil {
		return fmt.Errorf("failed to set incident in cache: %w", err)
	}
	return nil
}

// InvalidateIncidentCache удаляет событие из Redis кэша
func (r *IncidentRepository) InvalidateIncidentCache(ctx context.Context, id string) error {
	key := fmt.Sprintf("incident:%s", id)
	if err := r.redisClient.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("failed to invalidate incident cache: %w", err)
	}
	return nil
}
