package service

import (
	"context"
	"fmt"
	"time"

	"github.com/sebahatselcuk/campus-tracker/internal/feed"
	"github.com/sebahatselcuk/campus-tracker/internal/models"
	"github.com/sirupsen/logrus"
)

// IncidentRepository определяет контракт для работы с хранилищем событий
type IncidentRepository interface {
	Create(ctx context.Context, incident *models.Incident) error
	GetByID(ctx context.Context, id string) (*models.Incident, error)
	UpdateStatus(ctx context.Context, id string, status models.IncidentStatus) error
	Delete(ctx context.Context, id string) error
	ListIncidents(ctx context.Context) ([]models.Incident, error)
	GetIncidentFromCache(ctx context.Context, id string) (*models.Incident, error)
	SetIncidentCache(ctx context.Context, incident *models.Incident) error
	InvalidateIncidentCache(ctx context.Context, id string) error
}

// UserRepository определяет контракт для работы с хранилищем пользователей
type UserRepository interface {
	Create(ctx context.Context, user *models.User, passwordHash string) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, string, error)
	UpdateFollowedIncidents(ctx context.Context, userID string, follows []string) error
	SaveResetToken(ctx context.Context, email, token string, ttl time.Duration) error
}

// FeedNotifier получает сигнал после каждой записи, чтобы разослать подписчикам
// свежий снапшот ленты
type FeedNotifier interface {
	Notify(ctx context.Context)
}

// IncidentService определяет контракт бизнес-логики управления событиями
type IncidentService interface {
	CreateIncident(ctx context.Context, authorID string, t models.IncidentType, title, description, location string) (*models.Incident, error)
	GetIncident(ctx context.Context, id string) (*models.Incident, error)
	ListIncidents(ctx context.Context) ([]models.Incident, error)
	VisibleIncidents(ctx context.Context, f feed.Filter, user models.User, query string) ([]models.Incident, error)
	SetStatus(ctx context.Context, id string, status models.IncidentStatus, actingRole models.Role) error
	DeleteIncident(ctx context.Context, id string, actingRole models.Role) error
	ToggleFollow(ctx context.Context, user models.User, incidentID string) (*models.User, error)
}

type incidentService struct {
	repo     IncidentRepository
	users    UserRepository
	logger   *logrus.Logger
	notifier FeedNotifier
}

func NewIncidentService(repo IncidentRepository, users UserRepository, logger *logrus.Logger, notifier FeedNotifier) IncidentService {
	return &incidentService{
		repo:     repo,
		users:    users,
		logger:   logger,
		notifier: notifier,
	}
}

// CreateIncident создает событие. Новое событие всегда открыто.
func (s *incidentService) CreateIncident(ctx context.Context, authorID string, t models.IncidentType, title, description, location string) (*models.Incident, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service":   "incident",
		"method":    "CreateIncident",
		"author_id": authorID,
	})
	log.Info("Attempting to create a new incident")

	if location == "" {
		location = models.DefaultLocation
	}
	incident := &models.Incident{
		Type:         models.ParseIncidentType(string(t)),
		Title:        title,
		Description:  description,
		Status:       models.StatusOpen,
		Date:         time.Now().UnixMilli(),
		AuthorID:     authorID,
		LocationName: location,
	}

	if err := s.repo.Create(ctx, incident); err != nil {
		log.WithError(err).Error("Failed to create incident in repository")
		return nil, fmt.Errorf("service: could not create incident: %w", err)
	}

	log.WithField("incident_id", incident.ID).Info("Incident created successfully")
	s.notifier.Notify(ctx)
	return incident, nil
}

// GetIncident получает событие по ID, сначала из кеша
func (s *incidentService) GetIncident(ctx context.Context, id string) (*models.Incident, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service":     "incident",
		"method":      "GetIncident",
		"incident_id": id,
	})

	cached, err := s.repo.GetIncidentFromCache(ctx, id)
	if err != nil {
		log.WithError(err).Warn("Failed to read incident cache")
	}
	if cached != nil {
		return cached, nil
	}

	incident, err := s.repo.GetByID(ctx, id)
	if err != nil {
		log.WithError(err).Warn("Failed to get incident from repository")
		return nil, fmt.Errorf("service: could not get incident: %w", err)
	}

	if err := s.repo.SetIncidentCache(ctx, incident); err != nil {
		log.WithError(err).Warn("Failed to cache incident")
	}
	return incident, nil
}

// ListIncidents возвращает полный список событий, упорядоченный по дате по убыванию
func (s *incidentService) ListIncidents(ctx context.Context) ([]models.Incident, error) {
	incidents, err := s.repo.ListIncidents(ctx)
	if err != nil {
		s.logger.WithError(err).Error("Failed to list incidents from repository")
		return nil, fmt.Errorf("service: could not list incidents: %w", err)
	}
	return incidents, nil
}

// VisibleIncidents возвращает видимое подмножество ленты для пользователя:
// фильтры применяются чистым движком поверх полного снапшота
func (s *incidentService) VisibleIncidents(ctx context.Context, f feed.Filter, user models.User, query string) ([]models.Incident, error) {
	incidents, err := s.ListIncidents(ctx)
	if err != nil {
		return nil, err
	}
	visible := feed.VisibleIncidents(incidents, f, user)
	return feed.SearchIncidents(visible, query), nil
}

// SetStatus переводит событие в целевой статус. Действие только для
// администратора; таблицы переходов нет, любой статус достижим из любого.
func (s *incidentService) SetStatus(ctx context.Context, id string, status models.IncidentStatus, actingRole models.Role) error {
	log := s.logger.WithFields(logrus.Fields{
		"service":     "incident",
		"method":      "SetStatus",
		"incident_id": id,
		"status":      status,
	})

	if actingRole != models.RoleAdministrator {
		log.Warn("Status change refused: not an administrator")
		return ErrForbidden
	}

	if err := s.repo.UpdateStatus(ctx, id, models.ParseIncidentStatus(string(status))); err != nil {
		log.WithError(err).Error("Failed to update incident status in repository")
		return fmt.Errorf("service: could not update status: %w", err)
	}

	if err := s.repo.InvalidateIncidentCache(ctx, id); err != nil {
		log.WithError(err).Warn("Failed to invalidate incident cache")
	}
	log.Info("Incident status updated successfully")
	s.notifier.Notify(ctx)
	return nil
}

// DeleteIncident удаляет событие. Только для администратора.
// Подписки пользователей на удалённое событие не вычищаются - висячие ссылки
// безвредны для выдачи, лента их просто не находит.
func (s *incidentService) DeleteIncident(ctx context.Context, id string, actingRole models.Role) error {
	log := s.logger.WithFields(logrus.Fields{
		"service":     "incident",
		"method":      "DeleteIncident",
		"incident_id": id,
	})

	if actingRole != models.RoleAdministrator {
		log.Warn("Delete refused: not an administrator")
		return ErrForbidden
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		log.WithError(err).Error("Failed to delete incident in repository")
		return fmt.Errorf("service: could not delete incident: %w", err)
	}

	if err := s.repo.InvalidateIncidentCache(ctx, id); err != nil {
		log.WithError(err).Warn("Failed to invalidate incident cache")
	}
	log.Info("Incident deleted successfully")
	s.notifier.Notify(ctx)
	return nil
}

// ToggleFollow переключает подписку пользователя на событие и сохраняет
// новый набор подписок
func (s *incidentService) ToggleFollow(ctx context.Context, user models.User, incidentID string) (*models.User, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service":     "incident",
		"method":      "ToggleFollow",
		"user_id":     user.ID,
		"incident_id": incidentID,
	})

	updated := feed.ToggleFollow(user, incidentID)
	if err := s.users.UpdateFollowedIncidents(ctx, updated.ID, updated.FollowedIncidents); err != nil {
		log.WithError(err).Error("Failed to persist followed incidents")
		return nil, fmt.Errorf("service: could not update follows: %w", err)
	}

	log.WithField("follow_count", len(updated.FollowedIncidents)).Info("Follow toggled successfully")
	return &updated, nil
}
