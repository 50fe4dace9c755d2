package v1

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/sebahatselcuk/campus-tracker/internal/config"
	"github.com/sebahatselcuk/campus-tracker/internal/feed"
	"github.com/sebahatselcuk/campus-tracker/internal/models"
	"github.com/sebahatselcuk/campus-tracker/internal/service"
	"github.com/sirupsen/logrus"
)

// FeedStream - живая лента для SSE-подписок
type FeedStream interface {
	Subscribe() (uint64, <-chan []models.Incident)
	Unsubscribe(id uint64)
	Snapshot(ctx context.Context) ([]models.Incident, error)
}

type Handler struct {
	incidentService service.IncidentService
	authService     service.AuthService
	alertService    service.AlertService
	feedStream      FeedStream
	logger          *logrus.Logger
	validate        *validator.Validate
	cfg             *config.Config
}

func NewHandler(incidentService service.IncidentService, authService service.AuthService, alertService service.AlertService, feedStream FeedStream, logger *logrus.Logger, cfg *config.Config) *Handler {
	return &Handler{
		incidentService: incidentService,
		authService:     authService,
		alertService:    alertService,
		feedStream:      feedStream,
		logger:          logger,
		validate:        validator.New(),
		cfg:             cfg,
	}
}

// @Summary Register a new user
// @Description Register a new user. Emails with "admin" in the local part get the administrator role.
// @Tags Auth
// @Accept json
// @Produce json
// @Param user body RegisterRequest true "Registration request"
// @Success 201 {object} AuthResponse
// @Failure 400 {object} map[string]string "Invalid request body or validation error"
// @Failure 409 {object} map[string]string "Email already registered"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /auth/register [post]
func (h *Handler) register(c *gin.Context) {
	var input RegisterRequest
	log := h.logger.WithField("method", "register")

	if err := c.ShouldBindJSON(&input); err != nil {
		log.WithError(err).Warn("Failed to bind JSON")
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if err := h.validate.Struct(input); err != nil {
		log.WithError(err).Warn("Validation failed")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, token, err := h.authService.Register(c.Request.Context(), input.Name, input.Email, input.Password, input.Department)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrMissingCredentials), errors.Is(err, service.ErrPasswordTooShort):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, service.ErrEmailTaken):
			c.JSON(http.StatusConflict, gin.H{"error": "email already registered"})
		default:
			log.WithError(err).Error("Failed to register user in service")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		}
		return
	}
	c.JSON(http.StatusCreated, AuthResponse{Token: token, User: ModelToUserResponse(user)})
}

// @Summary Log in
// @Description Exchange email and password for a session token.
// @Tags Auth
// @Accept json
// @Produce json
// @Param credentials body LoginRequest true "Login request"
// @Success 200 {object} AuthResponse
// @Failure 400 {object} map[string]string "Invalid request body or validation error"
// @Failure 401 {object} map[string]string "Invalid credentials"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /auth/login [post]
func (h *Handler) login(c *gin.Context) {
	var input LoginRequest
	log := h.logger.WithField("method", "login")

	if err := c.ShouldBindJSON(&input); err != nil {
		log.WithError(err).Warn("Failed to bind JSON")
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if err := h.validate.Struct(input); err != nil {
		log.WithError(err).Warn("Validation failed")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, token, err := h.authService.Login(c.Request.Context(), input.Email, input.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrMissingCredentials):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, service.ErrInvalidCredentials):
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		default:
			log.WithError(err).Error("Failed to log in user in service")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		}
		return
	}
	c.JSON(http.StatusOK, AuthResponse{Token: token, User: ModelToUserResponse(user)})
}

// @Summary Log out
// @Description Session tokens are stateless, the client just discards its token.
// @Tags Auth
// @Produce json
// @Success 200 {object} map[string]string
// @Router /auth/logout [post]
func (h *Handler) logout(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// @Summary Request a password reset
// @Description Queue a password reset email. Always succeeds to avoid account probing.
// @Tags Auth
// @Accept json
// @Produce json
// @Param reset body ResetPasswordRequest true "Reset request"
// @Success 200 {object} map[string]string
// @Failure 400 {object} map[string]string "Invalid request body or validation error"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /auth/reset [post]
func (h *Handler) resetPassword(c *gin.Context) {
	var input ResetPasswordRequest
	log := h.logger.WithField("method", "resetPassword")

	if err := c.ShouldBindJSON(&input); err != nil {
		log.WithError(err).Warn("Failed to bind JSON")
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if err := h.validate.Struct(input); err != nil {
		log.WithError(err).Warn("Validation failed")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.authService.RequestPasswordReset(c.Request.Context(), input.Email); err != nil {
		log.WithError(err).Error("Failed to request password reset in service")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// @Summary Get the current user
// @Description Get the profile of the authenticated user.
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} UserResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /me [get]
func (h *Handler) me(c *gin.Context) {
	claims := userClaims(c)
	log := h.logger.WithField("method", "me").WithField("user_id", claims.UserID)

	user, err := h.authService.GetUser(c.Request.Context(), claims.UserID)
	if err != nil {
		log.WithError(err).Error("Failed to get current user from service")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(http.StatusOK, ModelToUserResponse(user))
}

// @Summary Get the incident feed
// @Description Get the visible incident list. Filters combine with logical AND; an unknown type or status value falls back to TECH/OPEN.
// @Tags Incidents
// @Produce json
// @Security BearerAuth
// @Param type query string false "Incident type filter (HEALTH, SECURITY, ENVIRONMENT, LOST_FOUND, TECH)"
// @Param status query string false "Incident status filter (OPEN, IN_PROGRESS, RESOLVED)"
// @Param followed query bool false "Only incidents the user follows"
// @Param q query string false "Case-insensitive search over title and description"
// @Success 200 {array} IncidentResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /incidents [get]
func (h *Handler) listIncidents(c *gin.Context) {
	claims := userClaims(c)
	log := h.logger.WithField("method", "listIncidents").WithField("user_id", claims.UserID)

	user, err := h.authService.GetUser(c.Request.Context(), claims.UserID)
	if err != nil {
		log.WithError(err).Error("Failed to get current user from service")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	var f feed.Filter
	if v := c.Query("type"); v != "" {
		t := models.ParseIncidentType(v)
		f.Type = &t
	}
	if v := c.Query("status"); v != "" {
		s := models.ParseIncidentStatus(v)
		f.Status = &s
	}
	f.OnlyFollowed = c.Query("followed") == "true"

	incidents, err := h.incidentService.VisibleIncidents(c.Request.Context(), f, *user, c.Query("q"))
	if err != nil {
		log.WithError(err).Error("Failed to list incidents from service")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(http.StatusOK, ModelsToIncidentResponses(incidents))
}

// @Summary Create a new incident
// @Description Report a new incident. Every new incident starts in status OPEN.
// @Tags Incidents
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param incident body CreateIncidentRequest true "Incident creation request"
// @Success 201 {object} IncidentResponse
// @Failure 400 {object} map[string]string "Invalid request body or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /incidents [post]
func (h *Handler) createIncident(c *gin.Context) {
	claims := userClaims(c)
	var input CreateIncidentRequest
	log := h.logger.WithField("method", "createIncident").WithField("user_id", claims.UserID)

	if err := c.ShouldBindJSON(&input); err != nil {
		log.WithError(err).Warn("Failed to bind JSON")
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if err := h.validate.Struct(input); err != nil {
		log.WithError(err).Warn("Validation failed")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	incident, err := h.incidentService.CreateIncident(
		c.Request.Context(),
		claims.UserID,
		models.ParseIncidentType(input.Type),
		input.Title,
		input.Description,
		input.LocationName,
	)
	if err != nil {
		log.WithError(err).Error("Failed to create incident in service")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(http.StatusCreated, ModelToIncidentResponse(incident))
}

// @Summary Get incident by ID
// @Description Get a single incident by its ID.
// @Tags Incidents
// @Produce json
// @Security BearerAuth
// @Param id path string true "Incident ID"
// @Success 200 {object} IncidentResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Incident not found"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /incidents/{id} [get]
func (h *Handler) getIncident(c *gin.Context) {
	id := c.Param("id")
	log := h.logger.WithField("method", "getIncident").WithField("id", id)

	incident, err := h.incidentService.GetIncident(c.Request.Context(), id)
	if err != nil {
		log.WithError(err).Warn("Failed to get incident from service")
		c.JSON(http.StatusNotFound, gin.H{"error": "incident not found"})
		return
	}
	c.JSON(http.StatusOK, ModelToIncidentResponse(incident))
}

// @Summary Toggle follow on an incident
// @Description Follow the incident if not followed, unfollow otherwise. Toggling twice restores the original follow set.
// @Tags Incidents
// @Produce json
// @Security BearerAuth
// @Param id path string true "Incident ID"
// @Success 200 {object} UserResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /incidents/{id}/follow [post]
func (h *Handler) toggleFollow(c *gin.Context) {
	claims := userClaims(c)
	id := c.Param("id")
	log := h.logger.WithField("method", "toggleFollow").WithField("user_id", claims.UserID).WithField("id", id)

	user, err := h.authService.GetUser(c.Request.Context(), claims.UserID)
	if err != nil {
		log.WithError(err).Error("Failed to get current user from service")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	updated, err := h.incidentService.ToggleFollow(c.Request.Context(), *user, id)
	if err != nil {
		log.WithError(err).Error("Failed to toggle follow in service")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(http.StatusOK, ModelToUserResponse(updated))
}

// @Summary Set incident status
// @Description Set the status of an incident. Administrator only; any status can move to any other.
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Incident ID"
// @Param status body UpdateStatusRequest true "Status update request"
// @Success 200 "OK"
// @Failure 400 {object} map[string]string "Invalid request body or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Administrator role required"
// @Failure 404 {object} map[string]string "Incident not found"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /incidents/{id}/status [put]
func (h *Handler) setStatus(c *gin.Context) {
	claims := userClaims(c)
	id := c.Param("id")
	var input UpdateStatusRequest
	log := h.logger.WithField("method", "setStatus").WithField("id", id)

	if err := c.ShouldBindJSON(&input); err != nil {
		log.WithError(err).Warn("Failed to bind JSON")
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if err := h.validate.Struct(input); err != nil {
		log.WithError(err).Warn("Validation failed")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := h.incidentService.SetStatus(c.Request.Context(), id, models.IncidentStatus(input.Status), claims.Role)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrForbidden):
			c.JSON(http.StatusForbidden, gin.H{"error": "administrator role required"})
		case errors.Is(err, service.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "incident not found"})
		default:
			log.WithError(err).Error("Failed to update incident status in service")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		}
		return
	}
	c.Status(http.StatusOK)
}

// @Summary Delete an incident
// @Description Delete an incident by its ID. Administrator only.
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param id path string true "Incident ID"
// @Success 204 "No Content"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Administrator role required"
// @Failure 404 {object} map[string]string "Incident not found"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /incidents/{id} [delete]
func (h *Handler) deleteIncident(c *gin.Context) {
	claims := userClaims(c)
	id := c.Param("id")
	log := h.logger.WithField("method", "deleteIncident").WithField("id", id)

	err := h.incidentService.DeleteIncident(c.Request.Context(), id, claims.Role)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrForbidden):
			c.JSON(http.StatusForbidden, gin.H{"error": "administrator role required"})
		case errors.Is(err, service.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "incident not found"})
		default:
			log.WithError(err).Error("Failed to delete incident in service")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		}
		return
	}
	c.Status(http.StatusNoContent)
}

// @Summary Broadcast an emergency alert
// @Description Publish an ephemeral alert to all connected clients. Administrator only; nothing is persisted.
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param alert body BroadcastAlertRequest true "Alert broadcast request"
// @Success 201 {object} NotificationResponse
// @Failure 400 {object} map[string]string "Invalid request body or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Administrator role required"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /alerts [post]
func (h *Handler) broadcastAlert(c *gin.Context) {
	claims := userClaims(c)
	var input BroadcastAlertRequest
	log := h.logger.WithField("method", "broadcastAlert")

	if err := c.ShouldBindJSON(&input); err != nil {
		log.WithError(err).Warn("Failed to bind JSON")
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if err := h.validate.Struct(input); err != nil {
		log.WithError(err).Warn("Validation failed")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	notification, err := h.alertService.Broadcast(c.Request.Context(), claims.Role, input.Text)
	if err != nil {
		if errors.Is(err, service.ErrForbidden) {
			c.JSON(http.StatusForbidden, gin.H{"error": "administrator role required"})
			return
		}
		log.WithError(err).Error("Failed to broadcast alert in service")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(http.StatusCreated, ModelToNotificationResponse(*notification))
}

// @Summary Get application health status
// @Description Get health status of the application
// @Tags System
// @Produce json
// @Success 200 {object} map[string]string "Status OK"
// @Router /system/health [get]
func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
