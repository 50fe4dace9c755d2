package v1

import "github.com/sebahatselcuk/campus-tracker/internal/models"

// ModelToUserResponse преобразует доменную модель пользователя в DTO для ответа
func ModelToUserResponse(model *models.User) UserResponse {
	follows := model.FollowedIncidents
	if follows == nil {
		follows = []string{}
	}
	return UserResponse{
		ID:                model.ID,
		Name:              model.Name,
		Email:             model.Email,
		Role:              string(model.Role),
		Department:        model.Department,
		FollowedIncidents: follows,
	}
}

// ModelToIncidentResponse преобразует доменную модель в DTO для ответа
func ModelToIncidentResponse(model *models.Incident) IncidentResponse {
	return IncidentResponse{
		ID:           model.ID,
		Type:         string(model.Type),
		TypeLabel:    model.Type.Label(),
		TypeIcon:     model.Type.Icon(),
		TypeColor:    model.Type.Color(),
		Title:        model.Title,
		Description:  model.Description,
		Status:       string(model.Status),
		StatusLabel:  model.Status.Label(),
		StatusColor:  model.Status.Color(),
		Date:         model.Date,
		AuthorID:     model.AuthorID,
		LocationName: model.LocationName,
	}
}

// ModelsToIncidentResponses преобразует слайс моделей в слайс DTO
func ModelsToIncidentResponses(incidents []models.Incident) []IncidentResponse {
	responses := make([]IncidentResponse, len(incidents))
	for i := range incidents {
		responses[i] = ModelToIncidentResponse(&incidents[i])
	}
	return responses
}

// ModelToNotificationResponse преобразует оповещение в DTO
func ModelToNotificationResponse(model models.Notification) NotificationResponse {
	return NotificationResponse{
		ID:   model.ID,
		Text: model.Text,
		Date: model.Date,
	}
}
