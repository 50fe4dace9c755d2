package v1

// RegisterRequest DTO для регистрации пользователя
// @Description DTO для регистрации пользователя
type RegisterRequest struct {
	Name       string `json:"name" validate:"required,min=2,max=255"`
	Email      string `json:"email" validate:"required,email"`
	Password   string `json:"password" validate:"required,min=6"`
	Department string `json:"department,omitempty"`
}

// LoginRequest DTO для входа
// @Description DTO для входа
type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// ResetPasswordRequest DTO для запроса сброса пароля
// @Description DTO для запроса сброса пароля
type ResetPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// CreateIncidentRequest DTO для создания события
// @Description DTO для создания события
type CreateIncidentRequest struct {
	Type         string `json:"type,omitempty"` // неизвестный тип тихо становится TECH
	Title        string `json:"title" validate:"required,min=2,max=255"`
	Description  string `json:"description,omitempty"`
	LocationName string `json:"location_name,omitempty"`
}

// UpdateStatusRequest DTO для смены статуса события
// @Description DTO для смены статуса события
type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=OPEN IN_PROGRESS RESOLVED"`
}

// BroadcastAlertRequest DTO для экстренной рассылки
// @Description DTO для экстренной рассылки
type BroadcastAlertRequest struct {
	Text string `json:"text" validate:"required,min=1,max=500"`
}

// UserResponse DTO для ответа с данными пользователя
// @Description DTO для ответа с данными пользователя
type UserResponse struct {
	ID                string   `json:"id"`
	Name              string   `json:"name"`
	Email             string   `json:"email"`
	Role              string   `json:"role"`
	Department        string   `json:"department"`
	FollowedIncidents []string `json:"followed_incidents"`
}

// AuthResponse DTO для ответа на вход/регистрацию
// @Description DTO для ответа на вход/регистрацию
type AuthResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

// IncidentResponse DTO для ответа с информацией о событии.
// Лейблы, иконки и цвета - презентационные метаданные для клиента.
// @Description DTO для ответа с информацией о событии
type IncidentResponse struct {
	ID           string `json:"id"`
	Type         string `json:"type"`
	TypeLabel    string `json:"type_label"`
	TypeIcon     string `json:"type_icon"`
	TypeColor    string `json:"type_color"`
	Title        string `json:"title"`
	Description  string `json:"description,omitempty"`
	Status       string `json:"status"`
	StatusLabel  string `json:"status_label"`
	StatusColor  string `json:"status_color"`
	Date         int64  `json:"date"`
	AuthorID     string `json:"author_id"`
	LocationName string `json:"location_name"`
}

// NotificationResponse DTO для оповещения экстренной рассылки
// @Description DTO для оповещения экстренной рассылки
type NotificationResponse struct {
	ID   string `json:"id"`
	Text string `json:"text"`
	Date int64  `json:"date"`
}
