package models

import "strings"

// Role - роль пользователя в системе
type Role string

const (
	RoleRegular       Role = "REGULAR"
	RoleAdministrator Role = "ADMINISTRATOR"
)

// ParseRole - тотальный парсинг роли, неизвестное значение считается REGULAR
func ParseRole(s string) Role {
	if Role(s) == RoleAdministrator {
		return RoleAdministrator
	}
	return RoleRegular
}

type User struct {
	ID                string   `json:"id"`
	Name              string   `json:"name"`
	Email             string   `json:"email"`
	Role              Role     `json:"role"`
	Department        string   `json:"department"`
	FollowedIncidents []string `json:"followed_incidents"`
}

// IsAdmin - единственная проверка прав в системе
func (u User) IsAdmin() bool {
	return u.Role == RoleAdministrator
}

// Follows проверяет, подписан ли пользователь на событие
func (u User) Follows(incidentID string) bool {
	for _, id := range u.FollowedIncidents {
		if id == incidentID {
			return true
		}
	}
	return false
}

// RoleForEmail назначает роль при регистрации: если локальная часть адреса
// содержит "admin" (без учёта регистра), пользователь становится администратором.
func RoleForEmail(email string) Role {
	local := email
	if i := strings.Index(email, "@"); i >= 0 {
		local = email[:i]
	}
	if strings.Contains(strings.ToLower(local), "admin") {
		return RoleAdministrator
	}
	return RoleRegular
}
