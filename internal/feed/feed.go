package feed

import (
	"strings"

	"github.com/sebahatselcuk/campus-tracker/internal/models"
)

// Filter - активный набор фильтров ленты: один тип, один статус, флаг "только
// отслеживаемые". nil означает, что фильтр не задан.
type Filter struct {
	Type         *models.IncidentType
	Status       *models.IncidentStatus
	OnlyFollowed bool
}

// ToggleType включает фильтр по типу; повторный выбор активного типа снимает фильтр
func (f Filter) ToggleType(t models.IncidentType) Filter {
	if f.Type != nil && *f.Type == t {
		f.Type = nil
		return f
	}
	f.Type = &t
	return f
}

// ToggleStatus включает фильтр по статусу; повторный выбор снимает фильтр
func (f Filter) ToggleStatus(s models.IncidentStatus) Filter {
	if f.Status != nil && *f.Status == s {
		f.Status = nil
		return f
	}
	f.Status = &s
	return f
}

// ToggleFollowed переключает флаг "только отслеживаемые"
func (f Filter) ToggleFollowed() Filter {
	f.OnlyFollowed = !f.OnlyFollowed
	return f
}

// Matches - конъюнкция трёх независимых предикатов, никаких OR между категориями
func (f Filter) Matches(inc models.Incident, user models.User) bool {
	if f.Type != nil && inc.Type != *f.Type {
		return false
	}
	if f.Status != nil && inc.Status != *f.Status {
		return false
	}
	if f.OnlyFollowed && !user.Follows(inc.ID) {
		return false
	}
	return true
}

// VisibleIncidents возвращает упорядоченную подпоследовательность all
// (порядок хранилища - по дате по убыванию - сохраняется), прошедшую фильтры.
// Чистая функция, O(n).
func VisibleIncidents(all []models.Incident, f Filter, user models.User) []models.Incident {
	visible := make([]models.Incident, 0, len(all))
	for _, inc := range all {
		if f.Matches(inc, user) {
			visible = append(visible, inc)
		}
	}
	return visible
}

// ToggleFollow возвращает нового пользователя: событие убрано из подписок,
// если было, иначе добавлено. Двойное применение возвращает исходное множество.
// Сохранение результата в хранилище - забота вызывающего.
func ToggleFollow(user models.User, incidentID string) models.User {
	follows := make([]string, 0, len(user.FollowedIncidents)+1)
	found := false
	for _, id := range user.FollowedIncidents {
		if id == incidentID {
			found = true
			continue
		}
		follows = append(follows, id)
	}
	if !found {
		follows = append(follows, incidentID)
	}
	user.FollowedIncidents = follows
	return user
}

// MatchesQuery - поиск админ-панели: подстрока в заголовке или описании,
// без учёта регистра. Пустой запрос совпадает со всем.
func MatchesQuery(inc models.Incident, query string) bool {
	if query == "" {
		return true
	}
	q := strings.ToLower(query)
	return strings.Contains(strings.ToLower(inc.Title), q) ||
		strings.Contains(strings.ToLower(inc.Description), q)
}

// SearchIncidents фильтрует список по текстовому запросу, сохраняя порядок
func SearchIncidents(all []models.Incident, query string) []models.Incident {
	if query == "" {
		return all
	}
	matched := make([]models.Incident, 0, len(all))
	for _, inc := range all {
		if MatchesQuery(inc, query) {
			matched = append(matched, inc)
		}
	}
	return matched
}
