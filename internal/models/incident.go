package models

// IncidentType - закрытый набор типов бильдирима (события на кампусе)
type IncidentType string

const (
	TypeHealth      IncidentType = "HEALTH"
	TypeSecurity    IncidentType = "SECURITY"
	TypeEnvironment IncidentType = "ENVIRONMENT"
	TypeLostFound   IncidentType = "LOST_FOUND"
	TypeTech        IncidentType = "TECH"
)

// IncidentStatus - закрытый набор статусов события
type IncidentStatus string

const (
	StatusOpen       IncidentStatus = "OPEN"
	StatusInProgress IncidentStatus = "IN_PROGRESS"
	StatusResolved   IncidentStatus = "RESOLVED"
)

// typeMeta - презентационные метаданные типа (лейбл, иконка, цвет)
type typeMeta struct {
	Label string
	Icon  string
	Color string
}

var typeMetas = map[IncidentType]typeMeta{
	TypeHealth:      {Label: "Sağlık", Icon: "favorite", Color: "#EF4444"},
	TypeSecurity:    {Label: "Güvenlik", Icon: "lock", Color: "#2563EB"},
	TypeEnvironment: {Label: "Çevre", Icon: "place", Color: "#10B981"},
	TypeLostFound:   {Label: "Kayıp/Buluntu", Icon: "search", Color: "#8B5CF6"},
	TypeTech:        {Label: "Teknik Arıza", Icon: "build", Color: "#F59E0B"},
}

type statusMeta struct {
	Label string
	Color string
}

var statusMetas = map[IncidentStatus]statusMeta{
	StatusOpen:       {Label: "Açık", Color: "#EF4444"},
	StatusInProgress: {Label: "İnceleniyor", Color: "#F59E0B"},
	StatusResolved:   {Label: "Çözüldü", Color: "#10B981"},
}

// IncidentTypes возвращает все типы в фиксированном порядке
func IncidentTypes() []IncidentType {
	return []IncidentType{TypeHealth, TypeSecurity, TypeEnvironment, TypeLostFound, TypeTech}
}

// IncidentStatuses возвращает все статусы в фиксированном порядке
func IncidentStatuses() []IncidentStatus {
	return []IncidentStatus{StatusOpen, StatusInProgress, StatusResolved}
}

// ParseIncidentType - тотальный парсинг: неизвестное значение тихо заменяется на TECH.
// Ошибок не бывает, испорченные данные из хранилища не должны ломать выдачу.
func ParseIncidentType(s string) IncidentType {
	t := IncidentType(s)
	if _, ok := typeMetas[t]; !ok {
		return TypeTech
	}
	return t
}

// ParseIncidentStatus - тотальный парсинг: неизвестное значение тихо заменяется на OPEN
func ParseIncidentStatus(s string) IncidentStatus {
	st := IncidentStatus(s)
	if _, ok := statusMetas[st]; !ok {
		return StatusOpen
	}
	return st
}

func (t IncidentType) Label() string { return typeMetas[ParseIncidentType(string(t))].Label }
func (t IncidentType) Icon() string  { return typeMetas[ParseIncidentType(string(t))].Icon }
func (t IncidentType) Color() string { return typeMetas[ParseIncidentType(string(t))].Color }

func (s IncidentStatus) Label() string { return statusMetas[ParseIncidentStatus(string(s))].Label }
func (s IncidentStatus) Color() string { return statusMetas[ParseIncidentStatus(string(s))].Color }

// DefaultLocation - локация по умолчанию, если автор её не указал
const DefaultLocation = "Kampüs"

type Incident struct {
	ID           string         `json:"id"`
	Type         IncidentType   `json:"type"`
	Title        string         `json:"title"`
	Description  string         `json:"description"`
	Status       IncidentStatus `json:"status"`
	Date         int64          `json:"date"` // миллисекунды с начала эпохи
	AuthorID     string         `json:"author_id"`
	LocationName string         `json:"location_name"`
}
