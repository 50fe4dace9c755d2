package models

// Notification - эфемерное оповещение (экстренная рассылка администратора).
// Никуда не сохраняется, живёт только в канале рассылки.
type Notification struct {
	ID   string `json:"id"`
	Text string `json:"text"`
	Date int64  `json:"date"` // миллисекунды с начала эпохи
}
