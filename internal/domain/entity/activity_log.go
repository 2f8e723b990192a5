package entity

import "time"

// ActivityLog es un registro de auditoría, solo de inserción.
type ActivityLog struct {
	ID          string
	UserID      string
	Table       string
	Action      string
	Description string
	CreatedAt   time.Time
}
