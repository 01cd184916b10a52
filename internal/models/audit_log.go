package models

import "time"

type AuditLog struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"createdAt"`

	UserID uint `json:"userId"`
	User   User `json:"user"`

	Entity   string `gorm:"size:50;not null;index:idx_audit_entity" json:"entity"` // "project", "task", "user"
	EntityID string `gorm:"size:64;index:idx_audit_entity" json:"entityId"`
	Action   string `gorm:"size:50;not null" json:"action"` // "create", "update", "status_change" ...
	Details  string `gorm:"type:text" json:"details"`
}
