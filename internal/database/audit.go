package database

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"seisaku-manager/internal/models"
)

const historyLimit = 200

// AuditTrail records who changed what.
type AuditTrail struct {
	db *gorm.DB
}

func NewAuditTrail(db *gorm.DB) *AuditTrail {
	return &AuditTrail{db: db}
}

func (a *AuditTrail) Record(ctx context.Context, userID uint, entity, entityID, action, details string) error {
	record := models.AuditLog{
		UserID:   userID,
		Entity:   entity,
		EntityID: entityID,
		Action:   action,
		Details:  details,
	}
	if err := a.db.WithContext(ctx).Create(&record).Error; err != nil {
		return fmt.Errorf("failed to write audit log: %w", err)
	}
	return nil
}

// History returns the newest entries for one entity first.
func (a *AuditTrail) History(ctx context.Context, entity, entityID string) ([]models.AuditLog, error) {
	var logs []models.AuditLog
	err := a.db.WithContext(ctx).
		Preload("User").
		Where("entity = ? AND entity_id = ?", entity, entityID).
		Order("created_at desc").
		Order("id desc").
		Limit(historyLimit).
		Find(&logs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load audit log: %w", err)
	}
	return logs, nil
}
