package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/polynux/kanap-openclassrooms/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Gorm stores namespaces as rows of the stored_values table.
type Gorm struct {
	db *gorm.DB
}

func NewGorm(db *gorm.DB) *Gorm {
	return &Gorm{db: db}
}

// Migrate creates or updates the stored_values table.
func (g *Gorm) Migrate() error {
	return g.db.AutoMigrate(&models.StoredValue{})
}

func (g *Gorm) Namespace(guestID string) KeyValueStore {
	return gormNamespace{db: g.db, guestID: guestID}
}

type gormNamespace struct {
	db      *gorm.DB
	guestID string
}

func (n gormNamespace) Get(ctx context.Context, key string) (string, bool, error) {
	var row models.StoredValue
	err := n.db.WithContext(ctx).
		Where("guest_id = ? AND key = ?", n.guestID, key).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("load %q: %w", key, err)
	}
	return row.Value, true, nil
}

func (n gormNamespace) Set(ctx context.Context, key, value string) error {
	row := models.StoredValue{
		GuestID:   n.guestID,
		Key:       key,
		Value:     value,
		UpdatedAt: time.Now(),
	}
	err := n.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "guest_id"}, {Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&row).Error
	if err != nil {
		return fmt.Errorf("store %q: %w", key, err)
	}
	return nil
}
