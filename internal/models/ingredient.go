package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Ingredient is immutable reference data. Identity is the
// (name, measurement_unit) pair; the id is a surrogate.
type Ingredient struct {
	ID              uuid.UUID `gorm:"type:uuid;primarykey" json:"id"`
	Name            string    `gorm:"size:200;not null;index;uniqueIndex:idx_name_unit" json:"name"`
	MeasurementUnit string    `gorm:"size:200;not null;uniqueIndex:idx_name_unit" json:"measurement_unit"`
}

func (i *Ingredient) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}
