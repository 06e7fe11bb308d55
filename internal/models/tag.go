package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Tag is immutable reference data. Color holds six hex digits without
// the leading '#'.
type Tag struct {
	ID    uuid.UUID `gorm:"type:uuid;primarykey" json:"id"`
	Name  string    `gorm:"size:200;not null" json:"name"`
	Color string    `gorm:"size:6;not null;default:'999999'" json:"color"`
	Slug  string    `gorm:"size:200;uniqueIndex;not null" json:"slug"`
}

func (t *Tag) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}
