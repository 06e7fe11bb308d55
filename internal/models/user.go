package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	Email        string    `gorm:"size:200;uniqueIndex;not null" json:"email"`
	Username     string    `gorm:"size:200;uniqueIndex;not null" json:"username"`
	FirstName    string    `gorm:"size:200;not null" json:"first_name"`
	LastName     string    `gorm:"size:200;not null" json:"last_name"`
	PasswordHash string    `gorm:"not null" json:"-"`

	Recipes []Recipe `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE" json:"-"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// Subscription is a one-way edge: the subscriber follows the author.
// The unique index on the pair keeps the edge single.
type Subscription struct {
	ID           uuid.UUID `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt    time.Time `json:"created_at"`
	SubscriberID uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:idx_subscriber_author" json:"subscriber_id"`
	AuthorID     uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:idx_subscriber_author" json:"author_id"`

	Subscriber *User `gorm:"foreignKey:SubscriberID;constraint:OnDelete:CASCADE" json:"-"`
	Author     *User `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Subscription) TableName() string {
	return "subscriptions"
}

func (s *Subscription) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
