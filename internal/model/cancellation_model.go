// FILE: internal/model/cancellation_model.go
package model

import (
	"time"

	"github.com/google/uuid"
)

// Cancellation GORM model for the cancellation flow row.
// subscription_id is unique: inserts rely on ON CONFLICT against it.
type Cancellation struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID           uuid.UUID `gorm:"type:uuid;not null;index"`
	SubscriptionID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`
	DownsellVariant  string    `gorm:"type:varchar(1);not null"`
	Reason           *string   `gorm:"type:varchar(50)"`
	ReasonDetails    *string   `gorm:"type:text"`
	AcceptedDownsell bool      `gorm:"not null"`
	CreatedAt        time.Time `gorm:"autoCreateTime"`
	UpdatedAt        time.Time `gorm:"autoUpdateTime"`

	// Relations
	Subscription Subscription `gorm:"foreignKey:SubscriptionID"`
}

func (Cancellation) TableName() string {
	return "cancellations"
}
