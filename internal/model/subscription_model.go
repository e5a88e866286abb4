package model

import (
	"time"

	"github.com/google/uuid"
)

type Subscription struct {
	Id           uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserId       uuid.UUID `gorm:"type:uuid;not null;index:idx_subscriptions_user_created,priority:1"`
	MonthlyPrice int       `gorm:"not null"`
	Status       string    `gorm:"type:varchar(32);not null;index"`
	CreatedAt    time.Time `gorm:"autoCreateTime;index:idx_subscriptions_user_created,priority:2"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime"`
}

func (Subscription) TableName() string {
	return "subscriptions"
}
