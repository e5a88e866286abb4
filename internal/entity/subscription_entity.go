// FILE: internal/entity/subscription_entity.go
package entity

import (
	"time"

	"github.com/google/uuid"
)

type SubscriptionStatus string

const (
	SubscriptionStatusActive              SubscriptionStatus = "active"
	SubscriptionStatusPendingCancellation SubscriptionStatus = "pending_cancellation"
	SubscriptionStatusCancelled           SubscriptionStatus = "cancelled"
)

// Subscription is owned by billing. The cancellation flow only reads it and moves Status.
type Subscription struct {
	Id           uuid.UUID
	UserId       uuid.UUID
	MonthlyPrice int // minor currency units
	Status       SubscriptionStatus
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (s SubscriptionStatus) IsValid() bool {
	switch s {
	case SubscriptionStatusActive, SubscriptionStatusPendingCancellation, SubscriptionStatusCancelled:
		return true
	}
	return false
}
