// FILE: internal/entity/cancellation_entity.go
package entity

import (
	"time"

	"github.com/google/uuid"
)

// DownsellVariant is the A/B bucket fixed when the cancellation row is created
type DownsellVariant string

const (
	DownsellVariantA DownsellVariant = "A"
	DownsellVariantB DownsellVariant = "B"
)

type CancellationReason string

const (
	CancellationReasonFoundJob           CancellationReason = "found_job"
	CancellationReasonVisaYes            CancellationReason = "visa_yes"
	CancellationReasonVisaNo             CancellationReason = "visa_no"
	CancellationReasonTooExpensive       CancellationReason = "too_expensive"
	CancellationReasonPlatformNotHelpful CancellationReason = "platform_not_helpful"
	CancellationReasonNotEnoughJobs      CancellationReason = "not_enough_jobs"
	CancellationReasonDecidedNotToMove   CancellationReason = "decided_not_to_move"
	CancellationReasonOther              CancellationReason = "other"
)

// Cancellation tracks one subscription's pass through the cancellation flow.
// There is at most one per subscription and it is never deleted.
type Cancellation struct {
	Id               uuid.UUID
	UserId           uuid.UUID
	SubscriptionId   uuid.UUID
	DownsellVariant  DownsellVariant
	Reason           CancellationReason // empty until a step sets it
	ReasonDetails    string             // composite "|"-delimited segments, see cancelflow.Details
	AcceptedDownsell bool
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// CancellationPatch lists the columns a flow step may write. Nil fields are left untouched.
type CancellationPatch struct {
	Reason           *CancellationReason
	ReasonDetails    *string
	AcceptedDownsell *bool
}

func (v DownsellVariant) IsValid() bool {
	return v == DownsellVariantA || v == DownsellVariantB
}
