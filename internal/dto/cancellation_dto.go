// FILE: internal/dto/cancellation_dto.go
package dto

import (
	"time"

	"cancel-flow-be/pkg/cancelflow"

	"github.com/google/uuid"
)

// --- Step Requests ---
// Every request is accepted as form data or JSON.

type EntryRequest struct {
	Answer string `form:"answer" json:"answer" validate:"required,oneof=found_job still_looking"`
}

type JobQuestionsRequest struct {
	WithMM     string `form:"with_mm" json:"with_mm" validate:"required,oneof=yes no"`
	Roles      string `form:"roles" json:"roles" validate:"required,oneof=0 1-5 6-20 20+"`
	Emails     string `form:"emails" json:"emails" validate:"required,oneof=0 1-5 6-20 20+"`
	Interviews string `form:"interviews" json:"interviews" validate:"required,oneof=0 1-2 3-5 5+"`
}

// FeedbackRequest length is checked after trimming, against the configured minimum.
type FeedbackRequest struct {
	Feedback string `form:"feedback" json:"feedback" validate:"required"`
}

type VisaRequest struct {
	Reason   string `form:"reason" json:"reason" validate:"required,oneof=visa_yes visa_no"`
	VisaInfo string `form:"visa_info" json:"visa_info"`
}

type DownsellRequest struct {
	Action string `form:"action" json:"action" validate:"required,oneof=accept decline"`
}

type UsageRequest struct {
	Action  string `form:"action" json:"action" validate:"required,oneof=continue accept"`
	Reason  string `form:"reason" json:"reason" validate:"required_if=Action continue,omitempty,oneof=too_expensive platform_not_helpful not_enough_jobs decided_not_to_move other"`
	Details string `form:"details" json:"details"`
}

// --- Views ---

// FormView carries the CSRF token a screen must echo back on submit.
type FormView struct {
	CsrfToken string `json:"csrf_token,omitempty"`
}

func (v *FormView) SetCsrfToken(token string) {
	v.CsrfToken = token
}

type SubscriptionView struct {
	Id                  uuid.UUID `json:"id"`
	MonthlyPrice        int       `json:"monthly_price"`
	MonthlyPriceDisplay string    `json:"monthly_price_display"`
	Status              string    `json:"status"`
}

type EntryView struct {
	FormView
	Subscription   SubscriptionView `json:"subscription"`
	CancellationId *uuid.UUID       `json:"cancellation_id,omitempty"`
	Variant        string           `json:"downsell_variant,omitempty"`
}

type JobQuestionsView struct {
	FormView
	RoleOptions      []string `json:"role_options"`
	EmailOptions     []string `json:"email_options"`
	InterviewOptions []string `json:"interview_options"`
}

type FeedbackView struct {
	FormView
	MinLength int `json:"min_length"`
}

type VisaView struct {
	FormView
	WithMM    bool   `json:"with_mm"`
	YesPrompt string `json:"yes_prompt"`
	NoPrompt  string `json:"no_prompt"`
}

type OfferView struct {
	MonthlyPrice        int    `json:"monthly_price"`
	MonthlyPriceDisplay string `json:"monthly_price_display"`
	OfferPrice          int    `json:"offer_price"`
	OfferPriceDisplay   string `json:"offer_price_display"`
}

type DownsellView struct {
	FormView
	OfferView
}

type UsageView struct {
	FormView
	OfferView
	Reasons          []string `json:"reasons"`
	MinDetailsLength int      `json:"min_details_length"`
}

type ConfirmView struct {
	FormView
	Status      string    `json:"status"`
	Cancelled   bool      `json:"cancelled"`
	AccessUntil time.Time `json:"access_until"`
}

type AcceptedView struct {
	OfferView
	Status string `json:"status,omitempty"`
}

type FinalView struct {
	Screen string `json:"screen"`
	Reason string `json:"reason,omitempty"`
}

// ScreenResponse is either a view to render or a redirect when the screen's
// preconditions do not hold.
type ScreenResponse[T any] struct {
	Redirect cancelflow.Screen
	View     *T
}

// StepResult is the screen to go to after a submit.
type StepResult struct {
	Next cancelflow.Screen
}

type RedirectResponse struct {
	Screen   string `json:"screen"`
	Location string `json:"location"`
}
