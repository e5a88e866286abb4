// FILE: internal/service/cancellation_flow_service.go
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"cancel-flow-be/internal/config"
	"cancel-flow-be/internal/dto"
	"cancel-flow-be/internal/entity"
	"cancel-flow-be/internal/pkg/logger"
	"cancel-flow-be/internal/repository/unitofwork"
	"cancel-flow-be/pkg/cancelflow"
	"cancel-flow-be/pkg/flowevents"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const logModule = "CANCEL_FLOW"

var (
	ErrSubscriptionNotFound  = errors.New("subscription not found")
	ErrSubscriptionCancelled = errors.New("subscription already cancelled")
	ErrInvalidInput          = errors.New("invalid input")
	ErrIllegalTransition     = errors.New("illegal status transition")
)

type ICancellationFlowService interface {
	GetEntry(ctx context.Context, userId uuid.UUID) (*dto.EntryView, error)
	SubmitEntry(ctx context.Context, userId uuid.UUID, req *dto.EntryRequest) (*dto.StepResult, error)

	GetJobQuestions(ctx context.Context, userId uuid.UUID) (*dto.ScreenResponse[dto.JobQuestionsView], error)
	SubmitJobQuestions(ctx context.Context, userId uuid.UUID, req *dto.JobQuestionsRequest) (*dto.StepResult, error)

	GetFeedback(ctx context.Context, userId uuid.UUID) (*dto.ScreenResponse[dto.FeedbackView], error)
	SubmitFeedback(ctx context.Context, userId uuid.UUID, req *dto.FeedbackRequest) (*dto.StepResult, error)

	RouteVisa(ctx context.Context, userId uuid.UUID) (*dto.StepResult, error)
	GetVisa(ctx context.Context, userId uuid.UUID, withMM bool) (*dto.ScreenResponse[dto.VisaView], error)
	SubmitVisa(ctx context.Context, userId uuid.UUID, withMM bool, req *dto.VisaRequest) (*dto.StepResult, error)

	GetDownsell(ctx context.Context, userId uuid.UUID) (*dto.ScreenResponse[dto.DownsellView], error)
	SubmitDownsell(ctx context.Context, userId uuid.UUID, req *dto.DownsellRequest) (*dto.StepResult, error)

	GetUsage(ctx context.Context, userId uuid.UUID) (*dto.ScreenResponse[dto.UsageView], error)
	SubmitUsage(ctx context.Context, userId uuid.UUID, req *dto.UsageRequest) (*dto.StepResult, error)

	GetConfirm(ctx context.Context, userId uuid.UUID) (*dto.ScreenResponse[dto.ConfirmView], error)
	SubmitConfirm(ctx context.Context, userId uuid.UUID) (*dto.StepResult, error)

	GetAccepted(ctx context.Context, userId uuid.UUID) (*dto.AcceptedView, error)
	GetFinal(ctx context.Context, userId uuid.UUID, screen cancelflow.Screen) (*dto.ScreenResponse[dto.FinalView], error)

	// EnsureCancellation returns the subscription's cancellation row, creating it
	// with a fresh variant on first use. created is true only for the caller that
	// inserted the row.
	EnsureCancellation(ctx context.Context, subscription *entity.Subscription) (*entity.Cancellation, bool, error)
	// TransitionStatus moves the subscription from -> to if it is still in from.
	TransitionStatus(ctx context.Context, subscriptionId uuid.UUID, from, to entity.SubscriptionStatus) (bool, error)
}

type cancellationFlowService struct {
	uowFactory unitofwork.RepositoryFactory
	picker     cancelflow.VariantPicker
	publisher  flowevents.Publisher
	logger     logger.ILogger
	flow       config.FlowConfig
	tracer     trace.Tracer
}

func NewCancellationFlowService(
	uowFactory unitofwork.RepositoryFactory,
	picker cancelflow.VariantPicker,
	publisher flowevents.Publisher,
	logger logger.ILogger,
	flow config.FlowConfig,
) ICancellationFlowService {
	return &cancellationFlowService{
		uowFactory: uowFactory,
		picker:     picker,
		publisher:  publisher,
		logger:     logger,
		flow:       flow,
		tracer:     otel.Tracer("cancel-flow-be/service"),
	}
}

// flowState is what every step reads first: the latest subscription, then its
// cancellation row.
type flowState struct {
	subscription *entity.Subscription
	cancellation *entity.Cancellation
}

func (f *flowState) guardState() cancelflow.State {
	st := cancelflow.State{HasSubscription: f.subscription != nil}
	if f.subscription != nil {
		st.Status = f.subscription.Status
	}
	if f.cancellation != nil {
		st.HasCancellation = true
		st.Variant = f.cancellation.DownsellVariant
		st.AcceptedDownsell = f.cancellation.AcceptedDownsell
		st.ReasonDetails = f.cancellation.ReasonDetails
	}
	return st
}

func (s *cancellationFlowService) load(ctx context.Context, userId uuid.UUID) (*flowState, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	sub, err := uow.SubscriptionRepository().FindLatestByUserID(ctx, userId)
	if err != nil {
		s.logStoreError("load subscription", err, userId)
		return nil, err
	}
	state := &flowState{subscription: sub}
	if sub == nil {
		return state, nil
	}

	row, err := uow.CancellationRepository().FindBySubscriptionID(ctx, sub.Id)
	if err != nil {
		s.logStoreError("load cancellation", err, userId)
		return nil, err
	}
	state.cancellation = row
	return state, nil
}

// guarded loads the flow state and checks the screen's preconditions. A
// non-empty redirect means the screen must not run.
func (s *cancellationFlowService) guarded(ctx context.Context, userId uuid.UUID, screen cancelflow.Screen) (*flowState, cancelflow.Screen, error) {
	state, err := s.load(ctx, userId)
	if err != nil {
		return nil, "", err
	}
	if redirect, ok := cancelflow.Guard(screen, state.guardState()); !ok {
		return state, redirect, nil
	}
	return state, "", nil
}

func (s *cancellationFlowService) logStoreError(op string, err error, userId uuid.UUID) {
	s.logger.Error(logModule, "Store failure during "+op, map[string]interface{}{
		"error":   err.Error(),
		"user_id": userId.String(),
	})
}

func invalidInput(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

func (s *cancellationFlowService) offerView(monthlyPrice int) dto.OfferView {
	offer := cancelflow.DownsellOffer(monthlyPrice, s.flow.DownsellDiscount)
	return dto.OfferView{
		MonthlyPrice:        monthlyPrice,
		MonthlyPriceDisplay: cancelflow.FormatDollars(monthlyPrice),
		OfferPrice:          offer,
		OfferPriceDisplay:   cancelflow.FormatDollars(offer),
	}
}

func (s *cancellationFlowService) patch(ctx context.Context, row *entity.Cancellation, p entity.CancellationPatch) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.CancellationRepository().Update(ctx, row.Id, p); err != nil {
		s.logStoreError("update cancellation", err, row.UserId)
		return err
	}
	return nil
}

// --- Entry ---

func (s *cancellationFlowService) GetEntry(ctx context.Context, userId uuid.UUID) (*dto.EntryView, error) {
	state, err := s.load(ctx, userId)
	if err != nil {
		return nil, err
	}
	if state.subscription == nil {
		return nil, ErrSubscriptionNotFound
	}

	sub := state.subscription
	view := &dto.EntryView{
		Subscription: dto.SubscriptionView{
			Id:                  sub.Id,
			MonthlyPrice:        sub.MonthlyPrice,
			MonthlyPriceDisplay: cancelflow.FormatDollars(sub.MonthlyPrice),
			Status:              string(sub.Status),
		},
	}
	if state.cancellation != nil {
		id := state.cancellation.Id
		view.CancellationId = &id
		view.Variant = string(state.cancellation.DownsellVariant)
	}
	return view, nil
}

func (s *cancellationFlowService) SubmitEntry(ctx context.Context, userId uuid.UUID, req *dto.EntryRequest) (*dto.StepResult, error) {
	answer := cancelflow.EntryAnswer(req.Answer)
	if answer != cancelflow.EntryAnswerFoundJob && answer != cancelflow.EntryAnswerStillLooking {
		return nil, invalidInput("unknown answer %q", req.Answer)
	}

	state, err := s.load(ctx, userId)
	if err != nil {
		return nil, err
	}
	if state.subscription == nil {
		return nil, ErrSubscriptionNotFound
	}
	if state.subscription.Status == entity.SubscriptionStatusCancelled {
		// a finished flow lands on its confirmation; only a subscription
		// cancelled outside the flow is refused
		if state.cancellation != nil {
			return &dto.StepResult{Next: cancelflow.ScreenConfirm}, nil
		}
		return nil, ErrSubscriptionCancelled
	}

	row, _, err := s.EnsureCancellation(ctx, state.subscription)
	if err != nil {
		return nil, err
	}

	return &dto.StepResult{Next: cancelflow.AfterEntry(answer, row.DownsellVariant)}, nil
}

func (s *cancellationFlowService) EnsureCancellation(ctx context.Context, subscription *entity.Subscription) (*entity.Cancellation, bool, error) {
	ctx, span := s.tracer.Start(ctx, "CancellationFlow.EnsureCancellation",
		trace.WithAttributes(attribute.String("subscription.id", subscription.Id.String())))
	defer span.End()

	existing, err := s.uowFactory.NewUnitOfWork(ctx).CancellationRepository().FindBySubscriptionID(ctx, subscription.Id)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "find cancellation")
		s.logStoreError("find cancellation", err, subscription.UserId)
		return nil, false, err
	}
	if existing != nil {
		span.SetAttributes(attribute.Bool("cancellation.created", false))
		return existing, false, nil
	}

	row := &entity.Cancellation{
		Id:              uuid.New(),
		UserId:          subscription.UserId,
		SubscriptionId:  subscription.Id,
		DownsellVariant: s.picker.Pick(),
	}

	created, moved, err := s.insertCancellation(ctx, row)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "insert cancellation")
		s.logStoreError("insert cancellation", err, subscription.UserId)
		return nil, false, err
	}
	span.SetAttributes(attribute.Bool("cancellation.created", created))

	if !created {
		// lost the race: the winner's row is the one that counts
		winner, err := s.uowFactory.NewUnitOfWork(ctx).CancellationRepository().FindBySubscriptionID(ctx, subscription.Id)
		if err != nil {
			s.logStoreError("re-read cancellation", err, subscription.UserId)
			return nil, false, err
		}
		if winner == nil {
			return nil, false, fmt.Errorf("cancellation for subscription %s vanished after conflict", subscription.Id)
		}
		return winner, false, nil
	}

	s.logger.Info(logModule, "Cancellation started", map[string]interface{}{
		"cancellation_id":  row.Id.String(),
		"subscription_id":  subscription.Id.String(),
		"user_id":          subscription.UserId.String(),
		"downsell_variant": string(row.DownsellVariant),
		"status_moved":     moved,
	})
	s.publisher.PublishCancellationStarted(ctx, row)
	if moved {
		s.publisher.PublishStatusChanged(ctx, subscription.Id, subscription.UserId,
			entity.SubscriptionStatusActive, entity.SubscriptionStatusPendingCancellation)
	}

	return row, true, nil
}

// insertCancellation inserts the row and, only if this call created it, moves
// the subscription to pending_cancellation in the same unit of work.
func (s *cancellationFlowService) insertCancellation(ctx context.Context, row *entity.Cancellation) (created, moved bool, err error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return false, false, err
	}
	defer uow.Rollback()

	created, err = uow.CancellationRepository().CreateIfAbsent(ctx, row)
	if err != nil {
		return false, false, err
	}
	if created {
		moved, err = uow.SubscriptionRepository().TransitionStatus(ctx, row.SubscriptionId,
			entity.SubscriptionStatusActive, entity.SubscriptionStatusPendingCancellation)
		if err != nil {
			return false, false, err
		}
	}

	if err := uow.Commit(); err != nil {
		return false, false, err
	}
	return created, moved, nil
}

// --- Status ---

func (s *cancellationFlowService) TransitionStatus(ctx context.Context, subscriptionId uuid.UUID, from, to entity.SubscriptionStatus) (bool, error) {
	sub, err := s.uowFactory.NewUnitOfWork(ctx).SubscriptionRepository().FindOneSubscription(ctx, subscriptionId)
	if err != nil {
		return false, err
	}
	if sub == nil {
		return false, ErrSubscriptionNotFound
	}
	return s.transition(ctx, sub, from, to)
}

func (s *cancellationFlowService) transition(ctx context.Context, sub *entity.Subscription, from, to entity.SubscriptionStatus) (bool, error) {
	ctx, span := s.tracer.Start(ctx, "CancellationFlow.TransitionStatus", trace.WithAttributes(
		attribute.String("subscription.id", sub.Id.String()),
		attribute.String("status.from", string(from)),
		attribute.String("status.to", string(to)),
	))
	defer span.End()

	if !cancelflow.CanTransition(from, to) {
		span.SetStatus(codes.Error, "illegal transition")
		return false, fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, from, to)
	}

	moved, err := s.uowFactory.NewUnitOfWork(ctx).SubscriptionRepository().TransitionStatus(ctx, sub.Id, from, to)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "transition status")
		s.logStoreError("transition status", err, sub.UserId)
		return false, err
	}
	span.SetAttributes(attribute.Bool("status.moved", moved))

	if moved {
		s.logger.Info(logModule, "Subscription status changed", map[string]interface{}{
			"subscription_id": sub.Id.String(),
			"from":            string(from),
			"to":              string(to),
		})
		s.publisher.PublishStatusChanged(ctx, sub.Id, sub.UserId, from, to)
	}
	return moved, nil
}

// finalize cancels the subscription from wherever it currently is. It is a
// no-op when the subscription is already cancelled.
func (s *cancellationFlowService) finalize(ctx context.Context, sub *entity.Subscription) error {
	for _, step := range cancelflow.FinalizeSteps {
		moved, err := s.transition(ctx, sub, step.From, step.To)
		if err != nil {
			return err
		}
		if moved {
			return nil
		}
	}
	return nil
}

// acceptDownsell reactivates the subscription and records the acceptance. When
// the subscription was cancelled since the guard ran nothing is written and
// the user is sent to Confirm.
func (s *cancellationFlowService) acceptDownsell(ctx context.Context, state *flowState) (cancelflow.Screen, error) {
	sub := state.subscription
	moved, err := s.transition(ctx, sub,
		entity.SubscriptionStatusPendingCancellation, entity.SubscriptionStatusActive)
	if err != nil {
		return "", err
	}
	if !moved {
		current, err := s.uowFactory.NewUnitOfWork(ctx).SubscriptionRepository().FindOneSubscription(ctx, sub.Id)
		if err != nil {
			s.logStoreError("reload subscription", err, sub.UserId)
			return "", err
		}
		if current == nil || current.Status == entity.SubscriptionStatusCancelled {
			return cancelflow.ScreenConfirm, nil
		}
	}

	accepted := true
	if err := s.patch(ctx, state.cancellation, entity.CancellationPatch{AcceptedDownsell: &accepted}); err != nil {
		return "", err
	}

	price := sub.MonthlyPrice
	s.publisher.PublishDownsellAccepted(ctx, state.cancellation, price,
		cancelflow.DownsellOffer(price, s.flow.DownsellDiscount))
	return cancelflow.ScreenAccepted, nil
}

// --- Job path ---

func (s *cancellationFlowService) GetJobQuestions(ctx context.Context, userId uuid.UUID) (*dto.ScreenResponse[dto.JobQuestionsView], error) {
	_, redirect, err := s.guarded(ctx, userId, cancelflow.ScreenJobQuestions)
	if err != nil {
		return nil, err
	}
	if redirect != "" {
		return &dto.ScreenResponse[dto.JobQuestionsView]{Redirect: redirect}, nil
	}
	return &dto.ScreenResponse[dto.JobQuestionsView]{View: &dto.JobQuestionsView{
		RoleOptions:      cancelflow.CountBuckets,
		EmailOptions:     cancelflow.CountBuckets,
		InterviewOptions: cancelflow.InterviewBuckets,
	}}, nil
}

func (s *cancellationFlowService) SubmitJobQuestions(ctx context.Context, userId uuid.UUID, req *dto.JobQuestionsRequest) (*dto.StepResult, error) {
	state, redirect, err := s.guarded(ctx, userId, cancelflow.ScreenJobQuestions)
	if err != nil {
		return nil, err
	}
	if redirect != "" {
		return &dto.StepResult{Next: redirect}, nil
	}

	answers := cancelflow.JobAnswers{
		WithMM:     req.WithMM,
		Roles:      req.Roles,
		Emails:     req.Emails,
		Interviews: req.Interviews,
	}
	details := cancelflow.ReplaceSegment(state.cancellation.ReasonDetails,
		cancelflow.KeyFoundJob, cancelflow.SepColon, answers.Summary())
	reason := entity.CancellationReasonFoundJob

	if err := s.patch(ctx, state.cancellation, entity.CancellationPatch{
		Reason:        &reason,
		ReasonDetails: &details,
	}); err != nil {
		return nil, err
	}
	return &dto.StepResult{Next: cancelflow.ScreenFeedback}, nil
}

func (s *cancellationFlowService) GetFeedback(ctx context.Context, userId uuid.UUID) (*dto.ScreenResponse[dto.FeedbackView], error) {
	_, redirect, err := s.guarded(ctx, userId, cancelflow.ScreenFeedback)
	if err != nil {
		return nil, err
	}
	if redirect != "" {
		return &dto.ScreenResponse[dto.FeedbackView]{Redirect: redirect}, nil
	}
	return &dto.ScreenResponse[dto.FeedbackView]{View: &dto.FeedbackView{MinLength: s.flow.FeedbackMinLength}}, nil
}

func (s *cancellationFlowService) SubmitFeedback(ctx context.Context, userId uuid.UUID, req *dto.FeedbackRequest) (*dto.StepResult, error) {
	if !cancelflow.ValidFeedback(req.Feedback, s.flow.FeedbackMinLength) {
		return nil, invalidInput("feedback must be at least %d characters", s.flow.FeedbackMinLength)
	}

	state, redirect, err := s.guarded(ctx, userId, cancelflow.ScreenFeedback)
	if err != nil {
		return nil, err
	}
	if redirect != "" {
		return &dto.StepResult{Next: redirect}, nil
	}

	details := cancelflow.ReplaceSegment(state.cancellation.ReasonDetails,
		cancelflow.KeyJobFeedback, cancelflow.SepEquals,
		cancelflow.Sanitize(req.Feedback, cancelflow.MaxFeedbackLen))

	if err := s.patch(ctx, state.cancellation, entity.CancellationPatch{ReasonDetails: &details}); err != nil {
		return nil, err
	}
	return &dto.StepResult{Next: cancelflow.ScreenVisaRouter}, nil
}

func (s *cancellationFlowService) RouteVisa(ctx context.Context, userId uuid.UUID) (*dto.StepResult, error) {
	_, redirect, err := s.guarded(ctx, userId, cancelflow.ScreenVisaRouter)
	if err != nil {
		return nil, err
	}
	return &dto.StepResult{Next: redirect}, nil
}

func visaScreen(withMM bool) cancelflow.Screen {
	if withMM {
		return cancelflow.ScreenVisaMM
	}
	return cancelflow.ScreenVisaNoMM
}

func (s *cancellationFlowService) GetVisa(ctx context.Context, userId uuid.UUID, withMM bool) (*dto.ScreenResponse[dto.VisaView], error) {
	_, redirect, err := s.guarded(ctx, userId, visaScreen(withMM))
	if err != nil {
		return nil, err
	}
	if redirect != "" {
		return &dto.ScreenResponse[dto.VisaView]{Redirect: redirect}, nil
	}
	return &dto.ScreenResponse[dto.VisaView]{View: &dto.VisaView{
		WithMM:    withMM,
		YesPrompt: cancelflow.VisaYesPrompt,
		NoPrompt:  cancelflow.VisaNoPrompt,
	}}, nil
}

func (s *cancellationFlowService) SubmitVisa(ctx context.Context, userId uuid.UUID, withMM bool, req *dto.VisaRequest) (*dto.StepResult, error) {
	reason := entity.CancellationReason(req.Reason)
	if reason != entity.CancellationReasonVisaYes && reason != entity.CancellationReasonVisaNo {
		return nil, invalidInput("unknown visa reason %q", req.Reason)
	}

	state, redirect, err := s.guarded(ctx, userId, visaScreen(withMM))
	if err != nil {
		return nil, err
	}
	if redirect != "" {
		return &dto.StepResult{Next: redirect}, nil
	}

	details := cancelflow.ReplaceSegment(state.cancellation.ReasonDetails,
		cancelflow.KeyVisa, cancelflow.SepColon, cancelflow.VisaSegment(req.Reason, req.VisaInfo))
	accepted := false

	if err := s.patch(ctx, state.cancellation, entity.CancellationPatch{
		Reason:           &reason,
		ReasonDetails:    &details,
		AcceptedDownsell: &accepted,
	}); err != nil {
		return nil, err
	}
	if err := s.finalize(ctx, state.subscription); err != nil {
		return nil, err
	}
	return &dto.StepResult{Next: cancelflow.AfterVisa(reason)}, nil
}

// --- Downsell path ---

func (s *cancellationFlowService) GetDownsell(ctx context.Context, userId uuid.UUID) (*dto.ScreenResponse[dto.DownsellView], error) {
	state, redirect, err := s.guarded(ctx, userId, cancelflow.ScreenDownsell)
	if err != nil {
		return nil, err
	}
	if redirect != "" {
		return &dto.ScreenResponse[dto.DownsellView]{Redirect: redirect}, nil
	}
	return &dto.ScreenResponse[dto.DownsellView]{View: &dto.DownsellView{
		OfferView: s.offerView(state.subscription.MonthlyPrice),
	}}, nil
}

func (s *cancellationFlowService) SubmitDownsell(ctx context.Context, userId uuid.UUID, req *dto.DownsellRequest) (*dto.StepResult, error) {
	action := cancelflow.DownsellAction(req.Action)
	if action != cancelflow.DownsellAccept && action != cancelflow.DownsellDecline {
		return nil, invalidInput("unknown downsell action %q", req.Action)
	}

	state, redirect, err := s.guarded(ctx, userId, cancelflow.ScreenDownsell)
	if err != nil {
		return nil, err
	}
	if redirect != "" {
		return &dto.StepResult{Next: redirect}, nil
	}

	if action == cancelflow.DownsellAccept {
		next, err := s.acceptDownsell(ctx, state)
		if err != nil {
			return nil, err
		}
		return &dto.StepResult{Next: next}, nil
	}

	accepted := false
	if err := s.patch(ctx, state.cancellation, entity.CancellationPatch{AcceptedDownsell: &accepted}); err != nil {
		return nil, err
	}
	s.publisher.PublishDownsellDeclined(ctx, state.cancellation)
	return &dto.StepResult{Next: cancelflow.AfterDownsell(action)}, nil
}

var usageReasons = []entity.CancellationReason{
	entity.CancellationReasonTooExpensive,
	entity.CancellationReasonPlatformNotHelpful,
	entity.CancellationReasonNotEnoughJobs,
	entity.CancellationReasonDecidedNotToMove,
	entity.CancellationReasonOther,
}

func isUsageReason(r entity.CancellationReason) bool {
	for _, u := range usageReasons {
		if u == r {
			return true
		}
	}
	return false
}

func (s *cancellationFlowService) GetUsage(ctx context.Context, userId uuid.UUID) (*dto.ScreenResponse[dto.UsageView], error) {
	state, redirect, err := s.guarded(ctx, userId, cancelflow.ScreenUsage)
	if err != nil {
		return nil, err
	}
	if redirect != "" {
		return &dto.ScreenResponse[dto.UsageView]{Redirect: redirect}, nil
	}

	reasons := make([]string, 0, len(usageReasons))
	for _, r := range usageReasons {
		reasons = append(reasons, string(r))
	}
	return &dto.ScreenResponse[dto.UsageView]{View: &dto.UsageView{
		OfferView:        s.offerView(state.subscription.MonthlyPrice),
		Reasons:          reasons,
		MinDetailsLength: s.flow.FeedbackMinLength,
	}}, nil
}

func (s *cancellationFlowService) SubmitUsage(ctx context.Context, userId uuid.UUID, req *dto.UsageRequest) (*dto.StepResult, error) {
	action := cancelflow.UsageAction(req.Action)
	reason := entity.CancellationReason(req.Reason)

	switch action {
	case cancelflow.UsageAccept:
	case cancelflow.UsageContinue:
		if !isUsageReason(reason) {
			return nil, invalidInput("unknown usage reason %q", req.Reason)
		}
		if !cancelflow.ValidUsageDetails(reason, req.Details, s.flow.FeedbackMinLength) {
			if reason == entity.CancellationReasonTooExpensive {
				return nil, invalidInput("details must be a price")
			}
			return nil, invalidInput("details must be at least %d characters", s.flow.FeedbackMinLength)
		}
	default:
		return nil, invalidInput("unknown usage action %q", req.Action)
	}

	state, redirect, err := s.guarded(ctx, userId, cancelflow.ScreenUsage)
	if err != nil {
		return nil, err
	}
	if redirect != "" {
		return &dto.StepResult{Next: redirect}, nil
	}

	if action == cancelflow.UsageAccept {
		next, err := s.acceptDownsell(ctx, state)
		if err != nil {
			return nil, err
		}
		return &dto.StepResult{Next: next}, nil
	}

	details := cancelflow.ReplaceSegment(state.cancellation.ReasonDetails,
		cancelflow.KeyUsageDetails, cancelflow.SepEquals,
		cancelflow.Sanitize(strings.TrimSpace(req.Details), cancelflow.MaxUsageDetailsLen))
	accepted := false

	if err := s.patch(ctx, state.cancellation, entity.CancellationPatch{
		Reason:           &reason,
		ReasonDetails:    &details,
		AcceptedDownsell: &accepted,
	}); err != nil {
		return nil, err
	}
	return &dto.StepResult{Next: cancelflow.AfterUsage(action)}, nil
}

// --- Terminal screens ---

func (s *cancellationFlowService) GetConfirm(ctx context.Context, userId uuid.UUID) (*dto.ScreenResponse[dto.ConfirmView], error) {
	state, redirect, err := s.guarded(ctx, userId, cancelflow.ScreenConfirm)
	if err != nil {
		return nil, err
	}
	if redirect != "" {
		return &dto.ScreenResponse[dto.ConfirmView]{Redirect: redirect}, nil
	}

	sub := state.subscription
	return &dto.ScreenResponse[dto.ConfirmView]{View: &dto.ConfirmView{
		Status:      string(sub.Status),
		Cancelled:   sub.Status == entity.SubscriptionStatusCancelled,
		AccessUntil: cancelflow.AccessUntil(sub.CreatedAt, s.flow.AccessPeriodDays),
	}}, nil
}

func (s *cancellationFlowService) SubmitConfirm(ctx context.Context, userId uuid.UUID) (*dto.StepResult, error) {
	state, redirect, err := s.guarded(ctx, userId, cancelflow.ScreenConfirm)
	if err != nil {
		return nil, err
	}
	if redirect != "" {
		return &dto.StepResult{Next: redirect}, nil
	}

	if err := s.finalize(ctx, state.subscription); err != nil {
		return nil, err
	}
	return &dto.StepResult{Next: cancelflow.ScreenConfirm}, nil
}

func (s *cancellationFlowService) GetAccepted(ctx context.Context, userId uuid.UUID) (*dto.AcceptedView, error) {
	state, err := s.load(ctx, userId)
	if err != nil {
		return nil, err
	}
	if state.subscription == nil {
		return &dto.AcceptedView{OfferView: s.offerView(0)}, nil
	}
	return &dto.AcceptedView{
		OfferView: s.offerView(state.subscription.MonthlyPrice),
		Status:    string(state.subscription.Status),
	}, nil
}

func (s *cancellationFlowService) GetFinal(ctx context.Context, userId uuid.UUID, screen cancelflow.Screen) (*dto.ScreenResponse[dto.FinalView], error) {
	if screen != cancelflow.ScreenHelp && screen != cancelflow.ScreenDone {
		return nil, invalidInput("unknown final screen %q", screen)
	}

	state, redirect, err := s.guarded(ctx, userId, screen)
	if err != nil {
		return nil, err
	}
	if redirect != "" {
		return &dto.ScreenResponse[dto.FinalView]{Redirect: redirect}, nil
	}
	return &dto.ScreenResponse[dto.FinalView]{View: &dto.FinalView{
		Screen: string(screen),
		Reason: string(state.cancellation.Reason),
	}}, nil
}
