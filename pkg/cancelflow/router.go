package cancelflow

import (
	"regexp"
	"strings"

	"cancel-flow-be/internal/entity"
)

type EntryAnswer string

const (
	EntryAnswerFoundJob     EntryAnswer = "found_job"
	EntryAnswerStillLooking EntryAnswer = "still_looking"
)

type DownsellAction string

const (
	DownsellAccept  DownsellAction = "accept"
	DownsellDecline DownsellAction = "decline"
)

type UsageAction string

const (
	UsageContinue UsageAction = "continue"
	UsageAccept   UsageAction = "accept"
)

var withMMPattern = regexp.MustCompile(`(?i)\bwithMM=(yes|no)\b`)

func AfterEntry(answer EntryAnswer, variant entity.DownsellVariant) Screen {
	if answer == EntryAnswerFoundJob {
		return ScreenJobQuestions
	}
	if variant == entity.DownsellVariantB {
		return ScreenDownsell
	}
	return ScreenConfirm
}

// VisaRoute branches on the last withMM marker of the found_job segment. Other
// segments hold free text and are never read.
func VisaRoute(reasonDetails string) Screen {
	jobSummary, ok := ParseDetails(reasonDetails).Get(KeyFoundJob)
	if !ok {
		return ScreenJobQuestions
	}
	matches := withMMPattern.FindAllStringSubmatch(jobSummary, -1)
	if len(matches) == 0 {
		return ScreenJobQuestions
	}
	if strings.EqualFold(matches[len(matches)-1][1], "yes") {
		return ScreenVisaMM
	}
	return ScreenVisaNoMM
}

func AfterVisa(reason entity.CancellationReason) Screen {
	if reason == entity.CancellationReasonVisaNo {
		return ScreenHelp
	}
	return ScreenDone
}

func AfterDownsell(action DownsellAction) Screen {
	if action == DownsellAccept {
		return ScreenAccepted
	}
	return ScreenUsage
}

func AfterUsage(action UsageAction) Screen {
	if action == UsageAccept {
		return ScreenAccepted
	}
	return ScreenConfirm
}

// Transition is a compare-and-swap step on subscription status.
type Transition struct {
	From entity.SubscriptionStatus
	To   entity.SubscriptionStatus
}

var allowedTransitions = map[Transition]bool{
	{entity.SubscriptionStatusActive, entity.SubscriptionStatusPendingCancellation}:    true,
	{entity.SubscriptionStatusPendingCancellation, entity.SubscriptionStatusCancelled}: true,
	{entity.SubscriptionStatusActive, entity.SubscriptionStatusCancelled}:              true,
	// downsell accepted
	{entity.SubscriptionStatusPendingCancellation, entity.SubscriptionStatusActive}: true,
}

// CanTransition reports whether from -> to is a legal status move. Nothing
// leaves cancelled.
func CanTransition(from, to entity.SubscriptionStatus) bool {
	return allowedTransitions[Transition{From: from, To: to}]
}

// FinalizeSteps are tried in order to cancel a subscription from wherever it is.
var FinalizeSteps = []Transition{
	{entity.SubscriptionStatusPendingCancellation, entity.SubscriptionStatusCancelled},
	{entity.SubscriptionStatusActive, entity.SubscriptionStatusCancelled},
}
