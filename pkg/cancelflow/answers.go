package cancelflow

import (
	"fmt"
	"regexp"
	"strings"

	"cancel-flow-be/internal/entity"
)

// Answer buckets offered on the job questions screen.
var (
	CountBuckets     = []string{"0", "1-5", "6-20", "20+"}
	InterviewBuckets = []string{"0", "1-2", "3-5", "5+"}
)

const (
	VisaYesPrompt = "What visa will you be applying for?"
	VisaNoPrompt  = "We can connect you with one of our trusted partners. Which visa would you like to apply for?"
)

type JobAnswers struct {
	WithMM     string
	Roles      string
	Emails     string
	Interviews string
}

// Summary is the value stored under the found_job key.
func (a JobAnswers) Summary() string {
	s := fmt.Sprintf("withMM=%s; roles=%s; emails=%s; interviews=%s", a.WithMM, a.Roles, a.Emails, a.Interviews)
	return Sanitize(s, MaxJobSummaryLen)
}

// VisaSegment is the value stored under the visa key.
func VisaSegment(reason, info string) string {
	info = Sanitize(info, MaxVisaInfoLen)
	if info == "" {
		return reason
	}
	return reason + "; " + info
}

// ValidFeedback reports whether trimmed feedback reaches the minimum length.
func ValidFeedback(feedback string, minLen int) bool {
	return len([]rune(strings.TrimSpace(feedback))) >= minLen
}

// pricePattern is a plain non-negative decimal: no exponent, sign or Inf/NaN.
var pricePattern = regexp.MustCompile(`^(\d+(\.\d*)?|\.\d+)$`)

// ValidUsageDetails checks the details required by a usage reason: a price for
// too_expensive, otherwise at least minLen characters.
func ValidUsageDetails(reason entity.CancellationReason, details string, minLen int) bool {
	details = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(details), "$"))
	if reason == entity.CancellationReasonTooExpensive {
		return pricePattern.MatchString(details)
	}
	return len([]rune(details)) >= minLen
}
