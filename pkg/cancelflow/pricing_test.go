package cancelflow

import (
	"strings"
	"testing"
	"time"

	"cancel-flow-be/internal/entity"

	"github.com/stretchr/testify/assert"
)

func TestDownsellOffer(t *testing.T) {
	assert.Equal(t, 1500, DownsellOffer(2500, DefaultDownsellDiscount))
	assert.Equal(t, 2900, DownsellOffer(3900, DefaultDownsellDiscount))
	assert.Equal(t, 0, DownsellOffer(500, DefaultDownsellDiscount))
	assert.Equal(t, 0, DownsellOffer(1000, DefaultDownsellDiscount))
}

func TestFormatDollars(t *testing.T) {
	tests := []struct {
		cents int
		want  string
	}{
		{2500, "$25.00"},
		{1500, "$15.00"},
		{5, "$0.05"},
		{0, "$0.00"},
		{123456, "$1234.56"},
		{-250, "-$2.50"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatDollars(tt.cents))
	}
}

func TestAccessUntil(t *testing.T) {
	created := time.Date(2025, 1, 15, 10, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2025, 2, 14, 10, 0, 0, 0, time.UTC), AccessUntil(created, DefaultAccessPeriodDays))
}

func TestSanitize(t *testing.T) {
	assert.Equal(t, "scriptalert(1)/script", Sanitize(`<script>alert(1)</script>`, 500))
	assert.Equal(t, "a  b  c", Sanitize("a & b | c", 500))
	assert.Equal(t, "quoted", Sanitize("\"quoted`", 500))
	assert.Equal(t, "abc", Sanitize("abcdef", 3))
	assert.Equal(t, "héll", Sanitize("héllo", 4))
	assert.Len(t, []rune(Sanitize(strings.Repeat("x", 600), MaxFeedbackLen)), MaxFeedbackLen)
}

func TestJobAnswersSummary(t *testing.T) {
	a := JobAnswers{WithMM: "no", Roles: "1-5", Emails: "0", Interviews: "3-5"}
	assert.Equal(t, "withMM=no; roles=1-5; emails=0; interviews=3-5", a.Summary())
}

func TestVisaSegment(t *testing.T) {
	assert.Equal(t, "visa_no", VisaSegment("visa_no", "  "))
	assert.Equal(t, "visa_yes; H-1B", VisaSegment("visa_yes", "<H-1B>"))
}

func TestValidation(t *testing.T) {
	assert.False(t, ValidFeedback("   too short   ", DefaultFeedbackMinLen))
	assert.True(t, ValidFeedback(strings.Repeat("a", 25), DefaultFeedbackMinLen))

	assert.True(t, ValidUsageDetails(entity.CancellationReasonTooExpensive, "$12.50", DefaultFeedbackMinLen))
	assert.True(t, ValidUsageDetails(entity.CancellationReasonTooExpensive, "10", DefaultFeedbackMinLen))
	assert.False(t, ValidUsageDetails(entity.CancellationReasonTooExpensive, "cheap", DefaultFeedbackMinLen))
	for _, notAPrice := range []string{"Inf", "+Inf", "$inf", "NaN", "1e999", "1e3", "-5", "0x10", ""} {
		assert.False(t, ValidUsageDetails(entity.CancellationReasonTooExpensive, notAPrice, DefaultFeedbackMinLen), notAPrice)
	}
	assert.True(t, ValidUsageDetails(entity.CancellationReasonTooExpensive, "$ 9.", DefaultFeedbackMinLen))
	assert.False(t, ValidUsageDetails(entity.CancellationReasonOther, "meh", DefaultFeedbackMinLen))
	assert.True(t, ValidUsageDetails(entity.CancellationReasonOther, strings.Repeat("b", 30), DefaultFeedbackMinLen))
}

func TestFixedPicker(t *testing.T) {
	assert.Equal(t, entity.DownsellVariantB, FixedPicker(entity.DownsellVariantB).Pick())
}

func TestRandomPickerReturnsValidVariant(t *testing.T) {
	p := NewRandomPicker()
	seen := map[entity.DownsellVariant]bool{}
	for i := 0; i < 200; i++ {
		v := p.Pick()
		assert.True(t, v.IsValid())
		seen[v] = true
	}
	assert.Len(t, seen, 2)
}
