package cancelflow

import (
	"fmt"
	"time"
)

const (
	DefaultDownsellDiscount = 1000
	DefaultAccessPeriodDays = 30
	DefaultFeedbackMinLen   = 25
)

// DownsellOffer is the discounted monthly price in minor units, never below zero.
func DownsellOffer(monthlyPrice, discount int) int {
	return max(0, monthlyPrice-discount)
}

// FormatDollars renders minor units as "$25.00".
func FormatDollars(cents int) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s$%d.%02d", sign, cents/100, cents%100)
}

// AccessUntil is the last day the user keeps access after cancelling.
func AccessUntil(subscriptionCreatedAt time.Time, periodDays int) time.Time {
	return subscriptionCreatedAt.AddDate(0, 0, periodDays)
}
