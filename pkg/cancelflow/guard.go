package cancelflow

import "cancel-flow-be/internal/entity"

// State is what a screen knows after reading the subscription and then its
// cancellation row.
type State struct {
	HasSubscription  bool
	HasCancellation  bool
	Status           entity.SubscriptionStatus
	Variant          entity.DownsellVariant
	AcceptedDownsell bool
	ReasonDetails    string
}

// Guard checks the preconditions of screen. When they do not hold it returns
// the earliest screen that can satisfy them and ok=false.
func Guard(screen Screen, state State) (redirect Screen, ok bool) {
	switch screen {
	case ScreenEntry, ScreenAccepted:
		return "", true
	}

	if !state.HasSubscription || !state.HasCancellation {
		return ScreenEntry, false
	}

	switch screen {
	case ScreenDownsell, ScreenUsage:
		if state.Variant != entity.DownsellVariantB || state.Status == entity.SubscriptionStatusCancelled {
			return ScreenConfirm, false
		}
		if state.AcceptedDownsell {
			return ScreenAccepted, false
		}
	case ScreenVisaRouter:
		next := VisaRoute(state.ReasonDetails)
		return next, false
	}

	return "", true
}
