// Package machine holds the checkout state machine: a pure reducer over
// (State, Action) pairs plus the predicates derived from the state.
//
// The transition table is data, not branching: any (state, action) pair
// absent from the table leaves the state unchanged, which makes the
// "no-op on unhandled pair" rule structural.
package machine

import "github.com/Victor-armando18/service-checkout/internal/domain"

type transitionKey struct {
	From domain.State
	On   domain.ActionKind
}

var transitions = map[transitionKey]domain.State{
	// cart-loaded a partir de CartLoading é resolvido em Reduce, pois
	// depende do payload (carrinho vazio ou não).
	{domain.StateCartLoading, domain.ActionCartEmpty}: domain.StateCartEmpty,

	{domain.StateAddressEntry, domain.ActionAddressSubmitted}: domain.StateShippingCalculation,

	{domain.StateShippingCalculation, domain.ActionShippingOptionsLoaded}: domain.StateShippingSelection,
	{domain.StateShippingCalculation, domain.ActionShippingOptionsError}:  domain.StateShippingError,

	{domain.StateShippingSelection, domain.ActionShippingSelected}: domain.StateShippingApplying,
	{domain.StateShippingSelection, domain.ActionEditAddress}:      domain.StateAddressEntry,

	{domain.StateShippingApplying, domain.ActionShippingApplied}:    domain.StateCartFinalized,
	{domain.StateShippingApplying, domain.ActionShippingApplyError}: domain.StateShippingError,

	{domain.StateCartFinalized, domain.ActionProceedToPayment}: domain.StatePaymentIntentCreating,
	{domain.StateCartFinalized, domain.ActionEditAddress}:      domain.StateAddressEntry,
	{domain.StateCartFinalized, domain.ActionEditShipping}:     domain.StateShippingSelection,

	{domain.StatePaymentIntentCreating, domain.ActionPaymentIntentCreated}: domain.StatePaymentReady,
	{domain.StatePaymentIntentCreating, domain.ActionPaymentIntentError}:   domain.StatePaymentIntentError,

	{domain.StatePaymentReady, domain.ActionPaymentSubmitted}: domain.StatePaymentProcessing,
	{domain.StatePaymentReady, domain.ActionStartOver}:        domain.StateCartLoading,

	{domain.StatePaymentProcessing, domain.ActionPaymentSuccess}: domain.StatePaymentSuccess,
	{domain.StatePaymentProcessing, domain.ActionPaymentFailed}:  domain.StatePaymentFailed,

	// retry reutiliza o payment handle existente; a criação do intent
	// nunca é repetida (responsabilidade do coordenador).
	{domain.StatePaymentFailed, domain.ActionRetry}:     domain.StatePaymentReady,
	{domain.StatePaymentFailed, domain.ActionStartOver}: domain.StateCartLoading,

	{domain.StateShippingError, domain.ActionRetry}:       domain.StateShippingCalculation,
	{domain.StateShippingError, domain.ActionEditAddress}: domain.StateAddressEntry,

	{domain.StatePaymentIntentError, domain.ActionRetry}:     domain.StatePaymentIntentCreating,
	{domain.StatePaymentIntentError, domain.ActionStartOver}: domain.StateCartLoading,
}

// Reduce maps (state, action) to the next state. Pure and total: every
// pair not present in the transition table is a no-op.
func Reduce(state domain.State, action domain.Action) domain.State {
	if action.Kind == domain.ActionCartLoaded {
		if state != domain.StateCartLoading {
			return state
		}
		if action.Cart.IsEmpty() {
			return domain.StateCartEmpty
		}
		return domain.StateAddressEntry
	}

	if next, ok := transitions[transitionKey{From: state, On: action.Kind}]; ok {
		return next
	}
	return state
}

// HasTransition reports whether the table defines an outgoing edge for
// the pair. cart-loaded is only valid from CartLoading.
func HasTransition(state domain.State, kind domain.ActionKind) bool {
	if kind == domain.ActionCartLoaded {
		return state == domain.StateCartLoading
	}
	_, ok := transitions[transitionKey{From: state, On: kind}]
	return ok
}

// IsLocked reports whether cart contents, address and shipping may no
// longer be edited without explicit confirmation and restart: a payment
// session is already secured (or being secured) for these states.
func IsLocked(state domain.State) bool {
	switch state {
	case domain.StatePaymentIntentCreating,
		domain.StatePaymentReady,
		domain.StatePaymentProcessing,
		domain.StatePaymentSuccess,
		domain.StatePaymentFailed:
		return true
	}
	return false
}

// CanEditAddress gates the "edit address" control.
func CanEditAddress(state domain.State) bool {
	switch state {
	case domain.StateAddressEntry, domain.StateShippingSelection, domain.StateCartFinalized:
		return true
	}
	return false
}

// CanEditShipping gates the "edit shipping" control.
func CanEditShipping(state domain.State) bool {
	switch state {
	case domain.StateShippingSelection, domain.StateCartFinalized:
		return true
	}
	return false
}
