// Package checkout exposes the presentation-binding contract: which
// view each checkout state renders and which controls stay enabled.
package checkout

import (
	"github.com/Victor-armando18/service-checkout/internal/domain"
	"github.com/Victor-armando18/service-checkout/internal/domain/machine"
)

type View string

const (
	ViewLoading         View = "loading"
	ViewEmptyCart       View = "empty-cart"
	ViewAddressForm     View = "address-form"
	ViewShippingOptions View = "shipping-options"
	ViewOrderSummary    View = "order-summary"
	ViewPayment         View = "payment"
	ViewConfirmation    View = "confirmation"
	ViewShippingError   View = "shipping-error"
	ViewPaymentError    View = "payment-error"
)

// Binding é o contrato devolvido à camada de apresentação: a view a
// renderizar e os controlos permitidos no estado atual. Busy indica uma
// operação em curso (a view mostra progresso e desativa submissões).
type Binding struct {
	State               string `json:"state"`
	View                View   `json:"view"`
	Busy                bool   `json:"busy"`
	Locked              bool   `json:"locked"`
	CanSubmitAddress    bool   `json:"can_submit_address"`
	CanSelectShipping   bool   `json:"can_select_shipping"`
	CanProceedToPayment bool   `json:"can_proceed_to_payment"`
	CanSubmitPayment    bool   `json:"can_submit_payment"`
	CanEditAddress      bool   `json:"can_edit_address"`
	CanEditShipping     bool   `json:"can_edit_shipping"`
	CanRetry            bool   `json:"can_retry"`
	CanStartOver        bool   `json:"can_start_over"`
}

var views = map[domain.State]struct {
	view View
	busy bool
}{
	domain.StateCartLoading:           {ViewLoading, true},
	domain.StateCartEmpty:             {ViewEmptyCart, false},
	domain.StateAddressEntry:          {ViewAddressForm, false},
	domain.StateShippingCalculation:   {ViewShippingOptions, true},
	domain.StateShippingSelection:     {ViewShippingOptions, false},
	domain.StateShippingApplying:      {ViewShippingOptions, true},
	domain.StateCartFinalized:         {ViewOrderSummary, false},
	domain.StatePaymentIntentCreating: {ViewPayment, true},
	domain.StatePaymentReady:          {ViewPayment, false},
	domain.StatePaymentProcessing:     {ViewPayment, true},
	domain.StatePaymentSuccess:        {ViewConfirmation, false},
	domain.StatePaymentFailed:         {ViewPaymentError, false},
	domain.StateShippingError:         {ViewShippingError, false},
	domain.StatePaymentIntentError:    {ViewPaymentError, false},
}

// For seleciona a view e os controlos para um estado.
func For(state domain.State) Binding {
	v := views[state]
	return Binding{
		State:               state.String(),
		View:                v.view,
		Busy:                v.busy,
		Locked:              machine.IsLocked(state),
		CanSubmitAddress:    state == domain.StateAddressEntry,
		CanSelectShipping:   state == domain.StateShippingSelection,
		CanProceedToPayment: state == domain.StateCartFinalized,
		CanSubmitPayment:    state == domain.StatePaymentReady,
		CanEditAddress:      machine.CanEditAddress(state),
		CanEditShipping:     machine.CanEditShipping(state),
		CanRetry:            canRetry(state),
		CanStartOver:        canStartOver(state),
	}
}

func canRetry(state domain.State) bool {
	switch state {
	case domain.StateShippingError, domain.StatePaymentIntentError, domain.StatePaymentFailed:
		return true
	}
	return false
}

func canStartOver(state domain.State) bool {
	switch state {
	case domain.StatePaymentReady, domain.StatePaymentFailed, domain.StatePaymentIntentError:
		return true
	}
	return false
}
