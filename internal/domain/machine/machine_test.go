package machine

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Victor-armando18/service-checkout/internal/domain"
)

type edge struct {
	from domain.State
	on   domain.ActionKind
	to   domain.State
}

// Tabela esperada, mantida independente da tabela de produção.
var wantEdges = []edge{
	{domain.StateCartLoading, domain.ActionCartEmpty, domain.StateCartEmpty},
	{domain.StateAddressEntry, domain.ActionAddressSubmitted, domain.StateShippingCalculation},
	{domain.StateShippingCalculation, domain.ActionShippingOptionsLoaded, domain.StateShippingSelection},
	{domain.StateShippingCalculation, domain.ActionShippingOptionsError, domain.StateShippingError},
	{domain.StateShippingSelection, domain.ActionShippingSelected, domain.StateShippingApplying},
	{domain.StateShippingSelection, domain.ActionEditAddress, domain.StateAddressEntry},
	{domain.StateShippingApplying, domain.ActionShippingApplied, domain.StateCartFinalized},
	{domain.StateShippingApplying, domain.ActionShippingApplyError, domain.StateShippingError},
	{domain.StateCartFinalized, domain.ActionProceedToPayment, domain.StatePaymentIntentCreating},
	{domain.StateCartFinalized, domain.ActionEditAddress, domain.StateAddressEntry},
	{domain.StateCartFinalized, domain.ActionEditShipping, domain.StateShippingSelection},
	{domain.StatePaymentIntentCreating, domain.ActionPaymentIntentCreated, domain.StatePaymentReady},
	{domain.StatePaymentIntentCreating, domain.ActionPaymentIntentError, domain.StatePaymentIntentError},
	{domain.StatePaymentReady, domain.ActionPaymentSubmitted, domain.StatePaymentProcessing},
	{domain.StatePaymentReady, domain.ActionStartOver, domain.StateCartLoading},
	{domain.StatePaymentProcessing, domain.ActionPaymentSuccess, domain.StatePaymentSuccess},
	{domain.StatePaymentProcessing, domain.ActionPaymentFailed, domain.StatePaymentFailed},
	{domain.StatePaymentFailed, domain.ActionRetry, domain.StatePaymentReady},
	{domain.StatePaymentFailed, domain.ActionStartOver, domain.StateCartLoading},
	{domain.StateShippingError, domain.ActionRetry, domain.StateShippingCalculation},
	{domain.StateShippingError, domain.ActionEditAddress, domain.StateAddressEntry},
	{domain.StatePaymentIntentError, domain.ActionRetry, domain.StatePaymentIntentCreating},
	{domain.StatePaymentIntentError, domain.ActionStartOver, domain.StateCartLoading},
}

func nonEmptyCart() *domain.Cart {
	return &domain.Cart{
		ID:           "cart_01",
		Items:        []domain.LineItem{{ID: "item_01", Title: "Turbo kit", Quantity: 1, UnitPrice: 129900, Total: 129900, VariantID: "variant_01"}},
		Subtotal:     129900,
		Total:        129900,
		CurrencyCode: "usd",
	}
}

func TestReduce_TransitionTable(t *testing.T) {
	for _, e := range wantEdges {
		t.Run(fmt.Sprintf("%s/%s", e.from, e.on), func(t *testing.T) {
			got := Reduce(e.from, domain.Action{Kind: e.on})
			assert.Equal(t, e.to, got)
		})
	}
}

func TestReduce_CartLoadedSplitsOnItemCount(t *testing.T) {
	assert.Equal(t, domain.StateAddressEntry, Reduce(domain.StateCartLoading, domain.CartLoaded(nonEmptyCart())))
	assert.Equal(t, domain.StateCartEmpty, Reduce(domain.StateCartLoading, domain.CartLoaded(&domain.Cart{ID: "cart_02"})))
	assert.Equal(t, domain.StateCartEmpty, Reduce(domain.StateCartLoading, domain.CartLoaded(nil)))
}

// Qualquer par (estado, ação) fora da tabela deixa o estado inalterado.
func TestReduce_UnhandledPairsAreNoOps(t *testing.T) {
	handled := map[string]bool{}
	for _, e := range wantEdges {
		handled[string(e.from)+"|"+string(e.on)] = true
	}
	handled[string(domain.StateCartLoading)+"|"+string(domain.ActionCartLoaded)] = true

	for _, state := range domain.States {
		for _, kind := range domain.ActionKinds {
			if handled[string(state)+"|"+string(kind)] {
				continue
			}
			action := domain.Action{Kind: kind}
			if kind == domain.ActionCartLoaded {
				action.Cart = nonEmptyCart()
			}
			assert.Equal(t, state, Reduce(state, action),
				"expected no-op for (%s, %s)", state, kind)
		}
	}
}

func TestReduce_TerminalStatesHaveNoOutgoingEdges(t *testing.T) {
	for _, state := range []domain.State{domain.StateCartEmpty, domain.StatePaymentSuccess} {
		assert.True(t, state.IsTerminal())
		for _, kind := range domain.ActionKinds {
			assert.False(t, HasTransition(state, kind),
				"terminal state %s must not transition on %s", state, kind)
		}
	}
}

func TestIsLocked_ExactSet(t *testing.T) {
	locked := map[domain.State]bool{
		domain.StatePaymentIntentCreating: true,
		domain.StatePaymentReady:          true,
		domain.StatePaymentProcessing:     true,
		domain.StatePaymentSuccess:        true,
		domain.StatePaymentFailed:         true,
	}
	for _, state := range domain.States {
		assert.Equal(t, locked[state], IsLocked(state), "IsLocked(%s)", state)
	}
}

func TestEditPredicates_ExactSets(t *testing.T) {
	address := map[domain.State]bool{
		domain.StateAddressEntry:      true,
		domain.StateShippingSelection: true,
		domain.StateCartFinalized:     true,
	}
	shipping := map[domain.State]bool{
		domain.StateShippingSelection: true,
		domain.StateCartFinalized:     true,
	}
	for _, state := range domain.States {
		assert.Equal(t, address[state], CanEditAddress(state), "CanEditAddress(%s)", state)
		assert.Equal(t, shipping[state], CanEditShipping(state), "CanEditShipping(%s)", state)
	}
}

// O retry após falha de pagamento volta a PaymentReady sem passar por
// PaymentIntentCreating: o handle existente continua válido.
func TestReduce_RetryAfterPaymentFailureSkipsIntentCreation(t *testing.T) {
	state := domain.StatePaymentFailed
	state = Reduce(state, domain.Action{Kind: domain.ActionRetry})
	assert.Equal(t, domain.StatePaymentReady, state)
}
