package domain

import "fmt"

// --- Estados do Checkout ---

// State identifica a etapa atual do fluxo de checkout. Exatamente um
// estado está ativo por sessão.
type State string

const (
	StateCartLoading           State = "CartLoading"
	StateCartEmpty             State = "CartEmpty"
	StateAddressEntry          State = "AddressEntry"
	StateShippingCalculation   State = "ShippingCalculation"
	StateShippingSelection     State = "ShippingSelection"
	StateShippingApplying      State = "ShippingApplying"
	StateCartFinalized         State = "CartFinalized"
	StatePaymentIntentCreating State = "PaymentIntentCreating"
	StatePaymentReady          State = "PaymentReady"
	StatePaymentProcessing     State = "PaymentProcessing"
	StatePaymentSuccess        State = "PaymentSuccess"
	StatePaymentFailed         State = "PaymentFailed"
	StateShippingError         State = "ShippingError"
	StatePaymentIntentError    State = "PaymentIntentError"
)

func (s State) String() string { return string(s) }

// IsTerminal reports whether the flow has no outgoing transitions left.
func (s State) IsTerminal() bool {
	return s == StateCartEmpty || s == StatePaymentSuccess
}

// States lists every checkout state, in flow order.
var States = []State{
	StateCartLoading,
	StateCartEmpty,
	StateAddressEntry,
	StateShippingCalculation,
	StateShippingSelection,
	StateShippingApplying,
	StateCartFinalized,
	StatePaymentIntentCreating,
	StatePaymentReady,
	StatePaymentProcessing,
	StatePaymentSuccess,
	StatePaymentFailed,
	StateShippingError,
	StatePaymentIntentError,
}

// --- Ações (eventos do fluxo) ---

type ActionKind string

const (
	ActionCartLoaded            ActionKind = "cart-loaded"
	ActionCartEmpty             ActionKind = "cart-empty"
	ActionAddressSubmitted      ActionKind = "address-submitted"
	ActionShippingOptionsLoaded ActionKind = "shipping-options-loaded"
	ActionShippingOptionsError  ActionKind = "shipping-options-error"
	ActionShippingSelected      ActionKind = "shipping-selected"
	ActionShippingApplied       ActionKind = "shipping-applied"
	ActionShippingApplyError    ActionKind = "shipping-apply-error"
	ActionProceedToPayment      ActionKind = "proceed-to-payment"
	ActionPaymentIntentCreated  ActionKind = "payment-intent-created"
	ActionPaymentIntentError    ActionKind = "payment-intent-error"
	ActionPaymentSubmitted      ActionKind = "payment-submitted"
	ActionPaymentSuccess        ActionKind = "payment-success"
	ActionPaymentFailed         ActionKind = "payment-failed"
	ActionRetry                 ActionKind = "retry"
	ActionEditAddress           ActionKind = "edit-address"
	ActionEditShipping          ActionKind = "edit-shipping"
	ActionStartOver             ActionKind = "start-over"
)

// ActionKinds lists every action kind the reducer can receive.
var ActionKinds = []ActionKind{
	ActionCartLoaded,
	ActionCartEmpty,
	ActionAddressSubmitted,
	ActionShippingOptionsLoaded,
	ActionShippingOptionsError,
	ActionShippingSelected,
	ActionShippingApplied,
	ActionShippingApplyError,
	ActionProceedToPayment,
	ActionPaymentIntentCreated,
	ActionPaymentIntentError,
	ActionPaymentSubmitted,
	ActionPaymentSuccess,
	ActionPaymentFailed,
	ActionRetry,
	ActionEditAddress,
	ActionEditShipping,
	ActionStartOver,
}

// Action é o evento disparado contra o reducer. Kind é sempre
// preenchido; os demais campos dependem do tipo de evento.
type Action struct {
	Kind     ActionKind
	Cart     *Cart
	Options  []ShippingOption
	OptionID string
	Handle   *PaymentHandle
	Message  string
}

func CartLoaded(cart *Cart) Action  { return Action{Kind: ActionCartLoaded, Cart: cart} }
func CartEmptied(msg string) Action { return Action{Kind: ActionCartEmpty, Message: msg} }

func ShippingOptionsLoaded(opts []ShippingOption) Action {
	return Action{Kind: ActionShippingOptionsLoaded, Options: opts}
}

func ShippingOptionsError(msg string) Action {
	return Action{Kind: ActionShippingOptionsError, Message: msg}
}

func ShippingSelected(optionID string) Action {
	return Action{Kind: ActionShippingSelected, OptionID: optionID}
}

func ShippingApplied(cart *Cart) Action { return Action{Kind: ActionShippingApplied, Cart: cart} }

func PaymentIntentCreated(h *PaymentHandle) Action {
	return Action{Kind: ActionPaymentIntentCreated, Handle: h}
}

func PaymentIntentError(msg string) Action {
	return Action{Kind: ActionPaymentIntentError, Message: msg}
}

func PaymentFailed(msg string) Action { return Action{Kind: ActionPaymentFailed, Message: msg} }

// --- Erros de domínio ---

var (
	ErrCartNotFound         = fmt.Errorf("cart not found")
	ErrNoPendingSelection   = fmt.Errorf("no shipping option selected")
	ErrOperationInFlight    = fmt.Errorf("another checkout operation is in flight")
	ErrConfirmationRequired = fmt.Errorf("destructive edit requires confirmation")
	ErrNoCartHandle         = fmt.Errorf("no cart identifier in session storage")
	ErrRuleExecutionFailed  = fmt.Errorf("rule execution failed")
)
