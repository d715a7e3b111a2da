package interfaces

import (
	"context"

	"github.com/Victor-armando18/service-checkout/internal/domain"
)

// CommerceGateway define o contrato com o backend de comércio (REST).
type CommerceGateway interface {
	FetchCart(ctx context.Context, cartID string) (*domain.Cart, error)
	UpdateCart(ctx context.Context, cartID string, update domain.CartUpdate) (*domain.Cart, error)
	ListShippingOptions(ctx context.Context, cartID string) ([]domain.ShippingOption, error)
	AddShippingMethod(ctx context.Context, cartID, optionID string) (*domain.Cart, error)
}

// PaymentGateway creates one payment intent for the cart. Callers are
// responsible for never invoking it twice for the same attempt; the
// implementation is additionally expected to be idempotent per cart.
type PaymentGateway interface {
	CreateIntent(ctx context.Context, cart *domain.Cart) (*domain.PaymentHandle, error)
}

// CartStore is the durable handle to the external cart identifier, the
// only state that survives between page loads.
type CartStore interface {
	Load() (string, error)
	Save(cartID string) error
	Clear() error
}

// OptionFilter narrows the raw shipping option list to the options the
// user may actually pick.
type OptionFilter interface {
	Filter(ctx context.Context, options []domain.ShippingOption) ([]domain.ShippingOption, error)
}

// ConfirmPrompt pede confirmação explícita ao utilizador antes de uma
// edição destrutiva. O mecanismo concreto fica na camada de binding.
type ConfirmPrompt interface {
	Confirm(message string) bool
}

// CartEvents is the process-local bus notifying that the shopping cart
// changed somewhere else in the application.
type CartEvents interface {
	Subscribe(fn func(cartID string)) (unsubscribe func())
	Publish(cartID string)
}

// RulePackLoader carrega um RulePack versionado (disco, rede, etc.).
type RulePackLoader interface {
	Load(ctx context.Context, version string) (*domain.RulePack, error)
}

// RuleExecutor evaluates one JsonLogic rule against context variables,
// with support for registered custom operators.
type RuleExecutor interface {
	Execute(ctx context.Context, logic map[string]any, contextVars map[string]any) (any, error)
	RegisterCustomOperator(name string, fn func(args ...any) any)
}

// StateObserver is invoked after every reducer dispatch with the
// resulting state; the presentation binding uses it to re-select views.
type StateObserver func(state domain.State)
