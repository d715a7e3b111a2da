// Package memcommerce is an in-memory stand-in for the commerce
// backend, used by the diagnostic CLI and the flow tests. Cart updates
// are applied as RFC 7386 merge patches, matching how the hosted
// backend treats POST /store/carts/{id}.
package memcommerce

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	jsonpatch "github.com/evanphx/json-patch/v5"
	"github.com/google/uuid"

	"github.com/Victor-armando18/service-checkout/internal/domain"
)

type Backend struct {
	mu      sync.Mutex
	carts   map[string]*domain.Cart
	options []domain.ShippingOption

	// Falhas injetáveis para diagnósticos.
	OptionsErr error
	ApplyErr   error
}

func New() *Backend {
	return &Backend{carts: make(map[string]*domain.Cart)}
}

func (b *Backend) SeedCart(cart *domain.Cart) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.carts[cart.ID] = clone(cart)
}

func (b *Backend) SeedOptions(options []domain.ShippingOption) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.options = append([]domain.ShippingOption(nil), options...)
}

func (b *Backend) FetchCart(ctx context.Context, cartID string) (*domain.Cart, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	cart, ok := b.carts[cartID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrCartNotFound, cartID)
	}
	return clone(cart), nil
}

func (b *Backend) UpdateCart(ctx context.Context, cartID string, update domain.CartUpdate) (*domain.Cart, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	cart, ok := b.carts[cartID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrCartNotFound, cartID)
	}

	current, err := json.Marshal(cart)
	if err != nil {
		return nil, err
	}
	patch, err := json.Marshal(update)
	if err != nil {
		return nil, fmt.Errorf("falha ao codificar patch: %w", err)
	}

	merged, err := jsonpatch.MergePatch(current, patch)
	if err != nil {
		return nil, fmt.Errorf("falha ao aplicar patch: %w", err)
	}

	var updated domain.Cart
	if err := json.Unmarshal(merged, &updated); err != nil {
		return nil, err
	}
	b.carts[cartID] = &updated
	return clone(&updated), nil
}

func (b *Backend) ListShippingOptions(ctx context.Context, cartID string) ([]domain.ShippingOption, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.OptionsErr != nil {
		return nil, b.OptionsErr
	}
	if _, ok := b.carts[cartID]; !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrCartNotFound, cartID)
	}
	return append([]domain.ShippingOption(nil), b.options...), nil
}

func (b *Backend) AddShippingMethod(ctx context.Context, cartID, optionID string) (*domain.Cart, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.ApplyErr != nil {
		return nil, b.ApplyErr
	}
	cart, ok := b.carts[cartID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrCartNotFound, cartID)
	}

	var selected *domain.ShippingOption
	for i := range b.options {
		if b.options[i].ID == optionID {
			selected = &b.options[i]
			break
		}
	}
	if selected == nil {
		return nil, fmt.Errorf("unknown shipping option: %s", optionID)
	}

	amount := selected.Amount
	cart.ShippingMethods = []domain.ShippingMethod{{
		ID:               "sm_" + optionID,
		ShippingOptionID: optionID,
		Amount:           amount,
	}}
	cart.ShippingTotal = &amount
	cart.Total = cart.Subtotal + amount
	return clone(cart), nil
}

// Payments emula o gateway de pagamento para diagnósticos, contando as
// criações de intent.
type Payments struct {
	mu      sync.Mutex
	Created int
}

func (p *Payments) CreateIntent(ctx context.Context, cart *domain.Cart) (*domain.PaymentHandle, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Created++
	id := "pi_" + uuid.NewString()
	return &domain.PaymentHandle{
		ClientSecret:    id + "_secret",
		PaymentIntentID: id,
	}, nil
}

func clone(cart *domain.Cart) *domain.Cart {
	raw, _ := json.Marshal(cart)
	var out domain.Cart
	_ = json.Unmarshal(raw, &out)
	return &out
}
