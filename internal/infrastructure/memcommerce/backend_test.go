package memcommerce

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Victor-armando18/service-checkout/internal/domain"
)

func seeded() *Backend {
	b := New()
	b.SeedCart(&domain.Cart{
		ID:           "cart_1",
		CurrencyCode: "usd",
		Items: []domain.LineItem{{
			ID: "item_1", Title: "Pastilhas de travão", Quantity: 2, UnitPrice: 2500, Total: 5000, VariantID: "variant_1",
		}},
		Subtotal: 5000,
		Total:    5000,
	})
	b.SeedOptions([]domain.ShippingOption{
		{ID: "so_1", Name: "Standard", Amount: 1200, Carrier: "UPS"},
	})
	return b
}

func TestBackend_UpdateCartIsAMergePatch(t *testing.T) {
	b := seeded()

	cart, err := b.UpdateCart(context.Background(), "cart_1", domain.CartUpdate{
		Email:           "a@b.c",
		ShippingAddress: &domain.Address{City: "Luanda", CountryCode: "ao"},
	})
	require.NoError(t, err)

	assert.Equal(t, "a@b.c", cart.Email)
	assert.Equal(t, "Luanda", cart.ShippingAddress.City)
	// O merge patch não pode tocar nos campos não enviados.
	assert.Len(t, cart.Items, 1)
	assert.Equal(t, int64(5000), cart.Subtotal)
	assert.Equal(t, "usd", cart.CurrencyCode)
}

func TestBackend_AddShippingMethodRecomputesTotals(t *testing.T) {
	b := seeded()

	cart, err := b.AddShippingMethod(context.Background(), "cart_1", "so_1")
	require.NoError(t, err)

	require.Len(t, cart.ShippingMethods, 1)
	assert.Equal(t, "so_1", cart.ShippingMethods[0].ShippingOptionID)
	require.NotNil(t, cart.ShippingTotal)
	assert.Equal(t, int64(1200), *cart.ShippingTotal)
	assert.Equal(t, int64(6200), cart.Total)
}

func TestBackend_UnknownCartAndOption(t *testing.T) {
	b := seeded()
	ctx := context.Background()

	_, err := b.FetchCart(ctx, "cart_missing")
	assert.ErrorIs(t, err, domain.ErrCartNotFound)

	_, err = b.AddShippingMethod(ctx, "cart_1", "so_missing")
	assert.Error(t, err)
}

func TestBackend_FetchReturnsACopy(t *testing.T) {
	b := seeded()
	ctx := context.Background()

	first, err := b.FetchCart(ctx, "cart_1")
	require.NoError(t, err)
	first.Items[0].Quantity = 99

	second, err := b.FetchCart(ctx, "cart_1")
	require.NoError(t, err)
	assert.Equal(t, 2, second.Items[0].Quantity)
}

func TestPayments_CountsIntents(t *testing.T) {
	p := &Payments{}

	h1, err := p.CreateIntent(context.Background(), &domain.Cart{ID: "cart_1"})
	require.NoError(t, err)
	h2, err := p.CreateIntent(context.Background(), &domain.Cart{ID: "cart_1"})
	require.NoError(t, err)

	assert.Equal(t, 2, p.Created)
	assert.NotEqual(t, h1.PaymentIntentID, h2.PaymentIntentID)
	assert.Contains(t, h1.ClientSecret, h1.PaymentIntentID)
}
