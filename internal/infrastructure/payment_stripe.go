package infrastructure

import (
	"context"
	"fmt"

	"github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/paymentintent"
	"go.uber.org/zap"

	"github.com/Victor-armando18/service-checkout/internal/domain"
)

// StripeGateway cria payment intents no Stripe. A chave de idempotência
// derivada do carrinho garante que repetir a chamada nunca gera uma
// segunda autorização para a mesma compra.
type StripeGateway struct {
	log *zap.Logger
}

func NewStripeGateway(secretKey string, log *zap.Logger) *StripeGateway {
	stripe.Key = secretKey
	return &StripeGateway{log: log}
}

func (g *StripeGateway) CreateIntent(ctx context.Context, cart *domain.Cart) (*domain.PaymentHandle, error) {
	if cart == nil {
		return nil, domain.ErrCartNotFound
	}

	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(cart.Total),
		Currency: stripe.String(cart.CurrencyCode),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	params.Context = ctx
	params.SetIdempotencyKey("cart-intent-" + cart.ID)
	params.AddMetadata("cart_id", cart.ID)

	pi, err := paymentintent.New(params)
	if err != nil {
		return nil, fmt.Errorf("create payment intent: %w", err)
	}

	g.log.Info("payment intent created",
		zap.String("cart_id", cart.ID),
		zap.String("payment_intent_id", pi.ID),
		zap.Int64("amount", cart.Total))

	return &domain.PaymentHandle{
		ClientSecret:    pi.ClientSecret,
		PaymentIntentID: pi.ID,
	}, nil
}
