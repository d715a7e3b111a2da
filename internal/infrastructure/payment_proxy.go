package infrastructure

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/Victor-armando18/service-checkout/internal/domain"
)

// IntentProxyClient é a visão do coordenador sobre o endpoint
// /api/payments/create-intent exposto por esta própria aplicação.
type IntentProxyClient struct {
	baseURL string
	client  *http.Client
}

func NewIntentProxyClient(baseURL string) *IntentProxyClient {
	return &IntentProxyClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 15 * time.Second},
	}
}

type createIntentRequest struct {
	CartID string `json:"cartId"`
}

func (p *IntentProxyClient) CreateIntent(ctx context.Context, cart *domain.Cart) (*domain.PaymentHandle, error) {
	if cart == nil {
		return nil, domain.ErrCartNotFound
	}

	raw, err := json.Marshal(createIntentRequest{CartID: cart.ID})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/api/payments/create-intent", bytes.NewReader(raw))
	if err != nil {
		return nil, err
	}
	req.Header.Set("content-type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("payment proxy unreachable: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= http.StatusMultipleChoices {
		return nil, fmt.Errorf("payment proxy returned status %d", resp.StatusCode)
	}

	var handle domain.PaymentHandle
	if err := json.Unmarshal(body, &handle); err != nil {
		return nil, fmt.Errorf("decode payment handle: %w", err)
	}
	return &handle, nil
}
