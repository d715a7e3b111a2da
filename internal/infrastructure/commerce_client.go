package infrastructure

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/Victor-armando18/service-checkout/internal/domain"
)

// CommerceClient fala com o backend de comércio. Todas as chamadas
// passam pelo helper do(), que anexa a chave de API e o content-type.
type CommerceClient struct {
	baseURL string
	apiKey  string
	client  *http.Client
	log     *zap.Logger
}

func NewCommerceClient(baseURL, apiKey string, log *zap.Logger) *CommerceClient {
	return &CommerceClient{
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: 15 * time.Second},
		log:     log,
	}
}

type cartEnvelope struct {
	Cart *domain.Cart `json:"cart"`
}

type shippingOptionsEnvelope struct {
	ShippingOptions []domain.ShippingOption `json:"shipping_options"`
}

type backendError struct {
	Message string `json:"message"`
}

func (c *CommerceClient) FetchCart(ctx context.Context, cartID string) (*domain.Cart, error) {
	var env cartEnvelope
	path := fmt.Sprintf("/store/carts/%s", url.PathEscape(cartID))
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &env); err != nil {
		return nil, err
	}
	if env.Cart == nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrCartNotFound, cartID)
	}
	return env.Cart, nil
}

func (c *CommerceClient) UpdateCart(ctx context.Context, cartID string, update domain.CartUpdate) (*domain.Cart, error) {
	var env cartEnvelope
	path := fmt.Sprintf("/store/carts/%s", url.PathEscape(cartID))
	if err := c.do(ctx, http.MethodPost, path, nil, update, &env); err != nil {
		return nil, err
	}
	return env.Cart, nil
}

func (c *CommerceClient) ListShippingOptions(ctx context.Context, cartID string) ([]domain.ShippingOption, error) {
	var env shippingOptionsEnvelope
	query := url.Values{"cart_id": {cartID}}
	if err := c.do(ctx, http.MethodGet, "/store/shipping-options", query, nil, &env); err != nil {
		return nil, err
	}
	return env.ShippingOptions, nil
}

func (c *CommerceClient) AddShippingMethod(ctx context.Context, cartID, optionID string) (*domain.Cart, error) {
	var env cartEnvelope
	path := fmt.Sprintf("/store/carts/%s/shipping-methods", url.PathEscape(cartID))
	body := map[string]string{"option_id": optionID}
	if err := c.do(ctx, http.MethodPost, path, nil, body, &env); err != nil {
		return nil, err
	}
	return env.Cart, nil
}

func (c *CommerceClient) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return err
	}
	req.Header.Set("content-type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("x-publishable-api-key", c.apiKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("commerce backend unreachable: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode >= http.StatusMultipleChoices {
		var be backendError
		if json.Unmarshal(raw, &be) == nil && be.Message != "" {
			return fmt.Errorf("commerce backend: %s", be.Message)
		}
		return fmt.Errorf("commerce backend: %s %s returned status %d", method, path, resp.StatusCode)
	}

	if out != nil {
		if err := json.Unmarshal(raw, out); err != nil {
			return fmt.Errorf("decode response of %s %s: %w", method, path, err)
		}
	}
	return nil
}
