package domain

// Valores monetários em unidades mínimas da moeda (cêntimos).

// LineItem is one entry of the external cart snapshot.
type LineItem struct {
	ID        string         `json:"id"`
	Title     string         `json:"title"`
	Quantity  int            `json:"quantity"`
	UnitPrice int64          `json:"unit_price"`
	Total     int64          `json:"total"`
	Thumbnail string         `json:"thumbnail,omitempty"`
	VariantID string         `json:"variant_id,omitempty"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

// Address round-trips between the cart snapshot and the address form.
type Address struct {
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Address1   string `json:"address_1"`
	Address2   string `json:"address_2,omitempty"`
	City       string `json:"city"`
	Province   string `json:"province,omitempty"`
	PostalCode string `json:"postal_code"`
	CountryCode string `json:"country_code"`
	Phone      string `json:"phone,omitempty"`
}

// ShippingMethod is a shipping option already applied to the cart.
type ShippingMethod struct {
	ID               string `json:"id"`
	ShippingOptionID string `json:"shipping_option_id"`
	Amount           int64  `json:"amount"`
}

// Cart é o snapshot do carrinho, propriedade do backend de comércio.
// O coordenador trata-o como opaco exceto pela contagem de itens e
// pelos sub-objetos de endereço/envio.
type Cart struct {
	ID              string           `json:"id"`
	Email           string           `json:"email,omitempty"`
	Items           []LineItem       `json:"items"`
	Subtotal        int64            `json:"subtotal"`
	ShippingTotal   *int64           `json:"shipping_total,omitempty"`
	TaxTotal        *int64           `json:"tax_total,omitempty"`
	DiscountTotal   *int64           `json:"discount_total,omitempty"`
	Total           int64            `json:"total"`
	CurrencyCode    string           `json:"currency_code"`
	ShippingAddress *Address         `json:"shipping_address,omitempty"`
	ShippingMethods []ShippingMethod `json:"shipping_methods,omitempty"`
}

// IsEmpty reports whether the cart has no line items.
func (c *Cart) IsEmpty() bool {
	return c == nil || len(c.Items) == 0
}

// CartUpdate is the payload of the "update cart" call: e-mail and
// shipping address entered in the address form.
type CartUpdate struct {
	Email           string   `json:"email,omitempty"`
	ShippingAddress *Address `json:"shipping_address,omitempty"`
}

// PriceType markers returned by the shipping options endpoint.
const (
	PriceTypeFlat       = "flat_rate"
	PriceTypeCalculated = "calculated"
)

// ShippingOption is one priced delivery method offered for the cart.
type ShippingOption struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Amount       int64  `json:"amount"`
	PriceType    string `json:"price_type,omitempty"`
	Carrier      string `json:"carrier,omitempty"`
	DeliveryDays int    `json:"delivery_days,omitempty"`
}

// PaymentHandle representa uma tentativa de pagamento autorizada mas
// não confirmada. Criado no máximo uma vez por tentativa de checkout e
// reutilizado em retries.
type PaymentHandle struct {
	ClientSecret    string `json:"client_secret"`
	PaymentIntentID string `json:"payment_intent_id"`
}
