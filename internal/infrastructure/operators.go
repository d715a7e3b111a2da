package infrastructure

import "github.com/Victor-armando18/service-checkout/internal/domain"

// CustomDeterminate decide se uma opção de envio tem preço
// determinável: montante fixo positivo, ou marcador de preço calculado.
// Argumentos: (amount, price_type).
func CustomDeterminate(args ...any) any {
	if len(args) < 2 {
		return false
	}
	amount := toFloat(args[0])
	priceType, _ := args[1].(string)
	return amount > 0 || priceType == domain.PriceTypeCalculated
}

func toFloat(v any) float64 {
	switch t := v.(type) {
	case float64:
		return t
	case int64:
		return float64(t)
	case int:
		return float64(t)
	}
	return 0
}
