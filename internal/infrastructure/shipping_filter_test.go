package infrastructure

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Victor-armando18/service-checkout/internal/domain"
)

func newTestFilter(t *testing.T, carriers []string) *ShippingFilter {
	t.Helper()
	executor := NewJsonLogicExecutor()
	executor.RegisterCustomOperator("determinate", CustomDeterminate)
	loader := NewFileRuleLoader(filepath.Join("..", "..", "pkg", "rules"))
	return NewShippingFilter(loader, executor, "v1", carriers, zap.NewNop())
}

func TestShippingFilter_V1Pack(t *testing.T) {
	filter := newTestFilter(t, []string{"UPS", "DHL"})

	options := []domain.ShippingOption{
		{ID: "so_standard", Name: "Standard", Amount: 1200, PriceType: domain.PriceTypeFlat, Carrier: "UPS"},
		{ID: "so_express", Name: "Express", Amount: 500, PriceType: domain.PriceTypeFlat, Carrier: "FedEx"},
		{ID: "so_economy", Name: "Economy", Amount: 0, PriceType: domain.PriceTypeCalculated, Carrier: "DHL"},
		{ID: "so_broken", Name: "Broken", Amount: 0, PriceType: domain.PriceTypeFlat, Carrier: "UPS"},
	}

	filtered, err := filter.Filter(context.Background(), options)
	require.NoError(t, err)

	ids := make([]string, len(filtered))
	for i, opt := range filtered {
		ids[i] = opt.ID
	}
	// FedEx falha o allow-list; a opção flat de valor zero não tem preço
	// determinado. A opção calculated sobrevive mesmo com amount zero.
	assert.Equal(t, []string{"so_standard", "so_economy"}, ids)
}

func TestShippingFilter_EmptyAllowListDropsEverything(t *testing.T) {
	filter := newTestFilter(t, nil)

	filtered, err := filter.Filter(context.Background(), []domain.ShippingOption{
		{ID: "so_standard", Amount: 1200, PriceType: domain.PriceTypeFlat, Carrier: "UPS"},
	})
	require.NoError(t, err)
	assert.Empty(t, filtered)
}

func TestShippingFilter_UnknownRuleVersion(t *testing.T) {
	executor := NewJsonLogicExecutor()
	loader := NewFileRuleLoader(filepath.Join("..", "..", "pkg", "rules"))
	filter := NewShippingFilter(loader, executor, "v99", []string{"UPS"}, zap.NewNop())

	_, err := filter.Filter(context.Background(), nil)
	assert.Error(t, err)
}

func TestJsonLogicExecutor_StandardOperator(t *testing.T) {
	executor := NewJsonLogicExecutor()

	out, err := executor.Execute(context.Background(),
		map[string]any{"in": []any{map[string]any{"var": "option.carrier"}, map[string]any{"var": "allowed"}}},
		map[string]any{
			"option":  domain.ShippingOption{Carrier: "UPS"},
			"allowed": []any{"UPS", "DHL"},
		})

	require.NoError(t, err)
	assert.Equal(t, true, out)
}

func TestJsonLogicExecutor_CustomOperatorWinsOverStandard(t *testing.T) {
	executor := NewJsonLogicExecutor()
	executor.RegisterCustomOperator("determinate", CustomDeterminate)

	tests := []struct {
		name      string
		amount    int64
		priceType string
		want      bool
	}{
		{"flat with amount", 1200, domain.PriceTypeFlat, true},
		{"flat without amount", 0, domain.PriceTypeFlat, false},
		{"calculated without amount", 0, domain.PriceTypeCalculated, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := executor.Execute(context.Background(),
				map[string]any{"determinate": []any{
					map[string]any{"var": "option.amount"},
					map[string]any{"var": "option.price_type"},
				}},
				map[string]any{"option": domain.ShippingOption{Amount: tt.amount, PriceType: tt.priceType}})
			require.NoError(t, err)
			assert.Equal(t, tt.want, out)
		})
	}
}

func TestJsonLogicExecutor_DottedPathMissesReturnNil(t *testing.T) {
	executor := NewJsonLogicExecutor()
	executor.RegisterCustomOperator("determinate", CustomDeterminate)

	out, err := executor.Execute(context.Background(),
		map[string]any{"determinate": []any{
			map[string]any{"var": "option.amount.nested"},
			map[string]any{"var": "nope"},
		}},
		map[string]any{"option": domain.ShippingOption{Amount: 5}})

	require.NoError(t, err)
	assert.Equal(t, false, out)
}
