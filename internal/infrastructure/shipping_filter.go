package infrastructure

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/Victor-armando18/service-checkout/internal/domain"
	"github.com/Victor-armando18/service-checkout/internal/interfaces"
)

// ShippingFilter applies the "filter" phase of a rule pack to each raw
// shipping option. An option is kept only when every filter rule
// evaluates to true; rules that fail to evaluate drop the option.
type ShippingFilter struct {
	loader          interfaces.RulePackLoader
	executor        interfaces.RuleExecutor
	version         string
	allowedCarriers []string
	log             *zap.Logger
}

func NewShippingFilter(loader interfaces.RulePackLoader, executor interfaces.RuleExecutor, version string, allowedCarriers []string, log *zap.Logger) *ShippingFilter {
	return &ShippingFilter{
		loader:          loader,
		executor:        executor,
		version:         version,
		allowedCarriers: allowedCarriers,
		log:             log,
	}
}

func (f *ShippingFilter) Filter(ctx context.Context, options []domain.ShippingOption) ([]domain.ShippingOption, error) {
	pack, err := f.loader.Load(ctx, f.version)
	if err != nil {
		return nil, fmt.Errorf("load shipping rules: %w", err)
	}
	rules := pack.ByPhase("filter")

	carriers := make([]any, len(f.allowedCarriers))
	for i, c := range f.allowedCarriers {
		carriers[i] = c
	}

	filtered := make([]domain.ShippingOption, 0, len(options))
	for _, opt := range options {
		keep := true
		for _, rule := range rules {
			out, err := f.executor.Execute(ctx, rule.Logic, map[string]any{
				"option":           opt,
				"allowed_carriers": carriers,
			})
			if err != nil {
				f.log.Warn("shipping rule failed, dropping option",
					zap.String("rule", rule.ID),
					zap.String("option", opt.ID),
					zap.Error(err))
				keep = false
				break
			}
			if ok, _ := out.(bool); !ok {
				keep = false
				break
			}
		}
		if keep {
			filtered = append(filtered, opt)
		}
	}
	return filtered, nil
}
