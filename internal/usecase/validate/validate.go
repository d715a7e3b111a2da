// Package validate implementa o gate de pré-checkout: um carrinho só
// entra no fluxo depois de passar a validação estrutural e os guards
// do rule pack.
package validate

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/Victor-armando18/service-checkout/internal/domain"
	"github.com/Victor-armando18/service-checkout/internal/interfaces"
)

// Report is the validation outcome. Warnings never block checkout.
type Report struct {
	Valid    bool     `json:"valid"`
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

type Validator struct {
	commerce interfaces.CommerceGateway
	loader   interfaces.RulePackLoader
	executor interfaces.RuleExecutor
	version  string
	log      *zap.Logger
}

func New(commerce interfaces.CommerceGateway, loader interfaces.RulePackLoader, executor interfaces.RuleExecutor, version string, log *zap.Logger) *Validator {
	return &Validator{
		commerce: commerce,
		loader:   loader,
		executor: executor,
		version:  version,
		log:      log,
	}
}

// Validate fetches the cart and checks it is sellable. Any fetch error
// is captured as a single validation error instead of propagating.
func (v *Validator) Validate(ctx context.Context, cartID string) Report {
	report := Report{Errors: []string{}, Warnings: []string{}}

	cart, err := v.commerce.FetchCart(ctx, cartID)
	if err != nil {
		report.Errors = append(report.Errors, fmt.Sprintf("cart fetch failed: %v", err))
		return report
	}
	if cart == nil {
		report.Errors = append(report.Errors, fmt.Sprintf("cart %s does not exist", cartID))
		return report
	}

	if len(cart.Items) == 0 {
		report.Errors = append(report.Errors, "cart has no line items")
	}

	for _, item := range cart.Items {
		label := item.Title
		if label == "" {
			label = item.ID
		}
		if item.UnitPrice < 0 {
			report.Errors = append(report.Errors, fmt.Sprintf("line item %q has a negative unit price", label))
		}
		if item.Total < 0 {
			report.Errors = append(report.Errors, fmt.Sprintf("line item %q has a negative total", label))
		}
		if item.VariantID == "" {
			report.Errors = append(report.Errors, fmt.Sprintf("line item %q has no variant reference", label))
		}
		if item.Metadata == nil {
			// Metadata em falta não bloqueia o checkout.
			warning := fmt.Sprintf("line item %q is missing metadata", label)
			report.Warnings = append(report.Warnings, warning)
			v.log.Warn("cart validation warning", zap.String("cart_id", cartID), zap.String("warning", warning))
		}
	}

	report.Errors = append(report.Errors, v.runGuards(ctx, cart)...)
	report.Valid = len(report.Errors) == 0
	return report
}

// runGuards avalia as regras da fase "guards" contra o carrinho; uma
// regra que devolve true é uma violação.
func (v *Validator) runGuards(ctx context.Context, cart *domain.Cart) []string {
	if v.loader == nil || v.executor == nil {
		return nil
	}
	pack, err := v.loader.Load(ctx, v.version)
	if err != nil {
		v.log.Warn("guard rules unavailable, skipping", zap.Error(err))
		return nil
	}

	var violations []string
	for _, rule := range pack.ByPhase("guards") {
		out, err := v.executor.Execute(ctx, rule.Logic, map[string]any{"cart": cart})
		if err != nil {
			v.log.Warn("guard rule failed to evaluate", zap.String("rule", rule.ID), zap.Error(err))
			continue
		}
		if hit, ok := out.(bool); ok && hit {
			msg := rule.ErrorMessage
			if msg == "" {
				msg = fmt.Sprintf("guard %s violated", rule.ID)
			}
			violations = append(violations, msg)
		}
	}
	return violations
}
