// Diagnostic CLI: drives a full checkout flow against an in-memory
// commerce backend, printing each state transition. Useful to exercise
// the rule packs and the flow without a storefront.
package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Victor-armando18/service-checkout/internal/domain"
	"github.com/Victor-armando18/service-checkout/internal/infrastructure"
	"github.com/Victor-armando18/service-checkout/internal/infrastructure/memcommerce"
	"github.com/Victor-armando18/service-checkout/internal/usecase"
	"github.com/Victor-armando18/service-checkout/internal/usecase/validate"
	"github.com/Victor-armando18/service-checkout/pkg/checkout"
)

var (
	rulesPath    string
	rulesVersion string
	carriers     []string
	verbose      bool
)

func main() {
	root := &cobra.Command{
		Use:   "checkout-cli",
		Short: "Diagnostics for the checkout flow engine",
	}
	root.PersistentFlags().StringVar(&rulesPath, "rules", "pkg/rules", "directory with versioned rule packs")
	root.PersistentFlags().StringVar(&rulesVersion, "rules-version", "v1", "rule pack version to load")
	root.PersistentFlags().StringSliceVar(&carriers, "carriers", []string{"UPS", "DHL"}, "carrier allow-list")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log transitions at debug level")

	root.AddCommand(runCmd(), validateCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// autoConfirm aceita todos os avisos destrutivos; num diagnóstico não há
// utilizador para perguntar.
type autoConfirm struct{}

func (autoConfirm) Confirm(message string) bool {
	fmt.Printf("  [confirm] %s -> yes\n", message)
	return true
}

func runCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Drive a full happy-path checkout against the in-memory backend",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			logger := newLogger()
			defer logger.Sync()

			backend := memcommerce.New()
			backend.SeedCart(demoCart())
			backend.SeedOptions(demoOptions())
			payments := &memcommerce.Payments{}

			executor := infrastructure.NewJsonLogicExecutor()
			executor.RegisterCustomOperator("determinate", infrastructure.CustomDeterminate)
			loader := infrastructure.NewFileRuleLoader(rulesPath)
			filter := infrastructure.NewShippingFilter(loader, executor, rulesVersion, carriers, logger)
			validator := validate.New(backend, loader, executor, rulesVersion, logger)

			coord := usecase.NewCoordinator(usecase.Deps{
				Commerce:  backend,
				Payments:  payments,
				Store:     infrastructure.NewMemoryCartStore("cart_demo"),
				Filter:    filter,
				Confirm:   autoConfirm{},
				Validator: validator,
				Log:       logger,
			})
			coord.OnStateChange(func(state domain.State) {
				b := checkout.For(state)
				fmt.Printf("  -> %-22s view=%s busy=%v locked=%v\n", state, b.View, b.Busy, b.Locked)
			})

			banner("checkout flow")
			fmt.Println("starting session", coord.SessionID())

			if err := coord.Start(ctx); err != nil {
				return err
			}
			if err := coord.SubmitAddress(ctx, domain.CartUpdate{
				Email: "cliente@example.com",
				ShippingAddress: &domain.Address{
					FirstName:   "Ana",
					LastName:    "Silva",
					Address1:    "Rua das Flores 12",
					City:        "Luanda",
					PostalCode:  "1000",
					CountryCode: "ao",
				},
			}); err != nil {
				return err
			}

			options := coord.ShippingOptions()
			if len(options) == 0 {
				return fmt.Errorf("no shipping options survived the filter: %s", coord.LastError())
			}
			fmt.Printf("eligible options (%d):\n", len(options))
			for _, opt := range options {
				fmt.Printf("  %-10s %-18s %6d %s\n", opt.ID, opt.Name, opt.Amount, opt.Carrier)
			}

			coord.SelectShipping(options[0].ID)
			if err := coord.ContinueShipping(ctx); err != nil {
				return err
			}
			if err := coord.ProceedToPayment(ctx); err != nil {
				return err
			}
			if handle := coord.PaymentHandle(); handle != nil {
				fmt.Println("payment intent:", handle.PaymentIntentID)
			}
			coord.HandlePaymentSuccess()

			banner("result")
			fmt.Println("final state:  ", coord.State())
			fmt.Println("intents made: ", payments.Created)
			if cart := coord.Cart(); cart != nil {
				fmt.Printf("cart total:    %d %s\n", cart.Total, strings.ToUpper(cart.CurrencyCode))
			}
			return nil
		},
	}
}

func validateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Run the pre-checkout validation report against a demo cart",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			logger := newLogger()
			defer logger.Sync()

			backend := memcommerce.New()
			cart := demoCart()
			// Defeitos de propósito para exercitar o relatório.
			cart.Items = append(cart.Items, domain.LineItem{
				ID:        "item_broken",
				Title:     "Produto sem variante",
				Quantity:  1,
				UnitPrice: 500,
				Total:     500,
			})
			backend.SeedCart(cart)

			executor := infrastructure.NewJsonLogicExecutor()
			executor.RegisterCustomOperator("determinate", infrastructure.CustomDeterminate)
			loader := infrastructure.NewFileRuleLoader(rulesPath)
			validator := validate.New(backend, loader, executor, rulesVersion, logger)

			report := validator.Validate(ctx, cart.ID)

			banner("validation report")
			if report.Valid {
				fmt.Println("✅ cart is valid")
			} else {
				fmt.Println("❌ cart failed validation")
			}
			for _, e := range report.Errors {
				fmt.Println("  error:  ", e)
			}
			for _, w := range report.Warnings {
				fmt.Println("  ⚠️ warning:", w)
			}
			if !report.Valid {
				os.Exit(1)
			}
			return nil
		},
	}
}

func newLogger() *zap.Logger {
	if verbose {
		logger, _ := zap.NewDevelopment()
		return logger
	}
	return zap.NewNop()
}

func banner(title string) {
	fmt.Println(strings.Repeat("=", 60))
	fmt.Println(title)
	fmt.Println(strings.Repeat("=", 60))
}

func demoCart() *domain.Cart {
	return &domain.Cart{
		ID:           "cart_demo",
		CurrencyCode: "usd",
		Items: []domain.LineItem{
			{
				ID:        "item_1",
				Title:     "Turbocompressor GT2860",
				Quantity:  1,
				UnitPrice: 4100,
				VariantID: "variant_1",
				Total:     4100,
				Metadata:  map[string]any{"fitment": "sr20det"},
			},
			{
				ID:        "item_2",
				Title:     "Filtro de ar desportivo",
				Quantity:  2,
				UnitPrice: 900,
				VariantID: "variant_2",
				Total:     1800,
				Metadata:  map[string]any{},
			},
		},
		Subtotal: 5900,
		Total:    5900,
	}
}

func demoOptions() []domain.ShippingOption {
	return []domain.ShippingOption{
		{ID: "so_standard", Name: "Standard", Amount: 1200, PriceType: domain.PriceTypeFlat, Carrier: "UPS", DeliveryDays: 5},
		{ID: "so_express", Name: "Express", Amount: 2900, PriceType: domain.PriceTypeFlat, Carrier: "FedEx", DeliveryDays: 1},
		{ID: "so_economy", Name: "Economy", Amount: 0, PriceType: domain.PriceTypeCalculated, Carrier: "DHL", DeliveryDays: 8},
	}
}
