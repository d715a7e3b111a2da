package yaml

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type ServerConfig struct {
	Addr string `yaml:"addr"`
}

type CommerceConfig struct {
	BaseURL        string `yaml:"base_url"`
	PublishableKey string `yaml:"publishable_key"`
}

type StripeConfig struct {
	SecretKey string `yaml:"secret_key"`
	ReturnURL string `yaml:"return_url"`
}

type ShippingConfig struct {
	AllowedCarriers []string `yaml:"allowed_carriers"`
	RulesVersion    string   `yaml:"rules_version"`
	RulesPath       string   `yaml:"rules_path"`
}

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Commerce CommerceConfig `yaml:"commerce"`
	Stripe   StripeConfig   `yaml:"stripe"`
	Shipping ShippingConfig `yaml:"shipping"`
}

// LoadConfig lê a configuração YAML. Segredos podem ser sobrepostos
// por variáveis de ambiente (nunca comitados no ficheiro).
func LoadConfig(path string) (Config, error) {
	cfg := Config{
		Server:   ServerConfig{Addr: ":8080"},
		Shipping: ShippingConfig{RulesVersion: "v1"},
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}

	if v := os.Getenv("STRIPE_SECRET_KEY"); v != "" {
		cfg.Stripe.SecretKey = v
	}
	if v := os.Getenv("COMMERCE_PUBLISHABLE_KEY"); v != "" {
		cfg.Commerce.PublishableKey = v
	}
	return cfg, nil
}
