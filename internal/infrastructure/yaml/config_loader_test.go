package yaml

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadConfig_FullFile(t *testing.T) {
	path := writeConfig(t, `
server:
  addr: ":9090"
commerce:
  base_url: "http://localhost:9000"
  publishable_key: "pk_file"
stripe:
  secret_key: "sk_file"
  return_url: "http://localhost:3000/done"
shipping:
  allowed_carriers: [UPS, DHL]
  rules_version: v2
  rules_path: custom/rules
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, "http://localhost:9000", cfg.Commerce.BaseURL)
	assert.Equal(t, []string{"UPS", "DHL"}, cfg.Shipping.AllowedCarriers)
	assert.Equal(t, "v2", cfg.Shipping.RulesVersion)
	assert.Equal(t, "custom/rules", cfg.Shipping.RulesPath)
}

func TestLoadConfig_MissingFileKeepsDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))

	assert.Error(t, err)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, "v1", cfg.Shipping.RulesVersion)
}

func TestLoadConfig_EnvironmentOverridesSecrets(t *testing.T) {
	path := writeConfig(t, `
stripe:
  secret_key: "sk_file"
commerce:
  publishable_key: "pk_file"
`)
	t.Setenv("STRIPE_SECRET_KEY", "sk_env")
	t.Setenv("COMMERCE_PUBLISHABLE_KEY", "pk_env")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "sk_env", cfg.Stripe.SecretKey)
	assert.Equal(t, "pk_env", cfg.Commerce.PublishableKey)
}
