package infrastructure

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Victor-armando18/service-checkout/internal/domain"
	"github.com/Victor-armando18/service-checkout/internal/interfaces"
)

type FileRuleLoader struct {
	BasePath string
}

func NewFileRuleLoader(basePath string) interfaces.RulePackLoader {
	if basePath == "" {
		basePath = filepath.Join("pkg", "rules")
	}
	return &FileRuleLoader{BasePath: basePath}
}

func (l *FileRuleLoader) Load(ctx context.Context, version string) (*domain.RulePack, error) {
	filename := fmt.Sprintf("%s_rules.json", version)
	path := filepath.Join(l.BasePath, filename)

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read rule file %s: %w", path, err)
	}

	var pack domain.RulePack
	if err := json.Unmarshal(data, &pack); err != nil {
		return nil, fmt.Errorf("failed to unmarshal rule pack: %w", err)
	}

	return &pack, nil
}
