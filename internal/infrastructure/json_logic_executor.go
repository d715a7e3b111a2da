package infrastructure

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/diegoholiveira/jsonlogic/v3"

	"github.com/Victor-armando18/service-checkout/internal/domain"
)

type JsonLogicExecutor struct {
	customOps map[string]func(args ...any) any
}

func NewJsonLogicExecutor() *JsonLogicExecutor {
	return &JsonLogicExecutor{
		customOps: make(map[string]func(args ...any) any),
	}
}

func (j *JsonLogicExecutor) RegisterCustomOperator(name string, fn func(args ...any) any) {
	j.customOps[name] = fn
}

func (j *JsonLogicExecutor) Execute(ctx context.Context, logic map[string]any, contextVars map[string]any) (any, error) {
	data, err := normalize(contextVars)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrRuleExecutionFailed, err)
	}

	// 1. Operadores customizados têm prioridade sobre o JsonLogic padrão.
	for opName, fn := range j.customOps {
		if args, ok := logic[opName]; ok {
			return j.handleManualEval(args, data, fn), nil
		}
	}

	// 2. Execução standard JsonLogic
	ruleJSON, _ := json.Marshal(logic)
	dataJSON, _ := json.Marshal(data)
	var resultBuffer bytes.Buffer

	if err := jsonlogic.Apply(bytes.NewReader(ruleJSON), bytes.NewReader(dataJSON), &resultBuffer); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrRuleExecutionFailed, err)
	}

	out := strings.TrimSpace(resultBuffer.String())
	if out == "" || out == "null" {
		return nil, nil
	}
	var res any
	if err := json.Unmarshal([]byte(out), &res); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrRuleExecutionFailed, err)
	}
	return res, nil
}

func (j *JsonLogicExecutor) handleManualEval(args any, data map[string]any, fn func(args ...any) any) any {
	var params []any
	if v, ok := args.([]any); ok {
		for _, arg := range v {
			params = append(params, j.resolveVar(arg, data))
		}
	} else {
		params = append(params, j.resolveVar(args, data))
	}
	return fn(params...)
}

// resolveVar resolve referências {"var": "option.amount"} contra o mapa
// de contexto, com caminho pontuado.
func (j *JsonLogicExecutor) resolveVar(arg any, data map[string]any) any {
	m, ok := arg.(map[string]any)
	if !ok {
		return arg
	}
	path, ok := m["var"].(string)
	if !ok {
		return arg
	}

	var cur any = data
	for _, part := range strings.Split(path, ".") {
		mm, ok := cur.(map[string]any)
		if !ok {
			return nil
		}
		cur = mm[part]
	}
	return cur
}

// normalize converte structs do domínio em mapas JSON genéricos.
func normalize(contextVars map[string]any) (map[string]any, error) {
	raw, err := json.Marshal(contextVars)
	if err != nil {
		return nil, err
	}
	var data map[string]any
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, err
	}
	return data, nil
}
