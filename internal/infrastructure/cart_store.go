package infrastructure

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// FileCartStore persiste o identificador do carrinho entre execuções,
// da mesma forma que o storefront o guarda no storage do browser.
type FileCartStore struct {
	Path string
}

func NewFileCartStore(path string) *FileCartStore {
	if path == "" {
		path = filepath.Join("data", "db", "cart_handle.json")
	}
	return &FileCartStore{Path: path}
}

type cartHandle struct {
	CartID string `json:"cart_id"`
}

func (s *FileCartStore) Load() (string, error) {
	data, err := os.ReadFile(s.Path)
	if os.IsNotExist(err) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	var h cartHandle
	if err := json.Unmarshal(data, &h); err != nil {
		return "", err
	}
	return h.CartID, nil
}

func (s *FileCartStore) Save(cartID string) error {
	if err := os.MkdirAll(filepath.Dir(s.Path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(cartHandle{CartID: cartID}, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.Path, data, 0o644)
}

func (s *FileCartStore) Clear() error {
	err := os.Remove(s.Path)
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// MemoryCartStore guarda o identificador apenas em memória; usado pelas
// sessões HTTP, em que o browser envia o cart_id na criação da sessão.
type MemoryCartStore struct {
	cartID string
}

func NewMemoryCartStore(cartID string) *MemoryCartStore {
	return &MemoryCartStore{cartID: cartID}
}

func (s *MemoryCartStore) Load() (string, error) { return s.cartID, nil }
func (s *MemoryCartStore) Save(id string) error  { s.cartID = id; return nil }
func (s *MemoryCartStore) Clear() error          { s.cartID = ""; return nil }
