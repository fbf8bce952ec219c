package repo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/rogerio-castellano/inventory-ledger/internal/ledger"
	"github.com/rogerio-castellano/inventory-ledger/internal/undo"
)

// FileStateRepository stores the state as indented JSON in a single file.
// The undo stack lives next to it in a sidecar file.
type FileStateRepository struct {
	path     string
	undoPath string
	mu       sync.Mutex
}

func NewFileStateRepository(path string) *FileStateRepository {
	ext := filepath.Ext(path)
	return &FileStateRepository{
		path:     path,
		undoPath: strings.TrimSuffix(path, ext) + ".undo" + ext,
	}
}

func (r *FileStateRepository) Path() string {
	return r.path
}

func (r *FileStateRepository) Load(ctx context.Context) (ledger.State, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var s ledger.State
	found, err := readJSON(r.path, &s)
	if err != nil {
		return ledger.State{}, err
	}
	if !found {
		return ledger.NewState(), nil
	}
	return s, nil
}

func (r *FileStateRepository) Save(ctx context.Context, s ledger.State) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return writeJSON(r.path, s)
}

func (r *FileStateRepository) LoadUndo(ctx context.Context) ([]undo.Entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var entries []undo.Entry
	if _, err := readJSON(r.undoPath, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *FileStateRepository) SaveUndo(ctx context.Context, entries []undo.Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if entries == nil {
		entries = []undo.Entry{}
	}
	return writeJSON(r.undoPath, entries)
}

func readJSON(path string, v any) (bool, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("read %s: %w", path, err)
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return false, nil
	}
	if err := json.Unmarshal(data, v); err != nil {
		return false, fmt.Errorf("decode %s: %w", path, err)
	}
	return true, nil
}

// writeJSON replaces path atomically through a temporary file in the same directory.
func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", tmp.Name(), err)
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmp.Name(), 0o600); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
