package wallet

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/Permissionless-Software-Foundation/avax-cli-wallet/pkg/types"
)

// ErrWalletExists is returned when creating a wallet whose file already exists.
var ErrWalletExists = errors.New("wallet already exists")

// ErrWalletNotFound is returned when loading a wallet that has no file.
var ErrWalletNotFound = errors.New("wallet not found")

// Store persists wallet states by name. It is a single-writer resource:
// Save overwrites, the last write wins.
type Store interface {
	Create(name string, s *State) error
	Load(name string) (*State, error)
	Save(name string, s *State) error
	Exists(name string) bool
	List() ([]string, error)
}

// FileStore keeps one JSON file per wallet in a directory.
type FileStore struct {
	path string
}

// NewFileStore creates a store rooted at dir. The directory is created if
// it doesn't exist.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("create wallet dir: %w", err)
	}
	return &FileStore{path: dir}, nil
}

// Dir returns the directory the store writes to.
func (w *FileStore) Dir() string {
	return w.path
}

// CheckName rejects wallet names that are empty or would escape the store.
func CheckName(name string) error {
	if strings.TrimSpace(name) == "" {
		return types.Invalidf("you must specify a wallet name")
	}
	if strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
		return types.Invalidf("invalid wallet name %q", name)
	}
	return nil
}

func (w *FileStore) walletPath(name string) string {
	return filepath.Join(w.path, name+".json")
}

// Create writes a new wallet file. It fails if the wallet exists.
func (w *FileStore) Create(name string, s *State) error {
	if err := CheckName(name); err != nil {
		return err
	}
	if w.Exists(name) {
		return fmt.Errorf("%w: %q", ErrWalletExists, name)
	}
	return w.writeFile(w.walletPath(name), s)
}

// Load reads and checks a wallet file.
func (w *FileStore) Load(name string) (*State, error) {
	if err := CheckName(name); err != nil {
		return nil, err
	}
	return w.readFile(w.walletPath(name))
}

// Save overwrites a wallet file.
func (w *FileStore) Save(name string, s *State) error {
	if err := CheckName(name); err != nil {
		return err
	}
	return w.writeFile(w.walletPath(name), s)
}

// Exists reports whether a wallet file is present.
func (w *FileStore) Exists(name string) bool {
	_, err := os.Stat(w.walletPath(name))
	return err == nil
}

// List returns the names of all wallets, sorted.
func (w *FileStore) List() ([]string, error) {
	entries, err := os.ReadDir(w.path)
	if err != nil {
		return nil, fmt.Errorf("read wallet dir: %w", err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if ext := filepath.Ext(name); ext == ".json" {
			names = append(names, name[:len(name)-len(ext)])
		}
	}
	sort.Strings(names)
	return names, nil
}

func (w *FileStore) writeFile(path string, s *State) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal wallet: %w", err)
	}
	// Write to a temp file, then rename over the old one.
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return fmt.Errorf("write wallet: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("write wallet: %w", err)
	}
	return nil
}

func (w *FileStore) readFile(path string) (*State, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrWalletNotFound, filepath.Base(path))
	}
	if err != nil {
		return nil, fmt.Errorf("read wallet: %w", err)
	}
	var s State
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("%w: parse wallet: %v", types.ErrDeserialization, err)
	}
	if err := s.validate(); err != nil {
		return nil, err
	}
	if s.Addresses == nil {
		s.Addresses = make(map[uint32]types.Address)
	}
	return &s, nil
}
