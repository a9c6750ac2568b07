package yomi

import (
	"errors"
	"fmt"
	"sync"
)

// ErrSymbolNotFound is returned when no entry value is registered under a symbol.
var ErrSymbolNotFound = errors.New("entry symbol not found")

// Symbols maps fully-qualified entry names to entry values.
// Native extensions register themselves from an init function.
type Symbols struct {
	mu      sync.RWMutex
	entries map[string]any
}

// NewSymbols returns an empty table.
func NewSymbols() *Symbols {
	return &Symbols{entries: make(map[string]any)}
}

// DefaultSymbols is the process-wide table used by the default managers.
var DefaultSymbols = NewSymbols()

// Register binds entry to symbol, replacing any previous binding.
func (s *Symbols) Register(symbol string, entry any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[symbol] = entry
}

// Lookup returns the entry bound to symbol.
func (s *Symbols) Lookup(symbol string) (any, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.entries[symbol]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSymbolNotFound, symbol)
	}
	return entry, nil
}

// Register binds entry to symbol in DefaultSymbols.
func Register(symbol string, entry any) {
	DefaultSymbols.Register(symbol, entry)
}

// Lookup resolves symbol in DefaultSymbols.
func Lookup(symbol string) (any, error) {
	return DefaultSymbols.Lookup(symbol)
}
