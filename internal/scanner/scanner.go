package scanner

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"RegulatoryDigest/internal/domain"
)

// Request carries all parameters required to scan one listing.
type Request struct {
	Cutoff     time.Time
	SiteName   string
	ListingURL string
	BaseURL    string
}

// Scanner captures one listing strategy (table rows, cards, rendered blocks).
// Entries that fail to parse are skipped; an error means the listing itself
// could not be loaded.
type Scanner interface {
	Name() string
	Scan(ctx context.Context, req Request) ([]domain.DocumentRecord, error)
}

// ErrUnknown is returned when no scanner is registered under an adapter key.
var ErrUnknown = errors.New("unknown adapter")

// Registry maps adapter keys from config to scanner implementations.
type Registry struct {
	byKey map[string]Scanner
}

func NewRegistry() *Registry {
	return &Registry{byKey: make(map[string]Scanner)}
}

// Register stores s under its lower-cased name, replacing any previous entry.
func (r *Registry) Register(s Scanner) {
	if r.byKey == nil {
		r.byKey = make(map[string]Scanner)
	}
	r.byKey[key(s.Name())] = s
}

// Resolve looks up an adapter key case-insensitively.
func (r *Registry) Resolve(adapter string) (Scanner, error) {
	s, ok := r.byKey[key(adapter)]
	if !ok {
		return nil, fmt.Errorf("%w %q (known: %s)", ErrUnknown, adapter, strings.Join(r.Names(), ", "))
	}
	return s, nil
}

// Names lists the registered adapter keys in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.byKey))
	for name := range r.byKey {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func key(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
