package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/tienda3x1/storefront/pkg/config"
	pkgerrors "github.com/tienda3x1/storefront/pkg/errors"
	"github.com/tienda3x1/storefront/pkg/kv"
	"github.com/tienda3x1/storefront/pkg/logger"
)

// Store persists the cart line list as one JSON value under a fixed key.
type Store struct {
	kv   kv.Store
	key  string
	logg *logger.Logger
}

// NewStore wires the persistence adapter.
func NewStore(store kv.Store, cfg config.CartConfig, logg *logger.Logger) (*Store, error) {
	if store == nil {
		return nil, fmt.Errorf("kv store required")
	}
	if cfg.StorageKey == "" {
		return nil, fmt.Errorf("cart storage key required")
	}
	return &Store{kv: store, key: cfg.StorageKey, logg: logg}, nil
}

// Save serializes the full line list under the fixed key. Callers treat the
// in-memory cart as authoritative, so a returned error is logged and dropped
// at the mutation site rather than aborting it.
func (s *Store) Save(ctx context.Context, lines []Line) error {
	if lines == nil {
		lines = []Line{}
	}
	payload, err := json.Marshal(lines)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode cart")
	}
	if err := s.kv.Set(ctx, s.key, string(payload), 0); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist cart")
	}
	return nil
}

// Load deserializes the stored line list. A missing key is an empty cart; a
// value that fails to parse degrades to an empty cart as well, since the next
// save overwrites the bad entry.
func (s *Store) Load(ctx context.Context) []Line {
	value, err := s.kv.Get(ctx, s.key)
	if err != nil {
		if !errors.Is(err, kv.ErrNotFound) && s.logg != nil {
			s.logg.Error(ctx, "cart load failed, starting empty", err)
		}
		return []Line{}
	}

	var lines []Line
	if err := json.Unmarshal([]byte(value), &lines); err != nil {
		if s.logg != nil {
			s.logg.Warn(ctx, "discarding corrupt cart payload")
		}
		return []Line{}
	}
	return lines
}
