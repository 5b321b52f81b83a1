package main

import (
	"context"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/cleardwell/assess-cli/internal/catalog"
	"github.com/cleardwell/assess-cli/internal/scoring"
	"github.com/cleardwell/assess-cli/internal/store"
)

// loadCatalog builds the metric catalog, applying per-tenant threshold
// overrides when configured. A malformed catalog is fatal.
func loadCatalog() (*catalog.Catalog, error) {
	if cfg.Catalog.OverridesPath != "" {
		return catalog.LoadWithOverrides(cfg.Catalog.OverridesPath)
	}
	return catalog.Default(), nil
}

// newBuilder assembles a validated report builder from config. Weight
// validation failures are configuration errors and abort the command.
func newBuilder() (*scoring.Builder, *catalog.Catalog, error) {
	cat, err := loadCatalog()
	if err != nil {
		return nil, nil, err
	}

	weights := scoring.WeightsFromConfig(cfg.Scoring)
	if err := weights.Validate(cat); err != nil {
		return nil, nil, err
	}

	return scoring.NewBuilder(cat, weights, catalog.ReferenceBaselines()), cat, nil
}

// openStore opens the configured record store and runs migrations.
func openStore(ctx context.Context) (store.Store, error) {
	st, err := store.Open(ctx, cfg.Store)
	if err != nil {
		return nil, err
	}
	if err := st.Migrate(ctx); err != nil {
		st.Close() //nolint:errcheck
		return nil, eris.Wrap(err, "migrate store")
	}
	return st, nil
}

// roomIndex maps lowercased room names to room ids for one property.
func roomIndex(ctx context.Context, st store.Store, propertyID string) (map[string]string, error) {
	rooms, err := st.ListRooms(ctx, propertyID)
	if err != nil {
		return nil, err
	}
	idx := make(map[string]string, len(rooms))
	for _, r := range rooms {
		idx[strings.ToLower(r.Name)] = r.ID
	}
	return idx, nil
}
