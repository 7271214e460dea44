package cli

import (
	"errors"
	"fmt"

	"github.com/existflow/ironfocus/internal/config"
	"github.com/existflow/ironfocus/internal/credential"
	"github.com/existflow/ironfocus/internal/db"
	"github.com/existflow/ironfocus/internal/logger"
	"github.com/existflow/ironfocus/internal/remote"
	"github.com/existflow/ironfocus/internal/store"
)

// storeOpener is swapped out in tests
var storeOpener = openStore

// openStore returns the backend the config selects
func openStore(cfg *config.Config) (store.Store, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	switch cfg.Store.Backend {
	case config.BackendRemote:
		apiKey := cfg.Store.APIKey
		if apiKey == "" {
			key, err := credential.Get(credential.APIKeyName)
			switch {
			case errors.Is(err, credential.ErrNotFound):
				logger.Debug("No API key stored, connecting without one")
			case err != nil:
				logger.Warn("Failed to read API key from keyring", logger.F("error", err))
			default:
				apiKey = key
			}
		}

		client, err := remote.NewClient(cfg.Store.URL, apiKey)
		if err != nil {
			return nil, err
		}
		logger.Info("Using remote store", logger.F("url", cfg.Store.URL))
		return client, nil

	default:
		st, err := db.OpenURL(cfg.Store.Path)
		if err != nil {
			logger.Error("Failed to open database", logger.F("error", err))
			return nil, fmt.Errorf("failed to open database: %w", err)
		}
		logger.Debug("Using local store", logger.F("dialect", st.Dialect()))
		return st, nil
	}
}

// withStore opens the configured store, runs fn and closes the store
func withStore(fn func(store.Store) error) error {
	st, err := storeOpener(currentConfig())
	if err != nil {
		return err
	}
	defer func() {
		if err := st.Close(); err != nil {
			logger.Warn("Failed to close store", logger.F("error", err))
		}
	}()
	return fn(st)
}
