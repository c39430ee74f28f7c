package factory

import (
	"fmt"

	"ai-tablechat-be/internal/config"
	"ai-tablechat-be/pkg/database"
	"ai-tablechat-be/pkg/host"
	"ai-tablechat-be/pkg/host/memory"
	"ai-tablechat-be/pkg/host/openapi"
	"ai-tablechat-be/pkg/host/sqlhost"
)

// NewBase connects to the host selected by HOST_PROVIDER.
func NewBase(cfg *config.Config) (host.Base, error) {
	switch cfg.Host.Provider {
	case "openapi":
		return openapi.NewBase(openapi.Config{
			BaseURL:     cfg.Host.BaseURL,
			AppToken:    cfg.Host.AppToken,
			AccessToken: cfg.Host.AccessToken,
			PageSize:    cfg.Host.PageSize,
			Timeout:     cfg.Host.Timeout,
		}), nil
	case "fixture":
		fixture, err := memory.LoadFixture(cfg.Host.FixturePath)
		if err != nil {
			return nil, err
		}
		return memory.NewBase(fixture), nil
	case "sql":
		db, err := database.NewGormDBFromDSN(cfg.Database.Connection, !cfg.IsProduction())
		if err != nil {
			return nil, fmt.Errorf("connect to database: %w", err)
		}
		return sqlhost.NewBase(db), nil
	default:
		return nil, fmt.Errorf("unsupported host provider: %s", cfg.Host.Provider)
	}
}
