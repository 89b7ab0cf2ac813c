package main

import (
	"fmt"

	"github.com/kuraproj/kura/internal/api"
	"github.com/kuraproj/kura/internal/config"
)

// newAPIClient builds an authenticated client from config. A var so tests
// can substitute a client pointed at a fake server.
var newAPIClient = func() (*api.Client, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	token := config.LoadToken()
	if token == "" {
		return nil, fmt.Errorf("not logged in — run `kura login` or set KURA_API_TOKEN")
	}

	return api.New(baseURL(cfg), token), nil
}

func baseURL(cfg config.Config) string {
	if serverOverride != "" {
		return serverOverride
	}
	return cfg.Server.BaseURL
}
