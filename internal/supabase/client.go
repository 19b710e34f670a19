package supabase

import (
	"fmt"
	"strings"

	"github.com/supabase-community/supabase-go"

	"cinegrok-backend/internal/config"
)

// Client holds the supabase-go client shared by the directory, auth and
// storage wrappers.
type Client struct {
	Supabase *supabase.Client
	Config   *config.Config
}

func NewClient(cfg *config.Config) (*Client, error) {
	client, err := supabase.NewClient(strings.TrimRight(cfg.SupabaseURL, "/"), cfg.SupabasePublishableKey, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create supabase client: %w", err)
	}

	return &Client{
		Supabase: client,
		Config:   cfg,
	}, nil
}
