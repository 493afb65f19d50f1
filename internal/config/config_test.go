package config_test

import (
	"testing"

	"twitter_rss_proxy/internal/config"

	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("NITTER_INSTANCE", "")
	t.Setenv("PUBLIC_URL", "")

	cfg := config.Load()
	require.Equal(t, "8080", cfg.Port)
	require.Empty(t, cfg.PublicURL)
	require.NotEmpty(t, cfg.NitterInstances)
	require.NotEmpty(t, cfg.HubInstances)
	require.NoError(t, cfg.Validate())
}

func TestLoad_PrimaryInstanceOverride(t *testing.T) {
	t.Setenv("NITTER_INSTANCE", "https://nitter.internal.example/")

	cfg := config.Load()
	require.Equal(t, "https://nitter.internal.example", cfg.NitterInstances[0])

	// Подменяется только первое зеркало, остальной список остаётся встроенным.
	require.Greater(t, len(cfg.NitterInstances), 1)
	for _, base := range cfg.NitterInstances[1:] {
		require.NotEqual(t, "https://nitter.internal.example", base)
	}
	require.NoError(t, cfg.Validate())
}

func TestLoad_PublicURLTrimmed(t *testing.T) {
	t.Setenv("PUBLIC_URL", "https://proxy.example/")

	cfg := config.Load()
	require.Equal(t, "https://proxy.example", cfg.PublicURL)
}

func TestValidate_Errors(t *testing.T) {
	testCases := []struct {
		name string
		cfg  *config.Config
	}{
		{"empty mirror list", &config.Config{NitterInstances: nil, HubInstances: []string{"https://a.example"}}},
		{"invalid mirror URL", &config.Config{
			NitterInstances: []string{"not-a-url"},
			HubInstances:    []string{"https://a.example"},
		}},
		{"invalid public URL", &config.Config{
			NitterInstances: []string{"https://a.example"},
			HubInstances:    []string{"https://b.example"},
			PublicURL:       "::::",
		}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			require.Error(t, tc.cfg.Validate())
		})
	}
}
