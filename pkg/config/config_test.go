package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, 500, cfg.Search.MaxPostsPerTheme)
	assert.Equal(t, 20, cfg.Search.PageSize)
	assert.Equal(t, 10, cfg.Filter.MinFollowers)
	assert.Equal(t, 90, cfg.Filter.MaxDaysInactive)
	assert.Equal(t, "results", cfg.Output.BaseName)
	assert.Equal(t, time.Second, cfg.RateLimit.SearchInterval)
	assert.Equal(t, 500*time.Millisecond, cfg.RateLimit.ProfileInterval)
	assert.Empty(t, cfg.Search.Themes)
	assert.NoError(t, cfg.Validate())
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("TUMBLR_CONSUMER_KEY", "ck")
	t.Setenv("TUMBLR_CONSUMER_SECRET", "cs")
	t.Setenv("TUMBLR_OAUTH_TOKEN", "tok")
	t.Setenv("TUMBLR_OAUTH_SECRET", "sec")
	t.Setenv("BLOGFINDER_THEMES", "vintage, film photography ,,")
	t.Setenv("BLOGFINDER_MIN_FOLLOWERS", "25")
	t.Setenv("BLOGFINDER_WORD_BOUNDARY", "true")
	t.Setenv("BLOGFINDER_LOG_LEVEL", "debug")

	cfg := DefaultConfig()
	require.NoError(t, cfg.LoadFromEnv())

	assert.True(t, cfg.HasCredentials())
	assert.Equal(t, []string{"vintage", "film photography"}, cfg.Search.Themes)
	assert.Equal(t, 25, cfg.Filter.MinFollowers)
	assert.True(t, cfg.Filter.WordBoundary)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoadFromEnvRejectsBadNumbers(t *testing.T) {
	t.Setenv("BLOGFINDER_PAGE_SIZE", "twenty")
	t.Setenv("BLOGFINDER_POST_MENTIONS", "maybe")

	err := DefaultConfig().LoadFromEnv()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "BLOGFINDER_PAGE_SIZE")
	assert.Contains(t, err.Error(), "BLOGFINDER_POST_MENTIONS")
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
search:
  themes: [vintage, zines]
  max_posts_per_theme: 100
  page_size: 10
filter:
  min_followers: 3
  extra_locations: [humboldt]
rate_limit:
  search_interval: 2s
output:
  base_name: ca_blogs
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg := DefaultConfig()
	require.NoError(t, cfg.LoadFromFile(path))

	assert.Equal(t, []string{"vintage", "zines"}, cfg.Search.Themes)
	assert.Equal(t, 100, cfg.Search.MaxPostsPerTheme)
	assert.Equal(t, 10, cfg.Search.PageSize)
	assert.Equal(t, 3, cfg.Filter.MinFollowers)
	assert.Equal(t, []string{"humboldt"}, cfg.Filter.ExtraLocations)
	assert.Equal(t, 2*time.Second, cfg.RateLimit.SearchInterval)
	assert.Equal(t, "ca_blogs", cfg.Output.BaseName)
	// untouched keys keep defaults
	assert.Equal(t, 90, cfg.Filter.MaxDaysInactive)
}

func TestLoadFromFileErrors(t *testing.T) {
	cfg := DefaultConfig()
	assert.Error(t, cfg.LoadFromFile(filepath.Join(t.TempDir(), "missing.yaml")))

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("search: [unclosed"), 0644))
	assert.Error(t, cfg.LoadFromFile(bad))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"zero max posts", func(c *Config) { c.Search.MaxPostsPerTheme = 0 }, "max posts"},
		{"page size too big", func(c *Config) { c.Search.PageSize = 21 }, "page size"},
		{"page size zero", func(c *Config) { c.Search.PageSize = 0 }, "page size"},
		{"negative followers", func(c *Config) { c.Filter.MinFollowers = -1 }, "min followers"},
		{"zero days", func(c *Config) { c.Filter.MaxDaysInactive = 0 }, "max days"},
		{"search interval floor", func(c *Config) { c.RateLimit.SearchInterval = 100 * time.Millisecond }, "search interval"},
		{"profile interval floor", func(c *Config) { c.RateLimit.ProfileInterval = time.Millisecond }, "profile interval"},
		{"blank output", func(c *Config) { c.Output.BaseName = "  " }, "output"},
		{"log level", func(c *Config) { c.Logging.Level = "verbose" }, "log level"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidateForRun(t *testing.T) {
	cfg := DefaultConfig()
	err := cfg.ValidateForRun()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "theme")
	assert.Contains(t, err.Error(), "OAuth")

	cfg.Search.Themes = []string{"vintage"}
	cfg.Tumblr = TumblrConfig{ConsumerKey: "a", ConsumerSecret: "b", OAuthToken: "c", OAuthSecret: "d", Timeout: time.Second}
	assert.NoError(t, cfg.ValidateForRun())
}

func TestMergeCommandLineFlags(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MergeCommandLineFlags(map[string]interface{}{
		"themes":            []string{" a ", "", "b"},
		"output":            "out/ca",
		"min-followers":     0,
		"max-days-inactive": 30,
		"post-mentions":     true,
		"account":           "work",
	})

	assert.Equal(t, []string{"a", "b"}, cfg.Search.Themes)
	assert.Equal(t, "out/ca", cfg.Output.BaseName)
	assert.Equal(t, 0, cfg.Filter.MinFollowers)
	assert.Equal(t, 30, cfg.Filter.MaxDaysInactive)
	assert.True(t, cfg.Filter.UsePostMentions)
	assert.Equal(t, "work", cfg.Tumblr.Account)
	assert.Equal(t, 20, cfg.Search.PageSize)
}

func TestOutputBase(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Output.Directory = "exports"
	assert.Equal(t, filepath.Join("exports", "results"), cfg.OutputBase())

	cfg.Output.Directory = ""
	assert.Equal(t, "results", cfg.OutputBase())
}

func TestRedacted(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Tumblr.ConsumerKey = "secret-key"

	red := cfg.Redacted()
	assert.Equal(t, "********", red.Tumblr.ConsumerKey)
	assert.Empty(t, red.Tumblr.OAuthSecret)
	assert.Equal(t, "secret-key", cfg.Tumblr.ConsumerKey)
}

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := DefaultConfig()
	cfg.Search.Themes = []string{"vintage"}
	require.NoError(t, cfg.Save(path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	loaded, err := Load(path, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"vintage"}, loaded.Search.Themes)
}

func TestLoadPrecedence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("filter:\n  min_followers: 3\n"), 0644))
	t.Setenv("BLOGFINDER_MIN_FOLLOWERS", "7")

	cfg, err := Load(path, nil)
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.Filter.MinFollowers)

	cfg, err = Load(path, map[string]interface{}{"min-followers": 11})
	require.NoError(t, err)
	assert.Equal(t, 11, cfg.Filter.MinFollowers)
}

func TestLoadValidationFailure(t *testing.T) {
	_, err := Load("", map[string]interface{}{"page-size": 50})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "validation failed")
}
