package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("should fall back to defaults when file is missing", func(t *testing.T) {
		cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))

		require.NoError(t, err)
		assert.Equal(t, Defaults(), cfg)
	})

	t.Run("should layer file then environment over defaults", func(t *testing.T) {
		// given
		path := filepath.Join(t.TempDir(), "application.yaml")
		content := "db:\n  path: /var/lib/gestfin/app.db\nauth:\n  secret: from-file\n  accessttl: 5m\n"
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
		t.Setenv("GESTFIN_AUTH_SECRET", "from-env")

		// when
		cfg, err := Load(path)

		// then
		require.NoError(t, err)
		assert.Equal(t, "/var/lib/gestfin/app.db", cfg.Database.Path)
		assert.Equal(t, "from-env", cfg.Auth.Secret)
		assert.Equal(t, 5*time.Minute, cfg.Auth.AccessTTL)
		assert.Equal(t, 5000, cfg.Database.BusyTimeoutMs)
	})
}
