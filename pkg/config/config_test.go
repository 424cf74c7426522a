package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Ofertare-api/pkg/config"
)

func TestLoad_SinSecretFalla(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	_, err := config.Load()
	assert.Error(t, err)
}

func TestLoad_ValoresPorDefectoYListas(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("FEROSHOP_ALLOWED_SLUGS", " accesorii , mobila,, ")
	t.Setenv("FEROSHOP_TIMEOUT_SECONDS", "3")
	t.Setenv("HTTP_PORT", "9090")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, []string{"accesorii", "mobila"}, cfg.FeroShop.AllowedSlugs)
	assert.Equal(t, 3*time.Second, cfg.FeroShop.Timeout)
	assert.Equal(t, "0.0.0.0:9090", cfg.HTTP.Addr())
	assert.Equal(t, 10, cfg.Local.BackupLimit)
	assert.False(t, cfg.DB.MirrorEnabled)
}

func TestDBConfig_DSNEscapaPassword(t *testing.T) {
	c := config.DBConfig{Host: "db", Port: 5432, User: "app", Password: "p@ss/w", DBName: "ofertare", SSLMode: "disable"}

	assert.Equal(t, "postgres://app:p%40ss%2Fw@db:5432/ofertare?sslmode=disable", c.ConnectionString())
}
