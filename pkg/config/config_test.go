package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromViper_Defaults(t *testing.T) {
	cfg, err := fromViper(viper.New())
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, StoragePostgres, cfg.App.StorageDriver)
	assert.Equal(t, 5432, cfg.DB.Port)
	assert.Equal(t, 100, cfg.Export.PageSize)
	assert.Equal(t, 24*time.Hour, cfg.Redis.CartTTL())
	assert.Equal(t, "0.0.0.0:8080", cfg.HTTP.Addr())
	assert.Equal(t, "America/Mexico_City", cfg.App.Location().String())
}

func TestFromViper_ZonaHorariaInvalida(t *testing.T) {
	v := viper.New()
	v.Set("APP_TIMEZONE", "Marte/Olympus")
	_, err := fromViper(v)
	assert.Error(t, err)
}

func TestFromViper_ValoresDesdeEnv(t *testing.T) {
	v := viper.New()
	v.Set("STORAGE_DRIVER", "memory")
	v.Set("DB_PORT", "6543")
	v.Set("EXPORT_PAGE_SIZE", 50)
	v.Set("SWAGGER_ENABLED", "true")

	cfg, err := fromViper(v)
	require.NoError(t, err)
	assert.Equal(t, StorageMemory, cfg.App.StorageDriver)
	assert.Equal(t, 6543, cfg.DB.Port)
	assert.Equal(t, 50, cfg.Export.PageSize)
	assert.True(t, cfg.Docs.SwaggerEnabled)
}

func TestFromViper_DriverInvalido(t *testing.T) {
	v := viper.New()
	v.Set("STORAGE_DRIVER", "mongo")
	_, err := fromViper(v)
	assert.Error(t, err)
}

func TestFromViper_PageSizeFueraDeRango(t *testing.T) {
	v := viper.New()
	v.Set("EXPORT_PAGE_SIZE", 1000)
	_, err := fromViper(v)
	assert.Error(t, err)
}

func TestDBConfig_ConnectionString(t *testing.T) {
	c := DBConfig{Host: "db", Port: 5432, User: "u", Password: "p@ss/word", DBName: "x", SSLMode: "disable"}
	assert.Equal(t, "postgres://u:p%40ss%2Fword@db:5432/x?sslmode=disable", c.ConnectionString())

	c.DatabaseURL = "postgres://override"
	assert.Equal(t, "postgres://override", c.ConnectionString())
}
