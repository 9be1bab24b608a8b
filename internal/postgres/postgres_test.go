package postgres

import (
	"testing"

	"github.com/jackc/pgx/v5/tracelog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigString(t *testing.T) {
	assert.Equal(t, "host=127.0.0.1 dbname=postgres port=5432 sslmode=prefer", Config{}.String())
	assert.Equal(t, "host=db dbname=presale port=6432 sslmode=disable user=app password=secret", Config{
		Host:     "db",
		Port:     "6432",
		DBName:   "presale",
		SSLMode:  "disable",
		User:     "app",
		Password: "secret",
	}.String())

	url := "postgres://app@db:5432/presale?sslmode=disable"
	assert.Equal(t, url, Config{Host: "ignored", URL: url}.String())
}

func TestPoolConfig(t *testing.T) {
	poolConfig, err := Config{URL: "postgres://app@db:5432/presale?sslmode=disable"}.PoolConfig()
	require.NoError(t, err)
	assert.EqualValues(t, DefaultMaxConns, poolConfig.MaxConns)
	assert.Equal(t, DefaultApplicationName, poolConfig.ConnConfig.RuntimeParams["application_name"])

	poolConfig, err = Config{
		URL:      "postgres://app@db:5432/presale?sslmode=disable&application_name=worker",
		MaxConns: 4,
		Debug:    true,
	}.PoolConfig()
	require.NoError(t, err)
	assert.EqualValues(t, 4, poolConfig.MaxConns)
	assert.Equal(t, "worker", poolConfig.ConnConfig.RuntimeParams["application_name"])
	tracer, ok := poolConfig.ConnConfig.Tracer.(*tracelog.TraceLog)
	require.True(t, ok)
	assert.Equal(t, tracelog.LogLevelTrace, tracer.LogLevel)
}
