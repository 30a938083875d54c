package app_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gohornet/verdict/core/app"
)

func TestLoadSecrets(t *testing.T) {
	t.Setenv("VERDICT_JWT_SECRET", "0123456789abcdef0123456789abcdef")
	t.Setenv("VERDICT_INDEXER_DSN", "host=localhost user=verdict dbname=verdict")

	secrets, err := app.LoadSecrets()
	require.NoError(t, err)
	require.Equal(t, "0123456789abcdef0123456789abcdef", secrets.JWTSecret)
	require.Equal(t, "host=localhost user=verdict dbname=verdict", secrets.IndexerDSN)
}

func TestLoadSecretsEmpty(t *testing.T) {
	t.Setenv("VERDICT_JWT_SECRET", "")
	t.Setenv("VERDICT_INDEXER_DSN", "")

	secrets, err := app.LoadSecrets()
	require.NoError(t, err)
	require.Empty(t, secrets.JWTSecret)
	require.Empty(t, secrets.IndexerDSN)
}
