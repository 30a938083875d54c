package app

import (
	"github.com/caarlos0/env/v11"
	"github.com/pkg/errors"
)

// Secrets are only read from the environment and never from the config file or flags.
type Secrets struct {
	// The HMAC secret the REST API signs identity tokens with.
	JWTSecret string `env:"VERDICT_JWT_SECRET"`
	// The connection string of the postgres indexer.
	IndexerDSN string `env:"VERDICT_INDEXER_DSN"`
}

// LoadSecrets parses the secrets from the environment variables.
func LoadSecrets() (*Secrets, error) {
	secrets := &Secrets{}
	if err := env.Parse(secrets); err != nil {
		return nil, errors.Wrap(err, "parsing secrets from the environment failed")
	}
	return secrets, nil
}
