package app

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/ferdiebergado/tokenkit/internal/config"
	"github.com/ferdiebergado/tokenkit/internal/metrics"
	"github.com/ferdiebergado/tokenkit/internal/platform/db"
	"github.com/ferdiebergado/tokenkit/internal/platform/hash"
	"github.com/ferdiebergado/tokenkit/internal/platform/router"
	"github.com/ferdiebergado/tokenkit/internal/platform/validation"
	"github.com/ferdiebergado/tokenkit/internal/token"
)

type Provider struct {
	Cfg           *config.Config
	DB            *sql.DB
	TxMgr         db.TxManager
	Authenticator token.Authenticator
	Hasher        hash.Hasher
	Validator     validation.Validator
	Router        router.Router
	Metrics       *metrics.Metrics
	Clock         func() time.Time
}

// newProvider builds every shared dependency. A signing key shorter than
// token.MinKeyLength is fatal.
func newProvider(cfg *config.Config, dbConn *sql.DB) (*Provider, error) {
	key := cfg.App.Key

	authenticator, err := token.New(cfg.JWT, key)
	if err != nil {
		return nil, fmt.Errorf("new authenticator: %w", err)
	}

	hasher, err := hash.NewArgon2Hasher(cfg.Argon2, key)
	if err != nil {
		return nil, fmt.Errorf("new argon2 hasher: %w", err)
	}

	m := metrics.New()

	return &Provider{
		Cfg:           cfg,
		DB:            dbConn,
		TxMgr:         db.NewSQLTxManager(dbConn),
		Authenticator: metrics.Instrument(authenticator, m),
		Hasher:        hasher,
		Validator:     validation.NewGoPlaygroundValidator(),
		Router:        router.NewGoexpressRouter(),
		Metrics:       m,
		Clock:         time.Now,
	}, nil
}
