package auth

import (
	"time"

	"github.com/ferdiebergado/tokenkit/internal/config"
	"github.com/ferdiebergado/tokenkit/internal/metrics"
	"github.com/ferdiebergado/tokenkit/internal/platform/db"
	"github.com/ferdiebergado/tokenkit/internal/platform/hash"
	"github.com/ferdiebergado/tokenkit/internal/token"
	"github.com/ferdiebergado/tokenkit/internal/user"
)

type Provider struct {
	Cfg           *config.Config
	DB            db.Executor
	TxMgr         db.TxManager
	Hasher        hash.Hasher
	Authenticator token.Authenticator
	UserSvc       user.Service
	Metrics       *metrics.Metrics
	Clock         func() time.Time
}

type Module struct {
	svc     Service
	handler *Handler
}

func (m *Module) Handler() *Handler {
	return m.handler
}

func (m *Module) Service() Service {
	return m.svc
}

func NewModule(provider *Provider) *Module {
	svc := NewService(&Dependencies{
		Authenticator: provider.Authenticator,
		Hasher:        provider.Hasher,
		Users:         provider.UserSvc,
		Revocations:   NewRevocationRepository(provider.DB),
		TxManager:     provider.TxMgr,
		Metrics:       provider.Metrics,
		Clock:         provider.Clock,
	})
	handler := NewHandler(svc, provider.Cfg.Cookie, provider.Clock)
	return &Module{
		svc:     svc,
		handler: handler,
	}
}
