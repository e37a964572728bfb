package user

import "github.com/ferdiebergado/tokenkit/internal/platform/db"

// Module is the user directory: account storage, role administration and the admin routes.
// The auth module consumes its Service to look up and register accounts.
type Module struct {
	svc     Service
	handler *Handler
}

func NewModule(dbExec db.Executor) *Module {
	svc := NewService(NewRepository(dbExec))
	return &Module{
		svc:     svc,
		handler: NewHandler(svc),
	}
}

func (m *Module) Service() Service {
	return m.svc
}

func (m *Module) Handler() *Handler {
	return m.handler
}
