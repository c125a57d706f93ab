// internal/app/features/changerequests/handler.go
package changerequests

import (
	crstore "github.com/madrichim/leadhub/internal/app/store/changerequests"
	leadstore "github.com/madrichim/leadhub/internal/app/store/leads"
	"github.com/madrichim/leadhub/internal/app/system/auditlog"
	"github.com/madrichim/leadhub/internal/app/system/changeflow"
	"go.uber.org/zap"
)

// Handler serves the change request review endpoints.
type Handler struct {
	Requests *crstore.Store
	Engine   *changeflow.Engine
	AuditLog *auditlog.Logger
	Log      *zap.Logger
}

func NewHandler(leads *leadstore.Store, requests *crstore.Store, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		Requests: requests,
		Engine:   changeflow.New(leads, requests, logger),
		AuditLog: audit,
		Log:      logger,
	}
}
