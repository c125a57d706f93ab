// internal/app/features/leads/handler.go
package leads

import (
	leadstore "github.com/madrichim/leadhub/internal/app/store/leads"
	crstore "github.com/madrichim/leadhub/internal/app/store/changerequests"
	"github.com/madrichim/leadhub/internal/app/system/auditlog"
	"github.com/madrichim/leadhub/internal/app/system/changeflow"
	"go.uber.org/zap"
)

// Handler serves the lead list, intake, detail, and section-save endpoints.
type Handler struct {
	Leads    *leadstore.Store
	Requests *crstore.Store
	Engine   *changeflow.Engine
	AuditLog *auditlog.Logger
	Log      *zap.Logger
}

func NewHandler(leads *leadstore.Store, requests *crstore.Store, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		Leads:    leads,
		Requests: requests,
		Engine:   changeflow.New(leads, requests, logger),
		AuditLog: audit,
		Log:      logger,
	}
}
