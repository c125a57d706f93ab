// internal/app/features/auditlog/handler.go
package auditlog

import (
	"github.com/madrichim/leadhub/internal/app/store/audit"
	"go.uber.org/zap"
)

// Handler serves the audit trail listing for administrators.
type Handler struct {
	Audit *audit.Store
	Log   *zap.Logger
}

func NewHandler(store *audit.Store, logger *zap.Logger) *Handler {
	return &Handler{Audit: store, Log: logger}
}
