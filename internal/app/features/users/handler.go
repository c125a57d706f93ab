// internal/app/features/users/handler.go
package users

import (
	userstore "github.com/madrichim/leadhub/internal/app/store/users"
	"github.com/madrichim/leadhub/internal/app/system/auditlog"
	"go.uber.org/zap"
)

// Handler serves the staff account admin endpoints.
type Handler struct {
	Users    *userstore.Store
	AuditLog *auditlog.Logger
	Log      *zap.Logger
}

func NewHandler(users *userstore.Store, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{Users: users, AuditLog: audit, Log: logger}
}
