// internal/app/features/logout/handler.go
package logout

import (
	"net/http"

	"github.com/madrichim/leadhub/internal/app/system/auditlog"
	"github.com/madrichim/leadhub/internal/app/system/auth"
	"github.com/madrichim/leadhub/internal/app/system/respond"
	"go.uber.org/zap"
)

type Handler struct {
	AuditLog *auditlog.Logger
	Log      *zap.Logger
}

func NewHandler(audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		AuditLog: audit,
		Log:      logger,
	}
}

// HandleLogout handles POST /logout.
func (h *Handler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	u, _ := auth.CurrentUser(r)

	if err := auth.SignOut(w, r); err != nil {
		h.Log.Error("logout: clear session", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "internal error")
		return
	}

	if u != nil {
		h.AuditLog.Logout(r.Context(), r, u.ID)
		h.Log.Info("user signed out", zap.String("user_id", u.ID))
	}

	respond.JSON(w, http.StatusOK, map[string]string{"message": "signed out"})
}
