// internal/app/features/leadimport/handler.go
package leadimport

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
	leadstore "github.com/madrichim/leadhub/internal/app/store/leads"
	"github.com/madrichim/leadhub/internal/app/system/auditlog"
	"github.com/madrichim/leadhub/internal/app/system/authz"
	"github.com/madrichim/leadhub/internal/app/system/csvutil"
	"github.com/madrichim/leadhub/internal/app/system/fieldrules"
	"github.com/madrichim/leadhub/internal/app/system/htmlsanitize"
	"github.com/madrichim/leadhub/internal/app/system/normalize"
	"github.com/madrichim/leadhub/internal/app/system/respond"
	"github.com/madrichim/leadhub/internal/app/system/timeouts"
	"github.com/madrichim/leadhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

// Handler serves the CSV lead import endpoint.
type Handler struct {
	Leads    *leadstore.Store
	AuditLog *auditlog.Logger
	Log      *zap.Logger
}

func NewHandler(leads *leadstore.Store, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{Leads: leads, AuditLog: audit, Log: logger}
}

type importResponse struct {
	BatchID  string   `json:"batch_id"`
	Imported int      `json:"imported"`
	Skipped  int      `json:"skipped"`
	Warnings []string `json:"warnings,omitempty"`
}

type importErrorResponse struct {
	Error  string            `json:"error"`
	Errors []csvutil.RowError `json:"errors"`
}

// HandleImport handles POST /leads/import. The multipart "file" part is
// parsed and validated as a whole before anything is written; a file with
// any bad row imports nothing. Rows whose email already exists are skipped,
// not treated as errors, so re-running an import is safe.
func (h *Handler) HandleImport(w http.ResponseWriter, r *http.Request) {
	_, _, actorID, ok := authz.UserCtx(r)
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, csvutil.MaxUploadSize)
	if err := r.ParseMultipartForm(csvutil.MaxUploadSize); err != nil {
		respond.Error(w, http.StatusBadRequest, "upload too large or malformed")
		return
	}
	file, _, err := r.FormFile("file")
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "file part is required")
		return
	}
	defer file.Close()

	result, err := csvutil.ParseLeadCSV(file, csvutil.DefaultParseOptions())
	if err != nil {
		if errors.Is(err, csvutil.ErrTooManyRows) {
			respond.Error(w, http.StatusBadRequest, "csv exceeds the maximum row count")
			return
		}
		respond.Error(w, http.StatusBadRequest, "could not parse csv file")
		return
	}
	if result.HasErrors() {
		respond.JSON(w, http.StatusBadRequest, importErrorResponse{
			Error:  "csv file has invalid rows; nothing was imported",
			Errors: result.Errors,
		})
		return
	}
	if len(result.Rows) == 0 {
		respond.Error(w, http.StatusBadRequest, "csv file has no data rows")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Batch())
	defer cancel()

	existing, err := h.existingEmails(ctx, result.Rows)
	if err != nil {
		h.Log.Error("check existing emails failed", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "internal error")
		return
	}

	var (
		batch   []models.Lead
		skipped int
	)
	for _, row := range result.Rows {
		fields := fieldrules.Normalize(row.Fields)
		if notes, ok := fields[models.FieldNotes]; ok {
			fields[models.FieldNotes] = htmlsanitize.Sanitize(notes)
		}
		if email, ok := fields[models.FieldEmail]; ok {
			fields[models.FieldEmail] = normalize.Email(email)
			if existing[fields[models.FieldEmail]] {
				skipped++
				continue
			}
		}

		var l models.Lead
		l.ApplyFields(fields)
		l.FirstName = strings.TrimSpace(l.FirstName)
		l.LastName = strings.TrimSpace(l.LastName)
		batch = append(batch, l)
	}

	batchID := uuid.NewString()
	imported, err := h.Leads.InsertBatch(ctx, batch, batchID)
	if err != nil {
		h.Log.Error("insert import batch failed",
			zap.Error(err),
			zap.String("batch_id", batchID),
			zap.Int("inserted", imported))
		respond.Error(w, http.StatusInternalServerError, "import failed")
		return
	}

	h.AuditLog.LeadsImported(ctx, r, actorID, batchID, imported, skipped)
	h.Log.Info("leads imported",
		zap.String("batch_id", batchID),
		zap.Int("imported", imported),
		zap.Int("skipped", skipped))

	respond.JSON(w, http.StatusOK, importResponse{
		BatchID:  batchID,
		Imported: imported,
		Skipped:  skipped,
	})
}

// existingEmails looks up which of the file's emails are already taken.
func (h *Handler) existingEmails(ctx context.Context, rows []csvutil.LeadRow) (map[string]bool, error) {
	var emails []string
	for _, row := range rows {
		if e := normalize.Email(row.Fields[models.FieldEmail]); e != "" {
			emails = append(emails, e)
		}
	}
	taken := map[string]bool{}
	if len(emails) == 0 {
		return taken, nil
	}

	found, err := h.Leads.Find(ctx, bson.M{models.FieldEmail: bson.M{"$in": emails}}, nil)
	if err != nil {
		return nil, err
	}
	for _, l := range found {
		taken[l.Email] = true
	}
	return taken, nil
}
