// internal/app/features/users/manage.go
package users

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	userstore "github.com/madrichim/leadhub/internal/app/store/users"
	"github.com/madrichim/leadhub/internal/app/system/authz"
	"github.com/madrichim/leadhub/internal/app/system/inputval"
	"github.com/madrichim/leadhub/internal/app/system/respond"
	"github.com/madrichim/leadhub/internal/app/system/timeouts"
	"github.com/madrichim/leadhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// bcrypt work factor for staff passwords.
const passwordCost = bcrypt.DefaultCost

const minPasswordLength = 8

type createUserRequest struct {
	FullName string `json:"full_name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Role     string `json:"role" validate:"required"`
	Status   string `json:"status"`
	Password string `json:"password" validate:"required"`
}

type updateUserRequest struct {
	FullName string `json:"full_name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Role     string `json:"role" validate:"required"`
	Status   string `json:"status" validate:"required"`
}

type setPasswordRequest struct {
	Password string `json:"password" validate:"required"`
}

// ServeList handles GET /users/.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	rows, err := h.Users.List(ctx)
	if err != nil {
		h.Log.Error("list users failed", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "internal error")
		return
	}
	if rows == nil {
		rows = []models.User{}
	}
	respond.JSON(w, http.StatusOK, map[string]any{"users": rows, "total": len(rows)})
}

// HandleCreate handles POST /users/.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	_, _, actorID, ok := authz.UserCtx(r)
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req createUserRequest
	if err := respond.DecodeBody(w, r, &req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if res := inputval.Validate(&req); res.HasErrors() {
		respond.Error(w, http.StatusBadRequest, res.First())
		return
	}
	if len(req.Password) < minPasswordLength {
		respond.Error(w, http.StatusBadRequest, "password must be at least 8 characters")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), passwordCost)
	if err != nil {
		h.Log.Error("hash password failed", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "internal error")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	created, err := h.Users.Create(ctx, models.User{
		FullName:     req.FullName,
		Email:        req.Email,
		Role:         req.Role,
		Status:       req.Status,
		PasswordHash: string(hash),
	})
	if err != nil {
		if errors.Is(err, userstore.ErrDuplicateEmail) {
			respond.Error(w, http.StatusConflict, "a user with this email already exists")
			return
		}
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	h.AuditLog.UserCreated(ctx, r, actorID, created.ID, created.Role)
	respond.JSON(w, http.StatusCreated, created)
}

// HandleUpdate handles PUT /users/{userID}.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	_, _, actorID, ok := authz.UserCtx(r)
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "userID"))
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid user id")
		return
	}

	var req updateUserRequest
	if err := respond.DecodeBody(w, r, &req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if res := inputval.Validate(&req); res.HasErrors() {
		respond.Error(w, http.StatusBadRequest, res.First())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	// Demoting or disabling the last active administrator would lock
	// everyone out of the review screens.
	if req.Role != models.RoleAdministrator || req.Status != models.UserActive {
		if locked, err := h.wouldRemoveLastAdmin(ctx, id); err != nil {
			h.Log.Error("count administrators failed", zap.Error(err))
			respond.Error(w, http.StatusInternalServerError, "internal error")
			return
		} else if locked {
			respond.Error(w, http.StatusConflict, "cannot demote or disable the last active administrator")
			return
		}
	}

	if err := h.Users.Update(ctx, id, userstore.Update{
		FullName: req.FullName,
		Email:    req.Email,
		Role:     req.Role,
		Status:   req.Status,
	}); err != nil {
		switch {
		case errors.Is(err, userstore.ErrNotFound):
			respond.Error(w, http.StatusNotFound, "user not found")
		case errors.Is(err, userstore.ErrDuplicateEmail):
			respond.Error(w, http.StatusConflict, "a user with this email already exists")
		default:
			respond.Error(w, http.StatusBadRequest, err.Error())
		}
		return
	}

	h.AuditLog.UserUpdated(ctx, r, actorID, id, req.Role)
	respond.JSON(w, http.StatusOK, map[string]string{"message": "user updated"})
}

// HandleSetPassword handles POST /users/{userID}/password.
func (h *Handler) HandleSetPassword(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "userID"))
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid user id")
		return
	}

	var req setPasswordRequest
	if err := respond.DecodeBody(w, r, &req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(req.Password) < minPasswordLength {
		respond.Error(w, http.StatusBadRequest, "password must be at least 8 characters")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), passwordCost)
	if err != nil {
		h.Log.Error("hash password failed", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "internal error")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if err := h.Users.SetPasswordHash(ctx, id, string(hash)); err != nil {
		if errors.Is(err, userstore.ErrNotFound) {
			respond.Error(w, http.StatusNotFound, "user not found")
			return
		}
		h.Log.Error("set password failed", zap.Error(err), zap.String("user_id", id.Hex()))
		respond.Error(w, http.StatusInternalServerError, "internal error")
		return
	}

	respond.JSON(w, http.StatusOK, map[string]string{"message": "password updated"})
}

// HandleDelete handles DELETE /users/{userID}.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	_, _, actorID, ok := authz.UserCtx(r)
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "userID"))
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid user id")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	target, err := h.Users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, userstore.ErrNotFound) {
			respond.Error(w, http.StatusNotFound, "user not found")
			return
		}
		h.Log.Error("load user failed", zap.Error(err), zap.String("user_id", id.Hex()))
		respond.Error(w, http.StatusInternalServerError, "internal error")
		return
	}

	if target.Role == models.RoleAdministrator {
		if locked, err := h.wouldRemoveLastAdmin(ctx, id); err != nil {
			h.Log.Error("count administrators failed", zap.Error(err))
			respond.Error(w, http.StatusInternalServerError, "internal error")
			return
		} else if locked {
			respond.Error(w, http.StatusConflict, "cannot delete the last active administrator")
			return
		}
	}

	if _, err := h.Users.Delete(ctx, id); err != nil {
		h.Log.Error("delete user failed", zap.Error(err), zap.String("user_id", id.Hex()))
		respond.Error(w, http.StatusInternalServerError, "internal error")
		return
	}

	h.AuditLog.UserDeleted(ctx, r, actorID, id, target.Role)
	respond.JSON(w, http.StatusOK, map[string]string{"message": "user deleted"})
}

// wouldRemoveLastAdmin reports whether taking id out of the active admin
// pool leaves it empty.
func (h *Handler) wouldRemoveLastAdmin(ctx context.Context, id primitive.ObjectID) (bool, error) {
	target, err := h.Users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, userstore.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	if target.Role != models.RoleAdministrator || target.Status != models.UserActive {
		return false, nil
	}

	n, err := h.Users.CountAdmins(ctx)
	if err != nil {
		return false, err
	}
	return n <= 1, nil
}
