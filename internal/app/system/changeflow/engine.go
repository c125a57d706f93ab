// Package changeflow decides what happens when someone saves a lead form.
//
// Administrators mutate the lead directly. Volunteers never do: each changed
// field becomes a pending ChangeRequest that an administrator later approves
// (lead updated, request deleted) or rejects (request deleted). A field with
// a pending request cannot be re-proposed until the request is resolved.
//
// The engine is stateless. Every call works on caller-supplied snapshots and
// the persistence interfaces; nothing is cached between calls, so concurrent
// saves on different leads need no coordination here. The pending list the
// caller supplies is a point-in-time read, not a lock: two volunteers racing
// on the same field can both get a request created. That gap is inherited
// from the product's workflow and is resolved by the administrator seeing
// both proposals, not by the engine.
package changeflow

import (
	"context"
	"errors"

	"github.com/madrichim/leadhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Role is the acting user's capability for a save.
type Role string

const (
	RoleAdministrator Role = Role(models.RoleAdministrator)
	RoleVolunteer     Role = Role(models.RoleVolunteer)
)

// RoleFromString maps a stored role value onto an engine role.
// ok is false for anything the engine does not authorize.
func RoleFromString(s string) (Role, bool) {
	switch Role(s) {
	case RoleAdministrator:
		return RoleAdministrator, true
	case RoleVolunteer:
		return RoleVolunteer, true
	default:
		return "", false
	}
}

var (
	// ErrUnauthorizedRole means the role is neither administrator nor
	// volunteer; no mutation was attempted.
	ErrUnauthorizedRole = errors.New("role not authorized to save")

	// ErrStaleAfterApply means an approval updated the lead but failed to
	// remove the change request. The applied value is live and the stale
	// request needs manual reconciliation; callers must not conflate this
	// with an approval that failed outright.
	ErrStaleAfterApply = errors.New("lead updated but change request still pending")
)

// LeadUpdater is the slice of the lead store the engine needs.
type LeadUpdater interface {
	UpdateFields(ctx context.Context, id primitive.ObjectID, fields map[string]string) error
}

// RequestStore is the slice of the change-request store the engine needs.
type RequestStore interface {
	Create(ctx context.Context, cr models.ChangeRequest) (models.ChangeRequest, error)
	ListByLead(ctx context.Context, leadID primitive.ObjectID) ([]models.ChangeRequest, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// Engine routes saves and approvals. Safe for concurrent use.
type Engine struct {
	leads    LeadUpdater
	requests RequestStore
	log      *zap.Logger
}

// New constructs an Engine.
func New(leads LeadUpdater, requests RequestStore, logger *zap.Logger) *Engine {
	return &Engine{leads: leads, requests: requests, log: logger}
}
