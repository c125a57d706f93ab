package testutil

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/dalemusser/waffle/pantry/text"
	"github.com/go-chi/chi/v5"
	"github.com/madrichim/leadhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// WithChiURLParam adds a chi URL parameter to the request context.
// Use this in handler tests that need to access chi.URLParam values.
func WithChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// CreateLead inserts a minimal lead with the given names.
func (f *Fixtures) CreateLead(ctx context.Context, firstName, lastName string) models.Lead {
	f.t.Helper()

	l := models.Lead{
		ID:          primitive.NewObjectID(),
		FirstName:   firstName,
		LastName:    lastName,
		FirstNameCI: text.Fold(firstName),
		LastNameCI:  text.Fold(lastName),
		CreatedAt:   time.Now().UTC(),
	}
	if _, err := f.db.Collection("leads").InsertOne(ctx, l); err != nil {
		f.t.Fatalf("failed to create test lead: %v", err)
	}
	return l
}

// CreateLeadWithFields inserts a lead and applies the given tracked fields.
func (f *Fixtures) CreateLeadWithFields(ctx context.Context, firstName, lastName string, fields map[string]string) models.Lead {
	f.t.Helper()

	l := models.Lead{
		ID:          primitive.NewObjectID(),
		FirstName:   firstName,
		LastName:    lastName,
		FirstNameCI: text.Fold(firstName),
		LastNameCI:  text.Fold(lastName),
		CreatedAt:   time.Now().UTC(),
	}
	l.ApplyFields(fields)
	if _, err := f.db.Collection("leads").InsertOne(ctx, l); err != nil {
		f.t.Fatalf("failed to create test lead: %v", err)
	}
	return l
}

// CreateChangeRequest inserts a pending change request for a lead.
func (f *Fixtures) CreateChangeRequest(ctx context.Context, leadID primitive.ObjectID, field, oldValue, newValue, changedBy string) models.ChangeRequest {
	f.t.Helper()

	cr := models.ChangeRequest{
		ID:           primitive.NewObjectID(),
		LeadID:       leadID,
		FieldChanged: field,
		OldValue:     oldValue,
		NewValue:     newValue,
		ChangedBy:    changedBy,
		DateModified: time.Now().UTC(),
	}
	if _, err := f.db.Collection("change_requests").InsertOne(ctx, cr); err != nil {
		f.t.Fatalf("failed to create test change request: %v", err)
	}
	return cr
}

// CreateAdmin inserts an active administrator account.
func (f *Fixtures) CreateAdmin(ctx context.Context, name, email string) models.User {
	return f.createUser(ctx, name, email, models.RoleAdministrator)
}

// CreateVolunteer inserts an active volunteer account.
func (f *Fixtures) CreateVolunteer(ctx context.Context, name, email string) models.User {
	return f.createUser(ctx, name, email, models.RoleVolunteer)
}

func (f *Fixtures) createUser(ctx context.Context, name, email, role string) models.User {
	f.t.Helper()

	now := time.Now().UTC()
	u := models.User{
		ID:         primitive.NewObjectID(),
		FullName:   name,
		FullNameCI: text.Fold(name),
		Email:      email,
		EmailCI:    text.Fold(email),
		Role:       role,
		Status:     models.UserActive,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if _, err := f.db.Collection("users").InsertOne(ctx, u); err != nil {
		f.t.Fatalf("failed to create test user: %v", err)
	}
	return u
}
