package changerequeststore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/madrichim/leadhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("change_requests")}
}

var (
	// ErrNotFound is returned when the change request does not exist.
	ErrNotFound = errors.New("change request not found")
)

// Create inserts a pending change request. The field name is validated
// against the tracked-field registry; change requests for unknown fields
// would be unapprovable.
func (s *Store) Create(ctx context.Context, cr models.ChangeRequest) (models.ChangeRequest, error) {
	if !models.IsLeadField(cr.FieldChanged) {
		return models.ChangeRequest{}, fmt.Errorf("unknown lead field %q", cr.FieldChanged)
	}
	cr.ID = primitive.NewObjectID()
	if cr.DateModified.IsZero() {
		cr.DateModified = time.Now().UTC()
	}
	if _, err := s.c.InsertOne(ctx, cr); err != nil {
		return models.ChangeRequest{}, err
	}
	return cr, nil
}

// GetByID loads a change request by ObjectID. Returns ErrNotFound if absent.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.ChangeRequest, error) {
	var cr models.ChangeRequest
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&cr); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &cr, nil
}

// ListByLead returns all pending requests for one lead, oldest first.
func (s *Store) ListByLead(ctx context.Context, leadID primitive.ObjectID) ([]models.ChangeRequest, error) {
	opts := options.Find().SetSort(bson.D{{Key: "date_modified", Value: 1}, {Key: "_id", Value: 1}})
	cur, err := s.c.Find(ctx, bson.M{"lead_id": leadID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var rows []models.ChangeRequest
	if err := cur.All(ctx, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// ListAll returns every pending request, newest first. The review screen
// shows all of them; the collection only ever holds unresolved proposals,
// so no status filter exists.
func (s *Store) ListAll(ctx context.Context) ([]models.ChangeRequest, error) {
	opts := options.Find().SetSort(bson.D{{Key: "date_modified", Value: -1}, {Key: "_id", Value: -1}})
	cur, err := s.c.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var rows []models.ChangeRequest
	if err := cur.All(ctx, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// Count counts pending requests matching the filter.
func (s *Store) Count(ctx context.Context, filter bson.M) (int64, error) {
	return s.c.CountDocuments(ctx, filter)
}

// Delete removes a change request. Both approval and rejection end here.
// Returns ErrNotFound when nothing was deleted.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
