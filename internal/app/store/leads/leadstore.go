package leadstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dalemusser/waffle/pantry/text"
	"github.com/madrichim/leadhub/internal/app/system/fieldrules"
	"github.com/madrichim/leadhub/internal/app/system/normalize"
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
	return &Store{c: db.Collection("leads")}
}

var (
	// ErrNotFound is returned when the lead does not exist.
	ErrNotFound     = errors.New("lead not found")
	errNameRequired = errors.New("first name and last name are required")
)

// Create inserts a new lead after normalizing and validating fields.
// The field rules run once here so a lead never enters the collection with
// dependent fields its governing values do not justify.
func (s *Store) Create(ctx context.Context, l models.Lead) (models.Lead, error) {
	l.FirstName = normalize.Name(l.FirstName)
	l.LastName = normalize.Name(l.LastName)
	if l.FirstName == "" || l.LastName == "" {
		return models.Lead{}, errNameRequired
	}

	l.ApplyFields(fieldrules.Normalize(l.FieldMap()))

	l.ID = primitive.NewObjectID()
	l.FirstNameCI = text.Fold(l.FirstName)
	l.LastNameCI = text.Fold(l.LastName)
	l.Email = normalize.Email(l.Email)
	l.CreatedAt = time.Now().UTC()
	l.UpdatedAt = nil

	if _, err := s.c.InsertOne(ctx, l); err != nil {
		return models.Lead{}, err
	}
	return l, nil
}

// GetByID loads a lead by ObjectID. Returns ErrNotFound if absent.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Lead, error) {
	var l models.Lead
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&l); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &l, nil
}

// UpdateFields sets the given tracked fields on a lead. Every field name is
// validated against the tracked-field registry before anything is written;
// one unknown name rejects the whole update. Name fields keep their CI
// shadows in sync. Returns ErrNotFound when no lead matched.
func (s *Store) UpdateFields(ctx context.Context, id primitive.ObjectID, fields map[string]string) error {
	if len(fields) == 0 {
		return nil
	}
	set := bson.M{}
	for name, v := range fields {
		if !models.IsLeadField(name) {
			return fmt.Errorf("unknown lead field %q", name)
		}
		set[name] = v
	}
	if v, ok := fields[models.FieldFirstName]; ok {
		set["first_name_ci"] = text.Fold(v)
	}
	if v, ok := fields[models.FieldLastName]; ok {
		set["last_name_ci"] = text.Fold(v)
	}
	set["updated_at"] = time.Now().UTC()

	res, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Count counts leads matching the given filter.
func (s *Store) Count(ctx context.Context, filter bson.M) (int64, error) {
	return s.c.CountDocuments(ctx, filter)
}

// Find returns leads matching the filter with the given find options.
func (s *Store) Find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]models.Lead, error) {
	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var rows []models.Lead
	if err := cur.All(ctx, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// CountByValue groups leads on one field and counts each distinct value.
// Empty values are bucketed under "".
func (s *Store) CountByValue(ctx context.Context, field string) (map[string]int64, error) {
	if !models.IsLeadField(field) {
		return nil, fmt.Errorf("unknown lead field %q", field)
	}
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.M{
			"_id":   "$" + field,
			"count": bson.M{"$sum": 1},
		}}},
	}
	cur, err := s.c.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var rows []struct {
		Value string `bson:"_id"`
		Count int64  `bson:"count"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return nil, err
	}
	out := make(map[string]int64, len(rows))
	for _, r := range rows {
		out[r.Value] = r.Count
	}
	return out, nil
}

// InsertBatch inserts a pre-normalized batch of leads, tagging each with
// the batch ID. Used by the CSV import path.
func (s *Store) InsertBatch(ctx context.Context, leads []models.Lead, batchID string) (int, error) {
	if len(leads) == 0 {
		return 0, nil
	}
	docs := make([]interface{}, 0, len(leads))
	now := time.Now().UTC()
	for _, l := range leads {
		l.ID = primitive.NewObjectID()
		l.FirstNameCI = text.Fold(l.FirstName)
		l.LastNameCI = text.Fold(l.LastName)
		l.ImportBatchID = batchID
		l.CreatedAt = now
		docs = append(docs, l)
	}
	res, err := s.c.InsertMany(ctx, docs, options.InsertMany().SetOrdered(false))
	if res != nil {
		return len(res.InsertedIDs), err
	}
	return 0, err
}
