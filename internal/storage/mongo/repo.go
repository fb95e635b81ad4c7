package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"santatecla_living/internal/domain"
)

const (
	apartmentsColl = "apartments"
	partsColl      = "dynamic_parts"
)

type Repo struct {
	apartments *mongo.Collection
	parts      *mongo.Collection
}

func New(db *mongo.Database) *Repo {
	return &Repo{
		apartments: db.Collection(apartmentsColl),
		parts:      db.Collection(partsColl),
	}
}

// EnsureIndexes creates the unique title index and the part filter index.
// Safe to call on every startup.
func (r *Repo) EnsureIndexes(ctx context.Context) error {
	_, err := r.apartments.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "title", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "slug", Value: 1}}},
	})
	if err != nil {
		return err
	}
	_, err = r.parts.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "page", Value: 1}, {Key: "key", Value: 1}, {Key: "parentId", Value: 1}},
	})
	return err
}

// ---- apartments ----

func (r *Repo) InsertApartment(ctx context.Context, a *domain.Apartment) error {
	now := time.Now().UTC()
	a.CreatedAt, a.UpdatedAt = now, now
	if a.Gallery == nil {
		a.Gallery = []string{}
	}
	if a.Amenities == nil {
		a.Amenities = []domain.Amenity{}
	}
	res, err := r.apartments.InsertOne(ctx, a)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrDuplicateTitle
		}
		return err
	}
	a.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

func (r *Repo) ReplaceApartment(ctx context.Context, a domain.Apartment) error {
	a.UpdatedAt = time.Now().UTC()
	if a.Gallery == nil {
		a.Gallery = []string{}
	}
	if a.Amenities == nil {
		a.Amenities = []domain.Amenity{}
	}
	res, err := r.apartments.ReplaceOne(ctx, bson.M{"_id": a.ID}, a)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrDuplicateTitle
		}
		return err
	}
	if res.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *Repo) DeleteApartment(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.apartments.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Get matches key against _id (when it parses as an ObjectID), title, or slug.
func (r *Repo) GetApartment(ctx context.Context, key string) (domain.Apartment, error) {
	ors := bson.A{bson.M{"title": key}, bson.M{"slug": key}}
	if oid, err := primitive.ObjectIDFromHex(key); err == nil {
		ors = append(ors, bson.M{"_id": oid})
	}
	var a domain.Apartment
	err := r.apartments.FindOne(ctx, bson.M{"$or": ors}).Decode(&a)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return domain.Apartment{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.Apartment{}, err
	}
	return a, nil
}

// List runs the read pipeline. Alpha orderings sort on title_en (locale=en,
// when present) falling back to title, under a case-insensitive collation.
// The default order is insertion order; no pagination by design.
func (r *Repo) ListApartments(ctx context.Context, q domain.ApartmentsQuery) ([]domain.Apartment, error) {
	pipeline := mongo.Pipeline{}
	opts := options.Aggregate()

	switch q.Order {
	case domain.OrderDateAsc:
		pipeline = append(pipeline, bson.D{{Key: "$sort", Value: bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}}}})
	case domain.OrderDateDesc:
		pipeline = append(pipeline, bson.D{{Key: "$sort", Value: bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}}})
	case domain.OrderAlphaAsc, domain.OrderAlphaDsc:
		dir := 1
		if q.Order == domain.OrderAlphaDsc {
			dir = -1
		}
		sortField := "$title"
		if q.Locale == "en" {
			sortField = "$title_en"
		}
		pipeline = append(pipeline,
			bson.D{{Key: "$addFields", Value: bson.D{{Key: "_sortTitle", Value: bson.D{{Key: "$ifNull", Value: bson.A{sortField, "$title"}}}}}}},
			bson.D{{Key: "$sort", Value: bson.D{{Key: "_sortTitle", Value: dir}, {Key: "_id", Value: 1}}}},
			bson.D{{Key: "$unset", Value: "_sortTitle"}},
		)
		locale := q.Locale
		if locale == "" {
			locale = "it"
		}
		opts.SetCollation(&options.Collation{Locale: locale, Strength: 2})
	}

	cur, err := r.apartments.Aggregate(ctx, pipeline, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []domain.Apartment{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ---- dynamic parts ----

func (r *Repo) InsertPart(ctx context.Context, p *domain.DynamicPart) error {
	now := time.Now().UTC()
	p.CreatedAt, p.UpdatedAt = now, now
	res, err := r.parts.InsertOne(ctx, p)
	if err != nil {
		return err
	}
	p.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

func (r *Repo) ReplacePart(ctx context.Context, p domain.DynamicPart) error {
	p.UpdatedAt = time.Now().UTC()
	res, err := r.parts.ReplaceOne(ctx, bson.M{"_id": p.ID}, p)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *Repo) DeletePart(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.parts.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *Repo) GetPartByID(ctx context.Context, id primitive.ObjectID) (domain.DynamicPart, error) {
	var p domain.DynamicPart
	err := r.parts.FindOne(ctx, bson.M{"_id": id}).Decode(&p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return domain.DynamicPart{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.DynamicPart{}, err
	}
	return p, nil
}

func (r *Repo) ListParts(ctx context.Context, q domain.PartsQuery) ([]domain.DynamicPart, error) {
	filter := bson.M{}
	if q.Page != "" {
		filter["page"] = q.Page
	}
	if q.Key != "" {
		filter["key"] = q.Key
	}
	if q.Parent != nil {
		if q.Parent.ID == nil {
			filter["parentId"] = bson.M{"$exists": false}
		} else {
			filter["parentId"] = *q.Parent.ID
		}
	}

	opts := options.Find().SetSort(bson.D{{Key: "order", Value: 1}, {Key: "updatedAt", Value: -1}})
	cur, err := r.parts.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []domain.DynamicPart{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
