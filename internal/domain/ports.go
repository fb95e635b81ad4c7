package domain

import (
	"context"
	"io"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ContentRepository interface {
	// Write paths
	InsertApartment(ctx context.Context, a *Apartment) error
	ReplaceApartment(ctx context.Context, a Apartment) error
	DeleteApartment(ctx context.Context, id primitive.ObjectID) error
	InsertPart(ctx context.Context, p *DynamicPart) error
	ReplacePart(ctx context.Context, p DynamicPart) error
	DeletePart(ctx context.Context, id primitive.ObjectID) error

	// Read paths
	GetApartment(ctx context.Context, key string) (Apartment, error) // _id hex, title, or slug
	ListApartments(ctx context.Context, q ApartmentsQuery) ([]Apartment, error)
	GetPartByID(ctx context.Context, id primitive.ObjectID) (DynamicPart, error)
	ListParts(ctx context.Context, q PartsQuery) ([]DynamicPart, error)
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
}

// FileStore is the blob-store port: documents hold the returned URLs,
// never paths of their own making.
type FileStore interface {
	// Save writes r under folder with a generated name keeping ext
	// (".jpg") and returns the public relative URL ("/uploads/...").
	Save(ctx context.Context, folder, ext string, r io.Reader) (string, error)
	// Delete removes the file behind a previously returned URL.
	Delete(ctx context.Context, url string) error
}

type Geocoder interface {
	Search(ctx context.Context, query string, limit int) ([]GeoResult, error)
}

type GeoResult struct {
	Name string  `json:"name"`
	Lat  float64 `json:"lat"`
	Lng  float64 `json:"lng"`
}

// Queries

type ListOrder string

const (
	OrderDefault  ListOrder = ""
	OrderDateAsc  ListOrder = "date_asc"
	OrderDateDesc ListOrder = "date_desc"
	OrderAlphaAsc ListOrder = "alpha_asc"
	OrderAlphaDsc ListOrder = "alpha_desc"
)

func ParseListOrder(s string) (ListOrder, bool) {
	switch ListOrder(s) {
	case OrderDefault, OrderDateAsc, OrderDateDesc, OrderAlphaAsc, OrderAlphaDsc:
		return ListOrder(s), true
	}
	return OrderDefault, false
}

type ApartmentsQuery struct {
	Order  ListOrder
	Locale string // "it" | "en"
}

// PartsQuery filters dynamic parts. Parent distinguishes "no filter"
// (Parent unset), "roots only" (Parent set, ID nil) and "children of ID".
type PartsQuery struct {
	Page   string
	Key    string
	Parent *ParentFilter
}

type ParentFilter struct {
	ID *primitive.ObjectID // nil means parentId absent (root records)
}
