package app

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"santatecla_living/internal/domain"
)

// QueryService serves the public read paths through a cache-aside layer;
// ContentService drops the affected keys on every write.
type QueryService struct {
	repo     domain.ContentRepository
	cache    domain.Cache
	cacheTTL time.Duration
}

func NewQueryService(r domain.ContentRepository, c domain.Cache, ttl time.Duration) *QueryService {
	return &QueryService{repo: r, cache: c, cacheTTL: ttl}
}

func (s *QueryService) ListApartments(ctx context.Context, q domain.ApartmentsQuery) ([]domain.Apartment, error) {
	key := ApartmentsListKey(q)
	var out []domain.Apartment
	if ok, _ := s.cache.Get(ctx, key, &out); ok {
		return out, nil
	}
	out, err := s.repo.ListApartments(ctx, q)
	if err != nil {
		return nil, err
	}
	_ = s.cache.Set(ctx, key, out, int(s.cacheTTL.Seconds()))
	return out, nil
}

func (s *QueryService) GetApartment(ctx context.Context, lookup string) (domain.Apartment, error) {
	key := ApartmentKey(lookup)
	var a domain.Apartment
	if ok, _ := s.cache.Get(ctx, key, &a); ok {
		return a, nil
	}
	a, err := s.repo.GetApartment(ctx, lookup)
	if err != nil {
		return domain.Apartment{}, err
	}
	_ = s.cache.Set(ctx, key, a, int(s.cacheTTL.Seconds()))
	return a, nil
}

func (s *QueryService) ListParts(ctx context.Context, q domain.PartsQuery) ([]domain.DynamicPart, error) {
	key := PartsListKey(q)
	var out []domain.DynamicPart
	if ok, _ := s.cache.Get(ctx, key, &out); ok {
		return out, nil
	}
	out, err := s.repo.ListParts(ctx, q)
	if err != nil {
		return nil, err
	}
	_ = s.cache.Set(ctx, key, out, int(s.cacheTTL.Seconds()))
	return out, nil
}

func (s *QueryService) GetPart(ctx context.Context, id string) (domain.DynamicPart, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.DynamicPart{}, domain.ValidationError("invalid id")
	}
	key := PartKey(oid)
	var p domain.DynamicPart
	if ok, _ := s.cache.Get(ctx, key, &p); ok {
		return p, nil
	}
	p, err = s.repo.GetPartByID(ctx, oid)
	if err != nil {
		return domain.DynamicPart{}, err
	}
	_ = s.cache.Set(ctx, key, p, int(s.cacheTTL.Seconds()))
	return p, nil
}
