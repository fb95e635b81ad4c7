package app

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"santatecla_living/internal/domain"
)

// ContentService owns the admin write paths: apartment CRUD with gallery
// reconciliation and dynamic-part upserts, plus cache invalidation for the
// public read side.
type ContentService struct {
	repo  domain.ContentRepository
	store domain.FileStore
	cache domain.Cache
}

func NewContentService(r domain.ContentRepository, s domain.FileStore, c domain.Cache) *ContentService {
	return &ContentService{repo: r, store: s, cache: c}
}

// ---- apartments ----

func (s *ContentService) CreateApartment(ctx context.Context, f ApartmentForm) (domain.Apartment, error) {
	if strings.TrimSpace(f.Title.Value) == "" {
		return domain.Apartment{}, domain.ValidationError("title is required")
	}
	if f.Cover == nil {
		return domain.Apartment{}, domain.ValidationError("No image file provided")
	}
	if !f.Cover.isImage() {
		return domain.Apartment{}, domain.ValidationError("cover must be an image file")
	}
	if strings.TrimSpace(f.Address.Value) == "" {
		return domain.Apartment{}, domain.ValidationError("address is required")
	}
	if strings.TrimSpace(f.Description.Value) == "" {
		return domain.Apartment{}, domain.ValidationError("description is required")
	}

	a := domain.Apartment{
		Gallery:   []string{},
		Amenities: []domain.Amenity{},
	}
	var err error
	if a.Guests, err = parsePositiveInt(f.Guests, "guests"); err != nil {
		return domain.Apartment{}, err
	}
	if a.SizeSqm, err = parsePositiveInt(f.SizeSqm, "sizeSqm"); err != nil {
		return domain.Apartment{}, err
	}
	if a.Bathrooms, err = parsePositiveInt(f.Bathrooms, "bathrooms"); err != nil {
		return domain.Apartment{}, err
	}
	if err := s.applyApartmentFields(&a, f); err != nil {
		return domain.Apartment{}, err
	}

	cover, err := saveUpload(ctx, s.store, a.Slug, *f.Cover)
	if err != nil {
		return domain.Apartment{}, err
	}
	a.Image = cover

	if f.Plan != nil && f.Plan.isImage() {
		plan, err := saveUpload(ctx, s.store, a.Slug, *f.Plan)
		if err != nil {
			return domain.Apartment{}, err
		}
		a.Plan = plan
	}
	if len(f.GalleryNew) > 0 || len(f.GalleryOrder) > 0 {
		gal, err := reconcileGallery(ctx, s.store, a.Slug, nil, f.GalleryOrder, nil, f.GalleryNew)
		if err != nil {
			return domain.Apartment{}, err
		}
		a.Gallery = gal
	}

	if err := s.repo.InsertApartment(ctx, &a); err != nil {
		// the files were written before the insert; reclaim them now
		// instead of leaving orphans for the sweeper
		deleteQuiet(ctx, s.store, a.Image)
		deleteQuiet(ctx, s.store, a.Plan)
		for _, g := range a.Gallery {
			deleteQuiet(ctx, s.store, g)
		}
		if err == domain.ErrDuplicateTitle {
			return domain.Apartment{}, domain.ValidationError("title already in use")
		}
		return domain.Apartment{}, err
	}
	s.invalidateApartment(ctx, a, nil)
	return a, nil
}

// UpdateApartment is a partial update: fields absent from the form keep
// their stored value. key matches _id, title, or slug.
func (s *ContentService) UpdateApartment(ctx context.Context, key string, f ApartmentForm) (domain.Apartment, error) {
	a, err := s.repo.GetApartment(ctx, key)
	if err != nil {
		return domain.Apartment{}, err
	}
	prev := a

	if f.Title.Set && strings.TrimSpace(f.Title.Value) == "" {
		return domain.Apartment{}, domain.ValidationError("title cannot be blank")
	}
	if f.Guests.Set {
		if a.Guests, err = parsePositiveInt(f.Guests, "guests"); err != nil {
			return domain.Apartment{}, err
		}
	}
	if f.SizeSqm.Set {
		if a.SizeSqm, err = parsePositiveInt(f.SizeSqm, "sizeSqm"); err != nil {
			return domain.Apartment{}, err
		}
	}
	if f.Bathrooms.Set {
		if a.Bathrooms, err = parsePositiveInt(f.Bathrooms, "bathrooms"); err != nil {
			return domain.Apartment{}, err
		}
	}
	if err := s.applyApartmentFields(&a, f); err != nil {
		return domain.Apartment{}, err
	}

	// single-slot swaps: new file replaces and deletes the stored one;
	// non-image files are ignored like gallery entries are
	if f.Cover != nil && f.Cover.isImage() {
		url, err := saveUpload(ctx, s.store, a.Slug, *f.Cover)
		if err != nil {
			return domain.Apartment{}, err
		}
		deleteQuiet(ctx, s.store, prev.Image)
		a.Image = url
	}
	if f.RemovePlan {
		deleteQuiet(ctx, s.store, a.Plan)
		a.Plan = ""
	} else if f.Plan != nil && f.Plan.isImage() {
		url, err := saveUpload(ctx, s.store, a.Slug, *f.Plan)
		if err != nil {
			return domain.Apartment{}, err
		}
		deleteQuiet(ctx, s.store, prev.Plan)
		a.Plan = url
	}

	// gallery reconciliation; with neither order nor keep submitted and no
	// new files, the stored gallery stays as is
	keep := f.KeepGallery
	if len(f.GalleryOrder) == 0 && f.KeepGallery == nil {
		keep = a.Gallery
	}
	gal, err := reconcileGallery(ctx, s.store, a.Slug, prev.Gallery, f.GalleryOrder, keep, f.GalleryNew)
	if err != nil {
		return domain.Apartment{}, err
	}
	a.Gallery = gal

	if err := s.repo.ReplaceApartment(ctx, a); err != nil {
		if err == domain.ErrDuplicateTitle {
			return domain.Apartment{}, domain.ValidationError("title already in use")
		}
		return domain.Apartment{}, err
	}
	s.invalidateApartment(ctx, a, &prev)
	return a, nil
}

// DeleteApartment removes the document, then best-effort deletes its files.
func (s *ContentService) DeleteApartment(ctx context.Context, key string) error {
	a, err := s.repo.GetApartment(ctx, key)
	if err != nil {
		return err
	}
	if err := s.repo.DeleteApartment(ctx, a.ID); err != nil {
		return err
	}
	deleteQuiet(ctx, s.store, a.Image)
	deleteQuiet(ctx, s.store, a.Plan)
	for _, g := range a.Gallery {
		deleteQuiet(ctx, s.store, g)
	}
	s.invalidateApartment(ctx, a, nil)
	return nil
}

// applyApartmentFields copies the tri-state text fields and the structured
// JSON fields onto the document. Title changes recompute the slug.
func (s *ContentService) applyApartmentFields(a *domain.Apartment, f ApartmentForm) error {
	f.Title.apply(&a.Title)
	f.TitleEN.apply(&a.TitleEN)
	f.Description.apply(&a.Description)
	f.DescriptionEN.apply(&a.DescriptionEN)
	f.Details.apply(&a.Details)
	f.DetailsEN.apply(&a.DetailsEN)
	f.Address.apply(&a.Address)
	f.AddressEN.apply(&a.AddressEN)
	f.AddressDetail.apply(&a.AddressDetail)
	f.AddressDetailEN.apply(&a.AddressDetailEN)
	f.Floor.apply(&a.Floor)
	f.CIR.apply(&a.CIR)
	f.CIN.apply(&a.CIN)
	a.Slug = domain.Slugify(a.Title)

	if f.Amenities != nil {
		a.Amenities = *f.Amenities
	}

	if f.Rules.Set {
		if strings.TrimSpace(f.Rules.Value) == "" {
			a.Rules = nil
		} else {
			r, err := parseRules(f.Rules.Value)
			if err != nil {
				return err
			}
			a.Rules = r
		}
	}
	if f.Cancellation.Set {
		if strings.TrimSpace(f.Cancellation.Value) == "" {
			a.Cancellation = nil
		} else {
			c, err := parseCancellation(f.Cancellation.Value)
			if err != nil {
				return err
			}
			a.Cancellation = c
		}
	}

	// location and the denormalized lat/lng move together
	switch {
	case f.Lat.Set && f.Lng.Set && strings.TrimSpace(f.Lat.Value) == "" && strings.TrimSpace(f.Lng.Value) == "":
		a.Location, a.Lat, a.Lng = nil, nil, nil
	case f.Lat.Set && f.Lng.Set:
		lat, err := parseFloatField(f.Lat, "lat")
		if err != nil {
			return err
		}
		lng, err := parseFloatField(f.Lng, "lng")
		if err != nil {
			return err
		}
		a.Location = domain.NewGeoPoint(lat, lng)
		a.Lat, a.Lng = &lat, &lng
	case f.Lat.Set || f.Lng.Set:
		return domain.ValidationError("lat and lng must be provided together")
	}
	return nil
}

// ---- dynamic parts ----

func (s *ContentService) CreatePart(ctx context.Context, f PartForm) (domain.DynamicPart, error) {
	if strings.TrimSpace(f.Page.Value) == "" || strings.TrimSpace(f.Key.Value) == "" {
		return domain.DynamicPart{}, domain.ValidationError("page and key are required")
	}

	p := domain.DynamicPart{}
	if err := s.applyPartFields(ctx, &p, f); err != nil {
		return domain.DynamicPart{}, err
	}
	if err := s.repo.InsertPart(ctx, &p); err != nil {
		return domain.DynamicPart{}, err
	}
	s.invalidatePart(ctx, p)
	return p, nil
}

// UpdatePart patches one record: absent fields stay, explicit empty
// strings clear.
func (s *ContentService) UpdatePart(ctx context.Context, id string, f PartForm) (domain.DynamicPart, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.DynamicPart{}, domain.ValidationError("invalid id")
	}
	p, err := s.repo.GetPartByID(ctx, oid)
	if err != nil {
		return domain.DynamicPart{}, err
	}
	prevPage, prevKey, prevParent := p.Page, p.Key, p.ParentID
	if f.Page.Set && strings.TrimSpace(f.Page.Value) == "" {
		return domain.DynamicPart{}, domain.ValidationError("page cannot be blank")
	}
	if f.Key.Set && strings.TrimSpace(f.Key.Value) == "" {
		return domain.DynamicPart{}, domain.ValidationError("key cannot be blank")
	}
	if err := s.applyPartFields(ctx, &p, f); err != nil {
		return domain.DynamicPart{}, err
	}
	if err := s.repo.ReplacePart(ctx, p); err != nil {
		return domain.DynamicPart{}, err
	}
	s.invalidatePart(ctx, p)
	if prevPage != p.Page || prevKey != p.Key || !sameParent(prevParent, p.ParentID) {
		s.invalidatePart(ctx, domain.DynamicPart{ID: p.ID, Page: prevPage, Key: prevKey, ParentID: prevParent})
	}
	return p, nil
}

// DeletePart removes a child post and best-effort deletes its images.
func (s *ContentService) DeletePart(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ValidationError("invalid id")
	}
	p, err := s.repo.GetPartByID(ctx, oid)
	if err != nil {
		return err
	}
	if err := s.repo.DeletePart(ctx, oid); err != nil {
		return err
	}
	for _, url := range []string{p.Image, p.MobileImage, p.Image2, p.MobileImage2, p.Image3, p.MobileImage3} {
		deleteQuiet(ctx, s.store, url)
	}
	s.invalidatePart(ctx, p)
	return nil
}

func (s *ContentService) applyPartFields(ctx context.Context, p *domain.DynamicPart, f PartForm) error {
	f.Page.apply(&p.Page)
	f.Key.apply(&p.Key)
	f.Title.apply(&p.Title)
	f.TitleEN.apply(&p.TitleEN)
	f.SecondTitle.apply(&p.SecondTitle)
	f.SecondTitleEN.apply(&p.SecondTitleEN)
	f.Description.apply(&p.Description)
	f.DescriptionEN.apply(&p.DescriptionEN)
	f.SecondDescription.apply(&p.SecondDescription)
	f.SecondDescriptionEN.apply(&p.SecondDescriptionEN)

	if f.ParentID.Set {
		if strings.TrimSpace(f.ParentID.Value) == "" {
			p.ParentID = nil
		} else {
			oid, err := primitive.ObjectIDFromHex(f.ParentID.Value)
			if err != nil {
				return domain.ValidationError("invalid parentId")
			}
			p.ParentID = &oid
		}
	}
	if f.Order.Set {
		n, err := strconv.Atoi(strings.TrimSpace(f.Order.Value))
		if err != nil {
			return domain.ValidationError("order must be an integer")
		}
		p.Order = n
	}
	if f.Published.Set {
		v := strings.ToLower(strings.TrimSpace(f.Published.Value))
		p.Published = v == "true" || v == "1" || v == "on"
	}

	folder := domain.Slugify(p.Page)
	slots := [6]*string{&p.Image, &p.MobileImage, &p.Image2, &p.MobileImage2, &p.Image3, &p.MobileImage3}
	for i, slot := range f.Images {
		dst := slots[i]
		switch {
		case slot.File != nil && slot.File.isImage():
			url, err := saveUpload(ctx, s.store, folder, *slot.File)
			if err != nil {
				return err
			}
			deleteQuiet(ctx, s.store, *dst)
			*dst = url
		case slot.URL.Set && strings.TrimSpace(slot.URL.Value) == "":
			deleteQuiet(ctx, s.store, *dst)
			*dst = ""
		case slot.URL.Set:
			// pass-through URL kept by the client
			*dst = slot.URL.Value
		}
	}
	return nil
}

// ---- cache invalidation ----

var listOrders = []domain.ListOrder{
	domain.OrderDefault, domain.OrderDateAsc, domain.OrderDateDesc,
	domain.OrderAlphaAsc, domain.OrderAlphaDsc,
}

func ApartmentsListKey(q domain.ApartmentsQuery) string {
	return fmt.Sprintf("apartments:list:%s:%s", q.Order, q.Locale)
}

func ApartmentKey(lookup string) string { return "apartments:one:" + lookup }

func PartsListKey(q domain.PartsQuery) string {
	parent := ""
	if q.Parent != nil {
		parent = "none"
		if q.Parent.ID != nil {
			parent = q.Parent.ID.Hex()
		}
	}
	return fmt.Sprintf("parts:list:%s:%s:%s", q.Page, q.Key, parent)
}

func PartKey(id primitive.ObjectID) string { return "parts:one:" + id.Hex() }

func (s *ContentService) invalidateApartment(ctx context.Context, a domain.Apartment, prev *domain.Apartment) {
	for _, o := range listOrders {
		for _, loc := range []string{"it", "en"} {
			_ = s.cache.Del(ctx, ApartmentsListKey(domain.ApartmentsQuery{Order: o, Locale: loc}))
		}
	}
	lookups := []string{a.ID.Hex(), a.Title, a.Slug}
	if prev != nil {
		lookups = append(lookups, prev.Title, prev.Slug)
	}
	for _, l := range lookups {
		_ = s.cache.Del(ctx, ApartmentKey(l))
	}
}

// invalidatePart drops every list key the record can appear under: each
// page/key filter that matches it (set or omitted), crossed with the parent
// variants (no filter, roots for a root record, the parent id for a child).
func (s *ContentService) invalidatePart(ctx context.Context, p domain.DynamicPart) {
	_ = s.cache.Del(ctx, PartKey(p.ID))

	parents := []*domain.ParentFilter{nil}
	if p.ParentID == nil {
		parents = append(parents, &domain.ParentFilter{})
	} else {
		parents = append(parents, &domain.ParentFilter{ID: p.ParentID})
	}
	for _, page := range []string{p.Page, ""} {
		for _, key := range []string{p.Key, ""} {
			for _, parent := range parents {
				_ = s.cache.Del(ctx, PartsListKey(domain.PartsQuery{Page: page, Key: key, Parent: parent}))
			}
		}
	}
}

func sameParent(a, b *primitive.ObjectID) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
