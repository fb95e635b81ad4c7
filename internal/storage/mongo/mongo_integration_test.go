//go:build integration || !unit

package mongo_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"santatecla_living/internal/domain"
	mongorepo "santatecla_living/internal/storage/mongo"
)

func startMongo(t *testing.T) *mongo.Database {
	t.Helper()

	// Start isolated MongoDB; let Docker pick a free host port.
	pool, err := dockertest.NewPool("")
	if err != nil {
		t.Fatalf("dockertest: %v", err)
	}

	runOpts := &dockertest.RunOptions{
		Repository: "mongo",
		Tag:        "7.0",
	}
	resource, err := pool.RunWithOptions(runOpts, func(hc *docker.HostConfig) {
		hc.AutoRemove = true
		hc.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		t.Fatalf("run mongo: %v", err)
	}
	t.Cleanup(func() { _ = pool.Purge(resource) })

	uri := fmt.Sprintf("mongodb://127.0.0.1:%s", resource.GetPort("27017/tcp"))

	var client *mongo.Client
	if err := pool.Retry(func() error {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		var e error
		client, e = mongo.Connect(ctx, options.Client().ApplyURI(uri))
		if e != nil {
			return e
		}
		return client.Ping(ctx, nil)
	}); err != nil {
		t.Fatalf("connect mongo: %v", err)
	}
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = client.Disconnect(ctx)
	})

	return client.Database("santatecla_test")
}

func TestRepo_Mongo_ApartmentsAndParts(t *testing.T) {
	db := startMongo(t)
	repo := mongorepo.New(db)
	ctx := context.Background()

	if err := repo.EnsureIndexes(ctx); err != nil {
		t.Fatalf("EnsureIndexes: %v", err)
	}

	// Arrange: three apartments exercising the title_en fallback.
	seed := []domain.Apartment{
		{Title: "Zafferano", Slug: "zafferano", Description: "d", Address: "a",
			Guests: 2, SizeSqm: 50, Bathrooms: 1, Image: "/uploads/z/1.jpg"},
		{Title: "Bianco", TitleEN: "White Loft", Slug: "bianco", Description: "d", Address: "a",
			Guests: 4, SizeSqm: 90, Bathrooms: 2, Image: "/uploads/b/1.jpg"},
		{Title: "amaranto", Slug: "amaranto", Description: "d", Address: "a",
			Guests: 3, SizeSqm: 70, Bathrooms: 1, Image: "/uploads/am/1.jpg"},
	}
	for i := range seed {
		if err := repo.InsertApartment(ctx, &seed[i]); err != nil {
			t.Fatalf("InsertApartment %s: %v", seed[i].Title, err)
		}
	}

	// Unique title index rejects the duplicate.
	dup := domain.Apartment{Title: "Bianco", Slug: "bianco-2", Description: "d", Address: "a",
		Guests: 1, SizeSqm: 30, Bathrooms: 1, Image: "/uploads/b2/1.jpg"}
	if err := repo.InsertApartment(ctx, &dup); !errors.Is(err, domain.ErrDuplicateTitle) {
		t.Fatalf("duplicate insert: %v", err)
	}

	// Lookup by slug and by hex id resolve the same document.
	bySlug, err := repo.GetApartment(ctx, "bianco")
	if err != nil {
		t.Fatalf("GetApartment slug: %v", err)
	}
	byID, err := repo.GetApartment(ctx, bySlug.ID.Hex())
	if err != nil {
		t.Fatalf("GetApartment id: %v", err)
	}
	if byID.Title != "Bianco" {
		t.Fatalf("unexpected doc: %+v", byID)
	}

	// Alpha ascending, Italian locale: case-insensitive on title.
	it, err := repo.ListApartments(ctx, domain.ApartmentsQuery{Order: domain.OrderAlphaAsc, Locale: "it"})
	if err != nil {
		t.Fatalf("ListApartments it: %v", err)
	}
	if got := titles(it); got[0] != "amaranto" || got[1] != "Bianco" || got[2] != "Zafferano" {
		t.Fatalf("it alpha order: %v", got)
	}

	// Alpha ascending, English locale: title_en when present, title otherwise.
	// "amaranto" < "White Loft" < "Zafferano".
	en, err := repo.ListApartments(ctx, domain.ApartmentsQuery{Order: domain.OrderAlphaAsc, Locale: "en"})
	if err != nil {
		t.Fatalf("ListApartments en: %v", err)
	}
	if got := titles(en); got[0] != "amaranto" || got[1] != "Bianco" || got[2] != "Zafferano" {
		t.Fatalf("en alpha order: %v", got)
	}

	// Date descending is newest first.
	desc, err := repo.ListApartments(ctx, domain.ApartmentsQuery{Order: domain.OrderDateDesc})
	if err != nil {
		t.Fatalf("ListApartments date_desc: %v", err)
	}
	if got := titles(desc); got[0] != "amaranto" {
		t.Fatalf("date_desc order: %v", got)
	}

	// The pipeline's _sortTitle helper field must not leak into results.
	if it[0].Title == "" || it[0].Slug == "" {
		t.Fatalf("decoded doc lost fields: %+v", it[0])
	}

	// ---- dynamic parts ----

	root := domain.DynamicPart{Page: "Home", Key: "hero", Title: "Benvenuti", Order: 1, Published: true}
	if err := repo.InsertPart(ctx, &root); err != nil {
		t.Fatalf("InsertPart root: %v", err)
	}
	child := domain.DynamicPart{Page: "Home", Key: "hero", ParentID: &root.ID, Title: "Slide", Order: 2}
	if err := repo.InsertPart(ctx, &child); err != nil {
		t.Fatalf("InsertPart child: %v", err)
	}

	roots, err := repo.ListParts(ctx, domain.PartsQuery{Page: "Home", Key: "hero", Parent: &domain.ParentFilter{}})
	if err != nil {
		t.Fatalf("ListParts roots: %v", err)
	}
	if len(roots) != 1 || roots[0].ID != root.ID {
		t.Fatalf("roots: %+v", roots)
	}

	kids, err := repo.ListParts(ctx, domain.PartsQuery{Page: "Home", Key: "hero", Parent: &domain.ParentFilter{ID: &root.ID}})
	if err != nil {
		t.Fatalf("ListParts children: %v", err)
	}
	if len(kids) != 1 || kids[0].ParentID == nil || *kids[0].ParentID != root.ID {
		t.Fatalf("children: %+v", kids)
	}

	all, err := repo.ListParts(ctx, domain.PartsQuery{Page: "Home", Key: "hero"})
	if err != nil {
		t.Fatalf("ListParts all: %v", err)
	}
	if len(all) != 2 || all[0].Order > all[1].Order {
		t.Fatalf("order sort: %+v", all)
	}

	// Replace keeps identity and bumps updatedAt.
	child.Title = "Slide 2"
	if err := repo.ReplacePart(ctx, child); err != nil {
		t.Fatalf("ReplacePart: %v", err)
	}
	got, err := repo.GetPartByID(ctx, child.ID)
	if err != nil {
		t.Fatalf("GetPartByID: %v", err)
	}
	if got.Title != "Slide 2" {
		t.Fatalf("replace lost title: %+v", got)
	}

	if err := repo.DeletePart(ctx, child.ID); err != nil {
		t.Fatalf("DeletePart: %v", err)
	}
	if _, err := repo.GetPartByID(ctx, child.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("deleted part still found: %v", err)
	}
}

func titles(as []domain.Apartment) []string {
	out := make([]string, len(as))
	for i, a := range as {
		out[i] = a.Title
	}
	return out
}
