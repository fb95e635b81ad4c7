package app

import (
	"context"
	"fmt"
	"io"
	"strings"
	"testing"
)

// ---- fake store ----

type fakeStore struct {
	saves   int
	saved   []string
	deleted []string
	failDel map[string]bool
}

func (f *fakeStore) Save(ctx context.Context, folder, ext string, r io.Reader) (string, error) {
	_, _ = io.Copy(io.Discard, r)
	f.saves++
	url := fmt.Sprintf("/uploads/%s/gen-%d%s", folder, f.saves, ext)
	f.saved = append(f.saved, url)
	return url, nil
}

func (f *fakeStore) Delete(ctx context.Context, url string) error {
	f.deleted = append(f.deleted, url)
	if f.failDel[url] {
		return fmt.Errorf("remove %s: no such file", url)
	}
	return nil
}

func upload(name, ct string) Upload {
	return Upload{
		Filename:    name,
		ContentType: ct,
		Open: func() (io.ReadCloser, error) {
			return io.NopCloser(strings.NewReader("bytes")), nil
		},
	}
}

func eq(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// ---- tests ----

func TestReconcile_OrderedInterleaving(t *testing.T) {
	st := &fakeStore{}
	current := []string{"/uploads/f/a.jpg", "/uploads/f/b.jpg", "/uploads/f/c.jpg"}
	order := []string{"/uploads/f/b.jpg", "new:0", "/uploads/f/a.jpg"}

	out, err := reconcileGallery(context.Background(), st, "f", current, order, nil, []Upload{upload("x.jpg", "image/jpeg")})
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	want := []string{"/uploads/f/b.jpg", "/uploads/f/gen-1.jpg", "/uploads/f/a.jpg"}
	if !eq(out, want) {
		t.Fatalf("got %v want %v", out, want)
	}
	// c.jpg was dropped from the tokens, so it goes
	if !eq(st.deleted, []string{"/uploads/f/c.jpg"}) {
		t.Fatalf("deleted %v", st.deleted)
	}
}

func TestReconcile_SkipsBadAndDuplicateIndices(t *testing.T) {
	st := &fakeStore{}
	order := []string{"new:0", "new:0", "new:5", "new:-1", "new:x", "/uploads/f/kept.jpg"}

	out, err := reconcileGallery(context.Background(), st, "f", []string{"/uploads/f/kept.jpg"}, order, nil, []Upload{upload("x.png", "image/png")})
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	want := []string{"/uploads/f/gen-1.png", "/uploads/f/kept.jpg"}
	if !eq(out, want) {
		t.Fatalf("got %v want %v", out, want)
	}
	if st.saves != 1 {
		t.Fatalf("expected 1 save, got %d", st.saves)
	}
}

func TestReconcile_NonImageSilentlySkipped(t *testing.T) {
	st := &fakeStore{}
	order := []string{"new:0", "new:1"}
	files := []Upload{upload("evil.exe", "application/octet-stream"), upload("ok.webp", "image/webp")}

	out, err := reconcileGallery(context.Background(), st, "f", nil, order, nil, files)
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if !eq(out, []string{"/uploads/f/gen-1.webp"}) {
		t.Fatalf("got %v", out)
	}
}

func TestReconcile_Idempotent(t *testing.T) {
	st := &fakeStore{}
	current := []string{"/uploads/f/a.jpg", "/uploads/f/b.jpg"}

	out, err := reconcileGallery(context.Background(), st, "f", current, current, nil, nil)
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if !eq(out, current) {
		t.Fatalf("got %v want %v", out, current)
	}
	if len(st.deleted) != 0 || st.saves != 0 {
		t.Fatalf("expected no side effects, deleted=%v saves=%d", st.deleted, st.saves)
	}
}

func TestReconcile_FallbackKeepThenAppend(t *testing.T) {
	st := &fakeStore{}
	current := []string{"/uploads/f/a.jpg", "/uploads/f/b.jpg"}
	keep := []string{"/uploads/f/b.jpg"}
	files := []Upload{upload("one.jpg", "image/jpeg"), upload("two.jpg", "image/jpeg")}

	out, err := reconcileGallery(context.Background(), st, "f", current, nil, keep, files)
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	want := []string{"/uploads/f/b.jpg", "/uploads/f/gen-1.jpg", "/uploads/f/gen-2.jpg"}
	if !eq(out, want) {
		t.Fatalf("got %v want %v", out, want)
	}
	if !eq(st.deleted, []string{"/uploads/f/a.jpg"}) {
		t.Fatalf("deleted %v", st.deleted)
	}
}

func TestReconcile_DeleteFailuresSwallowed(t *testing.T) {
	st := &fakeStore{failDel: map[string]bool{"/uploads/f/gone.jpg": true}}
	current := []string{"/uploads/f/gone.jpg", "/uploads/f/b.jpg"}

	out, err := reconcileGallery(context.Background(), st, "f", current, []string{"/uploads/f/b.jpg"}, nil, nil)
	if err != nil {
		t.Fatalf("delete failure must not surface: %v", err)
	}
	if !eq(out, []string{"/uploads/f/b.jpg"}) {
		t.Fatalf("got %v", out)
	}
}
