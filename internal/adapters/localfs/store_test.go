package localfs_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"santatecla_living/internal/adapters/localfs"
)

func TestStore_SaveDeleteWalk(t *testing.T) {
	root := t.TempDir()
	st := localfs.New(root, "/uploads")
	ctx := context.Background()

	url, err := st.Save(ctx, "test-a", ".jpg", strings.NewReader("fake-jpeg-bytes"))
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if !strings.HasPrefix(url, "/uploads/test-a/") || !strings.HasSuffix(url, ".jpg") {
		t.Fatalf("unexpected url: %s", url)
	}

	// file exists on disk under the slug folder
	onDisk := filepath.Join(root, "test-a", filepath.Base(url))
	b, err := os.ReadFile(onDisk)
	if err != nil {
		t.Fatalf("read saved file: %v", err)
	}
	if string(b) != "fake-jpeg-bytes" {
		t.Fatalf("unexpected content: %q", b)
	}

	var seen []string
	if err := st.Walk(func(u string) error { seen = append(seen, u); return nil }); err != nil {
		t.Fatalf("walk: %v", err)
	}
	if len(seen) != 1 || seen[0] != url {
		t.Fatalf("walk saw %v, want [%s]", seen, url)
	}

	if err := st.Delete(ctx, url); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := os.Stat(onDisk); !os.IsNotExist(err) {
		t.Fatalf("file still present after delete")
	}

	// second delete fails (missing file); callers treat that as non-fatal
	if err := st.Delete(ctx, url); err == nil {
		t.Fatalf("expected error deleting missing file")
	}
}

func TestStore_DeleteRejectsForeignURL(t *testing.T) {
	st := localfs.New(t.TempDir(), "/uploads")
	if err := st.Delete(context.Background(), "/etc/passwd"); err == nil {
		t.Fatalf("expected error for url outside base")
	}
	if err := st.Delete(context.Background(), "/uploads/../../etc/passwd"); err == nil {
		t.Fatalf("expected error for traversal url")
	}
}
