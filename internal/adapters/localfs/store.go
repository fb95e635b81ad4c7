// Package localfs keeps uploaded images on the local disk under
// <root>/<folder>/<generated-name><ext> and hands out relative URLs
// (<base>/<folder>/<name>) for the documents to reference.
package localfs

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"santatecla_living/internal/adapters/observability"
)

type Store struct {
	root string // e.g. public/uploads
	base string // e.g. /uploads
}

func New(root, base string) *Store {
	return &Store{root: filepath.Clean(root), base: "/" + strings.Trim(base, "/")}
}

func (s *Store) Save(ctx context.Context, folder, ext string, r io.Reader) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	folder = sanitize(folder)
	if folder == "" {
		folder = "misc"
	}
	ext = strings.ToLower(ext)
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}

	dir := filepath.Join(s.root, folder)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		observability.ObserveStorage("save", err)
		return "", fmt.Errorf("mkdir %s: %w", dir, err)
	}

	name := uuid.New().String() + ext
	dst, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		observability.ObserveStorage("save", err)
		return "", err
	}
	_, err = io.Copy(dst, r)
	if cerr := dst.Close(); err == nil {
		err = cerr
	}
	observability.ObserveStorage("save", err)
	if err != nil {
		_ = os.Remove(filepath.Join(dir, name))
		return "", err
	}
	return path.Join(s.base, folder, name), nil
}

func (s *Store) Delete(ctx context.Context, url string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p, err := s.pathFor(url)
	if err != nil {
		observability.ObserveStorage("delete", err)
		return err
	}
	err = os.Remove(p)
	observability.ObserveStorage("delete", err)
	return err
}

// Walk calls fn with the public URL of every stored file.
func (s *Store) Walk(fn func(url string) error) error {
	return filepath.WalkDir(s.root, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			if os.IsNotExist(err) {
				return nil // empty store
			}
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, rerr := filepath.Rel(s.root, p)
		if rerr != nil {
			return rerr
		}
		return fn(path.Join(s.base, filepath.ToSlash(rel)))
	})
}

// pathFor maps a public URL back into the root, refusing anything that
// escapes it.
func (s *Store) pathFor(url string) (string, error) {
	rel, ok := strings.CutPrefix(url, s.base+"/")
	if !ok {
		return "", fmt.Errorf("url %q outside upload base", url)
	}
	p := filepath.Join(s.root, filepath.FromSlash(path.Clean("/"+rel)))
	if !strings.HasPrefix(p, s.root+string(filepath.Separator)) {
		return "", fmt.Errorf("url %q escapes upload root", url)
	}
	return p, nil
}

func sanitize(folder string) string {
	return strings.Trim(path.Clean("/"+strings.ReplaceAll(folder, "\\", "/")), "/")
}
