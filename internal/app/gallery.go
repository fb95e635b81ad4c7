package app

import (
	"context"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"santatecla_living/internal/domain"
)

// reconcileGallery computes the final ordered gallery for an apartment edit.
//
// When order tokens are present, each token is either a stored path (kept as
// is) or "new:<i>" referencing the i-th newly submitted file; stored paths
// missing from the tokens are deleted from the store. Without tokens the
// legacy path applies: keep is retained in its given order and every valid
// new file is appended after it.
//
// Non-image files, out-of-range indices and duplicate indices are skipped
// silently; store deletions are best effort.
func reconcileGallery(ctx context.Context, store domain.FileStore, folder string, current, order, keep []string, newFiles []Upload) ([]string, error) {
	if len(order) > 0 {
		return reconcileOrdered(ctx, store, folder, current, order, newFiles)
	}
	return reconcileLegacy(ctx, store, folder, current, keep, newFiles)
}

func reconcileOrdered(ctx context.Context, store domain.FileStore, folder string, current, order []string, newFiles []Upload) ([]string, error) {
	kept := make(map[string]struct{}, len(order))
	for _, tok := range order {
		if !strings.HasPrefix(tok, "new:") {
			kept[tok] = struct{}{}
		}
	}
	deleteDropped(ctx, store, current, kept)

	out := make([]string, 0, len(order))
	consumed := make(map[int]struct{}, len(newFiles))
	for _, tok := range order {
		idxStr, isNew := strings.CutPrefix(tok, "new:")
		if !isNew {
			out = append(out, tok)
			continue
		}
		idx, err := strconv.Atoi(idxStr)
		if err != nil || idx < 0 || idx >= len(newFiles) {
			continue
		}
		if _, dup := consumed[idx]; dup {
			continue
		}
		consumed[idx] = struct{}{}
		url, err := saveUpload(ctx, store, folder, newFiles[idx])
		if err != nil {
			return nil, err
		}
		if url != "" {
			out = append(out, url)
		}
	}
	return out, nil
}

func reconcileLegacy(ctx context.Context, store domain.FileStore, folder string, current, keep []string, newFiles []Upload) ([]string, error) {
	kept := make(map[string]struct{}, len(keep))
	for _, p := range keep {
		kept[p] = struct{}{}
	}
	deleteDropped(ctx, store, current, kept)

	out := append([]string{}, keep...)
	for _, f := range newFiles {
		url, err := saveUpload(ctx, store, folder, f)
		if err != nil {
			return nil, err
		}
		if url != "" {
			out = append(out, url)
		}
	}
	return out, nil
}

// saveUpload stores one file; non-image files yield "" and no error.
func saveUpload(ctx context.Context, store domain.FileStore, folder string, u Upload) (string, error) {
	if !u.isImage() {
		log.Debug().Str("file", u.Filename).Msg("skipping non-image upload")
		return "", nil
	}
	rc, err := u.Open()
	if err != nil {
		return "", err
	}
	defer rc.Close()
	return store.Save(ctx, folder, u.ext(), rc)
}

// deleteDropped removes every current path not in kept. Failures are
// cleanup noise, not errors.
func deleteDropped(ctx context.Context, store domain.FileStore, current []string, kept map[string]struct{}) {
	for _, p := range current {
		if _, ok := kept[p]; ok {
			continue
		}
		if err := store.Delete(ctx, p); err != nil {
			log.Debug().Err(err).Str("path", p).Msg("gallery file delete failed")
		}
	}
}

// deleteQuiet is the single-slot flavor of the same cleanup rule.
func deleteQuiet(ctx context.Context, store domain.FileStore, url string) {
	if url == "" {
		return
	}
	if err := store.Delete(ctx, url); err != nil {
		log.Debug().Err(err).Str("path", url).Msg("file delete failed")
	}
}
