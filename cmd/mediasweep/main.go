// mediasweep deletes uploaded files no document references anymore.
// Concurrent edits can orphan files (gallery races, crashed requests);
// running this periodically reclaims them.
package main

import (
	"context"
	"flag"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/sync/semaphore"

	"santatecla_living/internal/adapters/localfs"
	"santatecla_living/internal/adapters/observability"
	"santatecla_living/internal/domain"
	"santatecla_living/internal/shared"
	mongorepo "santatecla_living/internal/storage/mongo"
)

func main() {
	dryRun := flag.Bool("dry-run", false, "report orphans without deleting")
	flag.Parse()

	ctx := context.Background()
	cfg := shared.Load()
	log.Logger = observability.NewLogger(cfg.AppEnv)

	connCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()
	client, err := mongo.Connect(connCtx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatal().Err(err).Msg("mongo.Connect failed")
	}
	if err := client.Ping(connCtx, nil); err != nil {
		log.Fatal().Err(err).Msg("mongo ping failed")
	}

	repo := mongorepo.New(client.Database(cfg.MongoDB))
	store := localfs.New(cfg.UploadDir, cfg.UploadBase)

	referenced, err := referencedURLs(ctx, repo)
	if err != nil {
		log.Fatal().Err(err).Msg("collecting referenced urls failed")
	}
	log.Info().Int("referenced", len(referenced)).Msg("documents scanned")

	var orphans []string
	err = store.Walk(func(url string) error {
		if _, ok := referenced[url]; !ok {
			orphans = append(orphans, url)
		}
		return nil
	})
	if err != nil {
		log.Fatal().Err(err).Msg("walking upload dir failed")
	}
	log.Info().Int("orphans", len(orphans)).Bool("dry_run", *dryRun).Msg("sweep planned")
	if *dryRun {
		for _, url := range orphans {
			log.Info().Str("url", url).Msg("orphan")
		}
		return
	}

	sem := semaphore.NewWeighted(int64(cfg.SweepWorkers))
	var wg sync.WaitGroup
	for _, url := range orphans {
		if err := sem.Acquire(ctx, 1); err != nil {
			log.Fatal().Err(err).Msg("semaphore acquire failed")
		}
		wg.Add(1)
		go func(url string) {
			defer wg.Done()
			defer sem.Release(1)
			if err := store.Delete(ctx, url); err != nil {
				log.Warn().Str("url", url).Err(err).Msg("delete failed")
				return
			}
			log.Info().Str("url", url).Msg("deleted")
		}(url)
	}
	wg.Wait()
	log.Info().Msg("sweep completed")
}

// referencedURLs gathers every upload URL any document points at.
func referencedURLs(ctx context.Context, repo domain.ContentRepository) (map[string]struct{}, error) {
	refs := map[string]struct{}{}
	add := func(urls ...string) {
		for _, u := range urls {
			if u != "" {
				refs[u] = struct{}{}
			}
		}
	}

	apts, err := repo.ListApartments(ctx, domain.ApartmentsQuery{})
	if err != nil {
		return nil, err
	}
	for _, a := range apts {
		add(a.Image, a.Plan)
		add(a.Gallery...)
	}

	parts, err := repo.ListParts(ctx, domain.PartsQuery{})
	if err != nil {
		return nil, err
	}
	for _, p := range parts {
		add(p.Image, p.MobileImage, p.Image2, p.MobileImage2, p.Image3, p.MobileImage3)
	}
	return refs, nil
}
