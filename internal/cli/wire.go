package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/hashicorp/go-hclog"

	"github.com/jmylchreest/atelier/internal/cache"
	"github.com/jmylchreest/atelier/internal/catalog"
	"github.com/jmylchreest/atelier/internal/colour"
	"github.com/jmylchreest/atelier/internal/config"
	"github.com/jmylchreest/atelier/internal/design"
	"github.com/jmylchreest/atelier/internal/design/gemini"
	imageloader "github.com/jmylchreest/atelier/internal/image"
	"github.com/jmylchreest/atelier/internal/service"
	httputil "github.com/jmylchreest/atelier/internal/util/http"
)

// closer releases a resource opened while wiring.
type closer func(context.Context) error

// closeAll runs closers in reverse order and joins their errors.
func closeAll(ctx context.Context, closers []closer) error {
	var errs []error
	for i := len(closers) - 1; i >= 0; i-- {
		if err := closers[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// newLoader builds the image loader described by cfg. With urlsOnly set,
// local paths are refused; the server uses it for client-supplied refs.
func newLoader(cfg *config.Config, urlsOnly bool) imageloader.Loader {
	opts := []imageloader.SmartLoaderOption{
		imageloader.WithFetchOptions(httputil.FetchOptions{Timeout: cfg.Image.FetchTimeout}),
	}
	if cfg.Image.CacheDir != "" {
		opts = append(opts, imageloader.WithCacheDir(cfg.Image.CacheDir))
	}
	if !cfg.Image.AllowPrivateHosts {
		opts = append(opts, imageloader.WithPrivateHostsBlocked())
	}
	if urlsOnly {
		opts = append(opts, imageloader.WithURLsOnly())
	}
	return imageloader.NewSmartLoader(opts...)
}

// newTraitClassifier returns nil for the static classifier.
func newTraitClassifier(ctx context.Context, cfg *config.Config, logger hclog.Logger) (design.TraitClassifier, error) {
	switch cfg.Classifier.Type {
	case config.ClassifierGenAI:
		c, err := gemini.New(ctx, gemini.Config{
			Backend: cfg.GenAI.Backend,
			Model:   cfg.GenAI.Model,
			APIKey:  cfg.GenAI.APIKey,
		}, logger.Named("genai"))
		if err != nil {
			return nil, fmt.Errorf("failed to create genai classifier: %w", err)
		}
		return c, nil
	default:
		return nil, nil
	}
}

// newAnalyzer builds a design analyzer from cfg.
func newAnalyzer(ctx context.Context, cfg *config.Config, urlsOnly bool, logger hclog.Logger) (*design.Analyzer, error) {
	extractor, err := colour.NewExtractor(colour.Algorithm(cfg.Extraction.Algorithm))
	if err != nil {
		return nil, fmt.Errorf("failed to create extractor: %w", err)
	}

	opts := []design.Option{
		design.WithColourCount(cfg.Extraction.Colours),
		design.WithLogger(logger.Named("design")),
	}

	traits, err := newTraitClassifier(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	if traits != nil {
		opts = append(opts, design.WithTraitClassifier(traits))
	}

	return design.NewAnalyzer(newLoader(cfg, urlsOnly), extractor, opts...), nil
}

// newStore builds the attribute cache described by cfg.
func newStore(ctx context.Context, cfg *config.Config, logger hclog.Logger) (cache.Store, closer, error) {
	switch cache.Type(cfg.Cache.Type) {
	case cache.TypeMemory:
		logger.Debug("using in-memory attribute cache", "ttl", cfg.Cache.TTL, "max_entries", cfg.Cache.MaxEntries)
		return cache.NewMemory(cfg.Cache.TTL, cfg.Cache.MaxEntries), nil, nil
	case cache.TypeRedis:
		store := cache.NewRedis(cache.RedisConfig{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			TTL:      cfg.Cache.TTL,
		})
		if err := store.Ping(ctx); err != nil {
			_ = store.Close()
			return nil, nil, fmt.Errorf("failed to connect to Redis at %s: %w", cfg.Redis.Addr, err)
		}
		logger.Debug("using Redis attribute cache", "addr", cfg.Redis.Addr, "ttl", cfg.Cache.TTL)
		return store, func(context.Context) error { return store.Close() }, nil
	default:
		return cache.Noop{}, nil, nil
	}
}

// newProvider builds the catalog provider described by cfg.
func newProvider(ctx context.Context, cfg *config.Config, logger hclog.Logger) (catalog.Provider, closer, error) {
	switch cfg.Catalog.Source {
	case config.CatalogSourceMongo:
		provider, disconnect, err := catalog.ConnectMongo(ctx, cfg.Mongo.URI, cfg.Mongo.Database, cfg.Mongo.Collection, cfg.Mongo.Limit)
		if err != nil {
			return nil, nil, err
		}
		logger.Debug("using MongoDB catalog", "database", cfg.Mongo.Database, "collection", cfg.Mongo.Collection)
		return provider, disconnect, nil
	default:
		logger.Debug("using catalog file", "path", cfg.Catalog.Path)
		return catalog.NewFile(cfg.Catalog.Path), nil, nil
	}
}

// newService wires the matching service. The returned closer releases any
// connections it opened.
func newService(ctx context.Context, cfg *config.Config, urlsOnly bool, logger hclog.Logger) (*service.Service, closer, error) {
	var closers []closer
	release := func(ctx context.Context) error { return closeAll(ctx, closers) }

	analyzer, err := newAnalyzer(ctx, cfg, urlsOnly, logger)
	if err != nil {
		return nil, nil, err
	}

	provider, closeProvider, err := newProvider(ctx, cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	if closeProvider != nil {
		closers = append(closers, closeProvider)
	}

	store, closeStore, err := newStore(ctx, cfg, logger)
	if err != nil {
		_ = release(ctx)
		return nil, nil, err
	}
	if closeStore != nil {
		closers = append(closers, closeStore)
	}

	svc := service.New(analyzer, provider,
		service.WithCache(store),
		service.WithLogger(logger.Named("service")))

	return svc, release, nil
}
