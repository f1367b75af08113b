// Package service orchestrates design analysis and product matching.
package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/hashicorp/go-hclog"

	"github.com/jmylchreest/atelier/internal/cache"
	"github.com/jmylchreest/atelier/internal/catalog"
	"github.com/jmylchreest/atelier/internal/design"
	"github.com/jmylchreest/atelier/internal/match"
	"github.com/jmylchreest/atelier/internal/palette"
)

var (
	// ErrMatchingFailed wraps every error returned by Service.
	ErrMatchingFailed = errors.New("matching failed")

	// ErrInvalidInput is returned for requests that cannot be served.
	ErrInvalidInput = palette.ErrInvalidInput
)

const attributesNamespace = "design"

// MatchRequest describes one match query. Attributes take precedence over
// ImageRef.
type MatchRequest struct {
	ImageRef   string             `json:"imageUrl,omitempty"`
	Attributes *design.Attributes `json:"designAttributes,omitempty"`
	Criteria   catalog.Criteria   `json:"criteria"`
}

// Service is safe for concurrent use when its collaborators are.
type Service struct {
	analyzer *design.Analyzer
	provider catalog.Provider
	store    cache.Store
	logger   hclog.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithCache enables caching of analysed attributes.
func WithCache(store cache.Store) Option {
	return func(s *Service) {
		s.store = store
	}
}

// WithLogger sets the logger.
func WithLogger(l hclog.Logger) Option {
	return func(s *Service) {
		s.logger = l
	}
}

// New creates a Service.
func New(analyzer *design.Analyzer, provider catalog.Provider, opts ...Option) *Service {
	s := &Service{
		analyzer: analyzer,
		provider: provider,
		store:    cache.Noop{},
		logger:   hclog.NewNullLogger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// AnalyzeDesign returns the attributes of the design at imageRef.
func (s *Service) AnalyzeDesign(ctx context.Context, imageRef string) (*design.Attributes, error) {
	attrs, err := s.analyze(ctx, imageRef)
	if err != nil {
		return nil, failed(err)
	}
	return attrs, nil
}

// ColorAnalysis returns the dominant colours and palette descriptor of the
// design at imageRef.
func (s *Service) ColorAnalysis(ctx context.Context, imageRef string) (*design.ColorAnalysis, error) {
	if strings.TrimSpace(imageRef) == "" {
		return nil, failed(fmt.Errorf("%w: image reference is required", ErrInvalidInput))
	}

	analysis, err := s.analyzer.ColorAnalysis(ctx, imageRef)
	if err != nil {
		return nil, failed(err)
	}
	return analysis, nil
}

// FindMatches ranks catalog products against the request's design.
func (s *Service) FindMatches(ctx context.Context, req MatchRequest) ([]match.Result, error) {
	attrs := req.Attributes
	if attrs == nil {
		if strings.TrimSpace(req.ImageRef) == "" {
			return nil, failed(fmt.Errorf("%w: design attributes or image reference is required", ErrInvalidInput))
		}

		analysed, err := s.analyze(ctx, req.ImageRef)
		if err != nil {
			return nil, failed(err)
		}
		attrs = analysed
	}

	products, err := s.provider.Products(ctx, req.Criteria)
	if err != nil {
		return nil, failed(fmt.Errorf("failed to load catalog: %w", err))
	}

	results := match.FindMatches(*attrs, req.Criteria, products)
	s.logger.Debug("matches ranked", "candidates", len(products), "results", len(results))
	return results, nil
}

func (s *Service) analyze(ctx context.Context, imageRef string) (*design.Attributes, error) {
	if strings.TrimSpace(imageRef) == "" {
		return nil, fmt.Errorf("%w: image reference is required", ErrInvalidInput)
	}

	key := cache.Key(attributesNamespace, imageRef)
	if attrs, ok := s.cached(ctx, key); ok {
		s.logger.Debug("design attributes served from cache", "ref", imageRef)
		return attrs, nil
	}

	attrs, err := s.analyzer.Analyze(ctx, imageRef)
	if err != nil {
		return nil, err
	}

	s.remember(ctx, key, attrs)
	return attrs, nil
}

func (s *Service) cached(ctx context.Context, key string) (*design.Attributes, bool) {
	data, err := s.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, cache.ErrMiss) {
			s.logger.Warn("cache read failed", "key", key, "error", err)
		}
		return nil, false
	}

	var attrs design.Attributes
	if err := json.Unmarshal(data, &attrs); err != nil {
		s.logger.Warn("discarding undecodable cache entry", "key", key, "error", err)
		return nil, false
	}
	return &attrs, true
}

func (s *Service) remember(ctx context.Context, key string, attrs *design.Attributes) {
	data, err := json.Marshal(attrs)
	if err != nil {
		s.logger.Warn("failed to encode attributes for cache", "error", err)
		return
	}
	if err := s.store.Set(ctx, key, data); err != nil {
		s.logger.Warn("cache write failed", "key", key, "error", err)
	}
}

func failed(err error) error {
	return fmt.Errorf("%w: %w", ErrMatchingFailed, err)
}
