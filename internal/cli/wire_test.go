package cli

import (
	"context"
	"errors"
	"testing"

	"github.com/hashicorp/go-hclog"

	"github.com/jmylchreest/atelier/internal/config"
	imageloader "github.com/jmylchreest/atelier/internal/image"
)

func TestNewServiceURLsOnly(t *testing.T) {
	dir := t.TempDir()
	design := writeDesignPNG(t, dir)

	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("config.Load() error = %v", err)
	}
	cfg.Catalog.Path = writeFile(t, dir, "catalog.yaml", testCatalog)

	ctx := context.Background()

	server, release, err := newService(ctx, cfg, true, hclog.NewNullLogger())
	if err != nil {
		t.Fatalf("newService() error = %v", err)
	}
	defer release(ctx)

	if _, err := server.AnalyzeDesign(ctx, design); !errors.Is(err, imageloader.ErrInvalidRef) {
		t.Errorf("AnalyzeDesign(local path) error = %v, want ErrInvalidRef", err)
	}

	local, releaseLocal, err := newService(ctx, cfg, false, hclog.NewNullLogger())
	if err != nil {
		t.Fatalf("newService() error = %v", err)
	}
	defer releaseLocal(ctx)

	if _, err := local.AnalyzeDesign(ctx, design); err != nil {
		t.Errorf("AnalyzeDesign(local path) error = %v for the CLI loader", err)
	}
}
