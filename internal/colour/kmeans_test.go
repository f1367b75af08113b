package colour

import (
	"image"
	"image/color"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// stripes fills a w x h image with vertical bands; widths[i] columns of cs[i].
func stripes(h int, cs []color.Color, widths []int) image.Image {
	w := 0
	for _, n := range widths {
		w += n
	}
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	x := 0
	for i, n := range widths {
		for ; n > 0; n-- {
			for y := 0; y < h; y++ {
				img.Set(x, y, cs[i])
			}
			x++
		}
	}
	return img
}

// noisy returns a large image of two jittered colour families so clustering
// runs instead of the unique-colour shortcut.
func noisy() image.Image {
	img := image.NewRGBA(image.Rect(0, 0, 100, 100))
	for y := 0; y < 100; y++ {
		for x := 0; x < 100; x++ {
			j := uint8((x*7 + y*13) % 20)
			if x < 70 {
				img.Set(x, y, color.RGBA{R: 220 + j, G: j, B: j, A: 255})
			} else {
				img.Set(x, y, color.RGBA{R: j, G: j, B: 200 + j, A: 255})
			}
		}
	}
	return img
}

func TestKMeansExtractUniqueColours(t *testing.T) {
	img := stripes(10, []color.Color{blue, red, green}, []int{3, 5, 2})

	p, err := NewKMeansExtractor().Extract(img, 5)
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}

	got := NewPalette(p.Dominant()).ToHex()
	want := []string{"#ff0000", "#0000ff", "#00ff00"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("dominant order mismatch (-want +got):\n%s", diff)
	}

	sum := 0.0
	for _, w := range p.Weights {
		sum += w
	}
	if sum < 0.999 || sum > 1.001 {
		t.Errorf("weights sum to %v, want 1", sum)
	}
}

func TestKMeansExtractClusters(t *testing.T) {
	p, err := NewKMeansExtractor().Extract(noisy(), 2)
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if p.Len() != 2 {
		t.Fatalf("expected 2 colours, got %d", p.Len())
	}

	colors := Colors(p)
	if colors[0].RGB.R < 200 || colors[0].RGB.B > 40 {
		t.Errorf("expected a red primary, got %s", colors[0].Hex)
	}
	if colors[1].RGB.B < 180 || colors[1].RGB.R > 40 {
		t.Errorf("expected a blue secondary, got %s", colors[1].Hex)
	}
}

func TestKMeansDeterministic(t *testing.T) {
	img := noisy()
	e := NewKMeansExtractor()

	first, err := e.Extract(img, 4)
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	for i := 0; i < 5; i++ {
		again, err := e.Extract(img, 4)
		if err != nil {
			t.Fatalf("Extract() error = %v", err)
		}
		if diff := cmp.Diff(first.ToHex(), again.ToHex()); diff != "" {
			t.Fatalf("extraction not reproducible (-first +again):\n%s", diff)
		}
	}

	if e.WithSeed(42).seed != 42 || e.seed != defaultSeed {
		t.Error("WithSeed should return a modified copy")
	}
}

func TestKMeansSkipsTransparentPixels(t *testing.T) {
	img := stripes(10,
		[]color.Color{color.RGBA{}, red, color.NRGBA{G: 255, A: 60}},
		[]int{6, 2, 2})

	p, err := NewKMeansExtractor().Extract(img, 3)
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if diff := cmp.Diff([]string{"#ff0000"}, p.ToHex()); diff != "" {
		t.Errorf("unexpected colours (-want +got):\n%s", diff)
	}

	empty := image.NewRGBA(image.Rect(0, 0, 4, 4))
	if _, err := NewKMeansExtractor().Extract(empty, 3); err == nil {
		t.Error("expected error for a fully transparent image")
	}
}

func TestKMeansExtractErrors(t *testing.T) {
	e := NewKMeansExtractor()
	img := stripes(2, []color.Color{red}, []int{2})

	if _, err := e.Extract(nil, 3); err == nil {
		t.Error("expected error for nil image")
	}
	if _, err := e.Extract(img, 0); err == nil {
		t.Error("expected error for zero count")
	}
	if _, err := e.Extract(img, 257); err == nil {
		t.Error("expected error for count above 256")
	}
}

func TestSamplePixels(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 200, 200))
	for y := 0; y < 200; y++ {
		for x := 0; x < 200; x++ {
			img.Set(x, y, red)
		}
	}

	got := samplePixels(img, 2000)
	if len(got) == 0 || len(got) > 2000 {
		t.Errorf("samplePixels returned %d pixels, want 1..2000", len(got))
	}
}
