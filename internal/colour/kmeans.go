package colour

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"math/rand"
)

const (
	// defaultSeed keeps extraction reproducible for a given image.
	defaultSeed int64 = 0x5eed

	// minAlpha is the opacity below which sampled pixels are ignored, so
	// transparent canvas areas around a sketch do not become a dominant colour.
	minAlpha = 125
)

// KMeansExtractor implements color extraction using k-means clustering.
type KMeansExtractor struct {
	maxIterations int
	convergence   float64
	maxSamples    int
	seed          int64
}

// NewKMeansExtractor creates a new KMeansExtractor with default settings.
func NewKMeansExtractor() *KMeansExtractor {
	return &KMeansExtractor{
		maxIterations: 20,
		convergence:   2.0,
		maxSamples:    2000,
		seed:          defaultSeed,
	}
}

// WithSeed returns a copy of the extractor using the given random seed.
func (e *KMeansExtractor) WithSeed(seed int64) *KMeansExtractor {
	c := *e
	c.seed = seed
	return &c
}

// Extract extracts colors from an image using k-means clustering.
// Returns colors with their relative weights (cluster sizes).
func (e *KMeansExtractor) Extract(img image.Image, count int) (*Palette, error) {
	if img == nil {
		return nil, fmt.Errorf("image cannot be nil")
	}
	if err := validateCount(count); err != nil {
		return nil, err
	}

	pixels := samplePixels(img, e.maxSamples)
	if len(pixels) == 0 {
		return nil, fmt.Errorf("no opaque pixels found in image")
	}

	// Count unique colours first; small palettes need no clustering.
	uniqueColors := make([]color.Color, 0)
	counts := make(map[RGB]int)
	for _, p := range pixels {
		rgb := ToRGB(p)
		if counts[rgb] == 0 {
			uniqueColors = append(uniqueColors, RGBToColor(rgb))
		}
		counts[rgb]++
	}

	if count >= len(uniqueColors) {
		weights := make([]float64, len(uniqueColors))
		for i, c := range uniqueColors {
			weights[i] = float64(counts[ToRGB(c)]) / float64(len(pixels))
		}
		return NewPaletteWithWeights(uniqueColors, weights), nil
	}

	// The random source is per call so a single extractor can be shared.
	rng := rand.New(rand.NewSource(e.seed))
	centroids, weights := e.kmeans(rng, pixels, count)

	colors := make([]color.Color, len(centroids))
	for i, c := range centroids {
		colors[i] = color.RGBA{
			R: clampChannel(c.R),
			G: clampChannel(c.G),
			B: clampChannel(c.B),
			A: 255,
		}
	}

	return NewPaletteWithWeights(colors, weights), nil
}

// point3D represents a point in 3D RGB color space.
type point3D struct {
	R, G, B float64
}

// distance calculates the Euclidean distance between two points in RGB space.
func (p point3D) distance(other point3D) float64 {
	dr := p.R - other.R
	dg := p.G - other.G
	db := p.B - other.B
	return math.Sqrt(dr*dr + dg*dg + db*db)
}

func clampChannel(v float64) uint8 {
	return uint8(math.Max(0, math.Min(255, math.Round(v))))
}

// samplePixels samples opaque pixels from the image, grid sampling large
// images down to roughly maxSamples.
func samplePixels(img image.Image, maxSamples int) []color.Color {
	bounds := img.Bounds()
	totalPixels := bounds.Dx() * bounds.Dy()

	step := 1
	if totalPixels > maxSamples {
		step = max(int(math.Sqrt(float64(totalPixels)/float64(maxSamples))), 1)
	}

	pixels := make([]color.Color, 0, min(totalPixels, maxSamples))
	for y := bounds.Min.Y; y < bounds.Max.Y; y += step {
		for x := bounds.Min.X; x < bounds.Max.X; x += step {
			c := img.At(x, y)
			if _, _, _, a := c.RGBA(); a>>8 < minAlpha {
				continue
			}
			pixels = append(pixels, c)
			if len(pixels) >= maxSamples {
				return pixels
			}
		}
	}

	return pixels
}

// kmeans performs k-means clustering on the pixel data.
// Returns centroids and their weights (relative cluster sizes).
func (e *KMeansExtractor) kmeans(rng *rand.Rand, pixels []color.Color, k int) ([]point3D, []float64) {
	points := make([]point3D, len(pixels))
	for i, c := range pixels {
		rgb := ToRGB(c)
		points[i] = point3D{
			R: float64(rgb.R),
			G: float64(rgb.G),
			B: float64(rgb.B),
		}
	}

	centroids := initializeCentroids(rng, points, k)

	// -1 forces every point to count as changed on the first pass.
	assignments := make([]int, len(points))
	for i := range assignments {
		assignments[i] = -1
	}

	for iter := 0; iter < e.maxIterations; iter++ {
		changed := 0
		for i, point := range points {
			nearest := findNearestCentroid(point, centroids)
			if assignments[i] != nearest {
				assignments[i] = nearest
				changed++
			}
		}

		// Fewer than 1% of assignments moved.
		if float64(changed)/float64(len(points)) < 0.01 {
			break
		}

		newCentroids := recalculateCentroids(rng, points, assignments, k)

		totalMovement := 0.0
		for i := range centroids {
			totalMovement += centroids[i].distance(newCentroids[i])
		}
		centroids = newCentroids

		if totalMovement/float64(k) < e.convergence {
			break
		}
	}

	// Final assignment against the settled centroids.
	for i, point := range points {
		assignments[i] = findNearestCentroid(point, centroids)
	}

	weights := make([]float64, k)
	for _, assignment := range assignments {
		weights[assignment]++
	}
	total := float64(len(assignments))
	for i := range weights {
		weights[i] /= total
	}

	return centroids, weights
}

// initializeCentroids seeds centroids using the k-means++ algorithm.
func initializeCentroids(rng *rand.Rand, points []point3D, k int) []point3D {
	if len(points) == 0 || k == 0 {
		return []point3D{}
	}

	centroids := make([]point3D, 0, k)
	centroids = append(centroids, points[rng.Intn(len(points))])

	for len(centroids) < k {
		distances := make([]float64, len(points))
		totalDistance := 0.0

		for i, point := range points {
			minDist := math.MaxFloat64
			for _, centroid := range centroids {
				if dist := point.distance(centroid); dist < minDist {
					minDist = dist
				}
			}
			distances[i] = minDist * minDist
			totalDistance += distances[i]
		}

		if totalDistance == 0 {
			last := centroids[len(centroids)-1]
			centroids = append(centroids, point3D{R: last.R + 0.1, G: last.G + 0.1, B: last.B + 0.1})
			continue
		}

		target := rng.Float64() * totalDistance
		cumulative := 0.0
		picked := false
		for i, dist := range distances {
			cumulative += dist
			if cumulative >= target {
				centroids = append(centroids, points[i])
				picked = true
				break
			}
		}
		if !picked {
			centroids = append(centroids, points[len(points)-1])
		}
	}

	return centroids
}

// findNearestCentroid finds the index of the nearest centroid to a point.
func findNearestCentroid(point point3D, centroids []point3D) int {
	minDist := math.MaxFloat64
	nearest := 0

	for i, centroid := range centroids {
		if dist := point.distance(centroid); dist < minDist {
			minDist = dist
			nearest = i
		}
	}

	return nearest
}

// recalculateCentroids recalculates centroid positions based on assigned points.
func recalculateCentroids(rng *rand.Rand, points []point3D, assignments []int, k int) []point3D {
	sums := make([]point3D, k)
	counts := make([]int, k)

	for i, point := range points {
		cluster := assignments[i]
		sums[cluster].R += point.R
		sums[cluster].G += point.G
		sums[cluster].B += point.B
		counts[cluster]++
	}

	centroids := make([]point3D, k)
	for i := range k {
		if counts[i] > 0 {
			n := float64(counts[i])
			centroids[i] = point3D{R: sums[i].R / n, G: sums[i].G / n, B: sums[i].B / n}
		} else {
			// Empty cluster, reseed from a random point.
			centroids[i] = points[rng.Intn(len(points))]
		}
	}

	return centroids
}
