// Sample design generator. Writes testdata/design.png, a red dress design
// with a blue trim, for trying the CLI:
//
//	go run testdata/generate_design.go
//	atelier match testdata/design.png --catalog testdata/catalog.yaml
package main

import (
	"image"
	"image/color"
	"image/png"
	"os"
)

func main() {
	width := 300
	height := 400
	img := image.NewRGBA(image.Rect(0, 0, width, height))

	body := color.RGBA{R: 200, G: 16, B: 46, A: 255} // crimson
	trim := color.RGBA{R: 20, G: 40, B: 120, A: 255} // navy

	// Transparent background so only the garment is sampled.
	for y := 40; y < height-20; y++ {
		// A-line silhouette widening towards the hem.
		half := 40 + (y-40)*90/(height-60)
		for x := width/2 - half; x < width/2+half; x++ {
			c := body
			if y < 70 || y > height-40 {
				c = trim
			}
			img.Set(x, y, c)
		}
	}

	file, err := os.Create("testdata/design.png")
	if err != nil {
		panic(err)
	}
	defer file.Close()

	if err := png.Encode(file, img); err != nil {
		panic(err)
	}
}
