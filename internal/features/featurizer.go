// Package features turns sampled video frames into fixed-length feature
// vectors. The default backbone is a deterministic pooled-grid descriptor;
// an autoencoder trained on the run's own frames is the alternative
// signature generator. Both satisfy Featurizer, so the extraction pipeline
// is agnostic to the backbone choice.
package features

import (
	"image"
	"math"
)

// Featurizer converts one frame into a fixed-length feature vector.
// Every frame fed to the same Featurizer must already be resized to
// InputSize x InputSize; Dim is constant for a given configuration, and
// assets compared together must share it.
type Featurizer interface {
	Features(img image.Image) []float32
	InputSize() int
	Dim() int
}

// DefaultInputSize matches the 224x224 input of common image backbones.
const DefaultInputSize = 224

// DefaultGridCells is the pooling grid edge length of the grid descriptor.
const DefaultGridCells = 7

// statsPerCell: mean R, G, B plus mean luminance gradient magnitude.
const statsPerCell = 4

// GridFeaturizer is a pretrained-backbone stand-in: it pools per-cell
// color and edge statistics over a fixed grid, producing a deterministic
// fixed-length descriptor with no classification head.
type GridFeaturizer struct {
	inputSize int
	cells     int
}

// NewGridFeaturizer creates a grid descriptor with the default 224 input
// and 7x7 pooling grid (dim 7*7*4 = 196).
func NewGridFeaturizer() *GridFeaturizer {
	return &GridFeaturizer{inputSize: DefaultInputSize, cells: DefaultGridCells}
}

// InputSize returns the expected frame edge length.
func (g *GridFeaturizer) InputSize() int { return g.inputSize }

// Dim returns the descriptor length.
func (g *GridFeaturizer) Dim() int { return g.cells * g.cells * statsPerCell }

// Features computes the pooled descriptor for one frame. Frames smaller
// than the input size are handled by clamping cell bounds; an empty image
// yields the zero descriptor.
func (g *GridFeaturizer) Features(img image.Image) []float32 {
	out := make([]float32, g.Dim())
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w == 0 || h == 0 {
		return out
	}

	luma := lumaPlane(img)

	idx := 0
	for cy := 0; cy < g.cells; cy++ {
		for cx := 0; cx < g.cells; cx++ {
			x0 := bounds.Min.X + cx*w/g.cells
			x1 := bounds.Min.X + (cx+1)*w/g.cells
			y0 := bounds.Min.Y + cy*h/g.cells
			y1 := bounds.Min.Y + (cy+1)*h/g.cells
			if x1 <= x0 {
				x1 = x0 + 1
			}
			if y1 <= y0 {
				y1 = y0 + 1
			}

			var sumR, sumG, sumB, sumGrad float64
			n := 0
			for y := y0; y < y1; y++ {
				for x := x0; x < x1; x++ {
					r, gc, b, _ := img.At(x, y).RGBA()
					sumR += float64(r >> 8)
					sumG += float64(gc >> 8)
					sumB += float64(b >> 8)
					sumGrad += luma.gradient(x-bounds.Min.X, y-bounds.Min.Y)
					n++
				}
			}

			inv := 1.0 / (255.0 * float64(n))
			out[idx] = float32(sumR * inv)
			out[idx+1] = float32(sumG * inv)
			out[idx+2] = float32(sumB * inv)
			out[idx+3] = float32(sumGrad * inv)
			idx += statsPerCell
		}
	}

	return out
}

// lumaGrid caches the luminance plane so gradient lookups stay O(1).
type lumaGrid struct {
	w, h int
	v    []float64
}

func lumaPlane(img image.Image) *lumaGrid {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	g := &lumaGrid{w: w, h: h, v: make([]float64, w*h)}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			r, gc, b, _ := img.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			g.v[y*w+x] = 0.299*float64(r>>8) + 0.587*float64(gc>>8) + 0.114*float64(b>>8)
		}
	}
	return g
}

// gradient returns the luminance gradient magnitude at (x, y) using
// central differences, clamped at the image border.
func (g *lumaGrid) gradient(x, y int) float64 {
	at := func(x, y int) float64 {
		if x < 0 {
			x = 0
		}
		if x >= g.w {
			x = g.w - 1
		}
		if y < 0 {
			y = 0
		}
		if y >= g.h {
			y = g.h - 1
		}
		return g.v[y*g.w+x]
	}
	dx := at(x+1, y) - at(x-1, y)
	dy := at(x, y+1) - at(x, y-1)
	return math.Sqrt(dx*dx+dy*dy) / 2
}
