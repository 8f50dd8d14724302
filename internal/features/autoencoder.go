package features

import (
	"image"
	"math"
	"math/rand"
)

// AutoencoderInputSide is the frame edge length for autoencoder signatures.
// Frames are reduced to grayscale vectors of AutoencoderInputSide^2 before
// encoding.
const AutoencoderInputSide = 64

// Autoencoder is a small linear autoencoder trained on the run's own frame
// samples. The encoder half produces per-frame signatures; the decoder
// exists only to drive reconstruction loss during training.
type Autoencoder struct {
	inputDim  int
	hiddenDim int

	// encoder: h = w1*x + b1; decoder: xhat = w2*h + b2
	w1 []float32 // hiddenDim x inputDim, row-major
	b1 []float32
	w2 []float32 // inputDim x hiddenDim, row-major
	b2 []float32
}

// NewAutoencoder creates an untrained autoencoder with weights drawn from
// a seeded generator, so identical seeds yield identical signatures.
func NewAutoencoder(inputDim, hiddenDim int, seed int64) *Autoencoder {
	rng := rand.New(rand.NewSource(seed))
	a := &Autoencoder{
		inputDim:  inputDim,
		hiddenDim: hiddenDim,
		w1:        make([]float32, hiddenDim*inputDim),
		b1:        make([]float32, hiddenDim),
		w2:        make([]float32, inputDim*hiddenDim),
		b2:        make([]float32, inputDim),
	}
	scale := float32(1.0 / math.Sqrt(float64(inputDim)))
	for i := range a.w1 {
		a.w1[i] = (rng.Float32()*2 - 1) * scale
	}
	hscale := float32(1.0 / math.Sqrt(float64(hiddenDim)))
	for i := range a.w2 {
		a.w2[i] = (rng.Float32()*2 - 1) * hscale
	}
	return a
}

// Train runs plain SGD over the samples for the given number of epochs,
// minimizing mean squared reconstruction error. Samples with a wrong
// dimensionality are skipped.
func (a *Autoencoder) Train(samples [][]float32, epochs int, lr float32) {
	for epoch := 0; epoch < epochs; epoch++ {
		for _, x := range samples {
			if len(x) != a.inputDim {
				continue
			}
			a.step(x, lr)
		}
	}
}

// Loss returns the mean squared reconstruction error over the samples.
func (a *Autoencoder) Loss(samples [][]float32) float64 {
	var total float64
	n := 0
	for _, x := range samples {
		if len(x) != a.inputDim {
			continue
		}
		xhat := a.decode(a.Encode(x))
		for i := range x {
			d := float64(xhat[i] - x[i])
			total += d * d
		}
		n += a.inputDim
	}
	if n == 0 {
		return 0
	}
	return total / float64(n)
}

// Encode produces the per-frame signature for one input vector.
func (a *Autoencoder) Encode(x []float32) []float32 {
	h := make([]float32, a.hiddenDim)
	for i := 0; i < a.hiddenDim; i++ {
		sum := a.b1[i]
		row := a.w1[i*a.inputDim:]
		for j := 0; j < a.inputDim; j++ {
			sum += row[j] * x[j]
		}
		h[i] = sum
	}
	return h
}

func (a *Autoencoder) decode(h []float32) []float32 {
	xhat := make([]float32, a.inputDim)
	for i := 0; i < a.inputDim; i++ {
		sum := a.b2[i]
		row := a.w2[i*a.hiddenDim:]
		for j := 0; j < a.hiddenDim; j++ {
			sum += row[j] * h[j]
		}
		xhat[i] = sum
	}
	return xhat
}

// step performs one SGD update on a single sample.
func (a *Autoencoder) step(x []float32, lr float32) {
	h := a.Encode(x)
	xhat := a.decode(h)

	// e = xhat - x
	e := make([]float32, a.inputDim)
	for i := range e {
		e[i] = xhat[i] - x[i]
	}

	// dh = w2^T * e
	dh := make([]float32, a.hiddenDim)
	for i := 0; i < a.inputDim; i++ {
		row := a.w2[i*a.hiddenDim:]
		for j := 0; j < a.hiddenDim; j++ {
			dh[j] += row[j] * e[i]
		}
	}

	// decoder update
	for i := 0; i < a.inputDim; i++ {
		row := a.w2[i*a.hiddenDim:]
		for j := 0; j < a.hiddenDim; j++ {
			row[j] -= lr * e[i] * h[j]
		}
		a.b2[i] -= lr * e[i]
	}

	// encoder update
	for i := 0; i < a.hiddenDim; i++ {
		row := a.w1[i*a.inputDim:]
		for j := 0; j < a.inputDim; j++ {
			row[j] -= lr * dh[i] * x[j]
		}
		a.b1[i] -= lr * dh[i]
	}
}

// AutoencoderFeaturizer adapts an Autoencoder to the Featurizer contract
// for per-frame signature generation. Unlike the grid descriptor it learns
// from the run's own frames: TrainFrames must run over the sampled frames
// before Features is meaningful.
type AutoencoderFeaturizer struct {
	ae     *Autoencoder
	epochs int
	lr     float32
}

// NewAutoencoderFeaturizer wraps an autoencoder with default training
// settings (5 epochs, learning rate 0.01).
func NewAutoencoderFeaturizer(ae *Autoencoder) *AutoencoderFeaturizer {
	return &AutoencoderFeaturizer{ae: ae, epochs: 5, lr: 0.01}
}

// WithTraining overrides the epoch count and learning rate.
func (f *AutoencoderFeaturizer) WithTraining(epochs int, lr float32) *AutoencoderFeaturizer {
	if epochs > 0 {
		f.epochs = epochs
	}
	if lr > 0 {
		f.lr = lr
	}
	return f
}

// TrainFrames fits the autoencoder on the given frames (already resized to
// the input side) before signature generation.
func (f *AutoencoderFeaturizer) TrainFrames(frames []image.Image) {
	samples := make([][]float32, 0, len(frames))
	for _, frame := range frames {
		samples = append(samples, GrayVector(frame, AutoencoderInputSide))
	}
	f.ae.Train(samples, f.epochs, f.lr)
}

func (f *AutoencoderFeaturizer) InputSize() int { return AutoencoderInputSide }

func (f *AutoencoderFeaturizer) Dim() int { return f.ae.hiddenDim }

func (f *AutoencoderFeaturizer) Features(img image.Image) []float32 {
	return f.ae.Encode(GrayVector(img, AutoencoderInputSide))
}

// GrayVector converts a frame (already resized to side x side) into a
// normalized grayscale vector of length side*side.
func GrayVector(img image.Image, side int) []float32 {
	out := make([]float32, side*side)
	bounds := img.Bounds()
	for y := 0; y < side; y++ {
		for x := 0; x < side; x++ {
			if x >= bounds.Dx() || y >= bounds.Dy() {
				continue
			}
			r, g, b, _ := img.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			luma := 0.299*float64(r>>8) + 0.587*float64(g>>8) + 0.114*float64(b>>8)
			out[y*side+x] = float32(luma / 255.0)
		}
	}
	return out
}
