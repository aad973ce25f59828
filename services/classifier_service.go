package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"math"
	"sync"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"go.uber.org/zap"
	"golang.org/x/image/draw"
)

const (
	inputWidth    = 128
	inputHeight   = 128
	inputChannels = 3
)

var (
	// ErrDecode means the input bytes could not be parsed as an image.
	ErrDecode = errors.New("image decode failed")
	// ErrInference means the model was unavailable or returned an output
	// vector that does not match the vocabulary.
	ErrInference = errors.New("model inference failed")
)

// Tensor is a preprocessed image batch of size one: interleaved RGB values
// normalized to [0,1], row major.
type Tensor struct {
	Data     []float32
	Width    int
	Height   int
	Channels int
}

// Model is the inference contract of the pre-trained classifier. Predict
// returns one score per vocabulary entry; scores may be raw logits, the
// classifier applies softmax itself.
type Model interface {
	Predict(ctx context.Context, batch *Tensor) ([]float32, error)
}

// ClassificationResult is the outcome of one inference call. Not persisted.
type ClassificationResult struct {
	Label      string  `json:"label"`
	Index      int     `json:"index"`
	Confidence float64 `json:"confidence"` // percent, 2 decimal places
}

// ClassifierService runs image classification against a shared model.
// Predict calls are serialized: the loaded model is not assumed safe for
// concurrent invocation.
type ClassifierService struct {
	mu    sync.Mutex
	model Model
	vocab *Vocabulary
	log   *zap.SugaredLogger
}

func NewClassifierService(model Model, vocab *Vocabulary, log *zap.SugaredLogger) *ClassifierService {
	return &ClassifierService{model: model, vocab: vocab, log: log}
}

// Classify decodes the image, resizes it to the model input grid, runs
// inference and picks the highest-probability label. Synchronous and
// single-shot; failures surface immediately with no retry.
func (s *ClassifierService) Classify(ctx context.Context, imageBytes []byte) (*ClassificationResult, error) {
	t, err := Preprocess(imageBytes)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	scores, err := s.model.Predict(ctx, t)
	s.mu.Unlock()
	if err != nil {
		s.log.Errorw("model inference error", "error", err)
		return nil, fmt.Errorf("%w: %v", ErrInference, err)
	}
	if len(scores) != s.vocab.Len() {
		s.log.Errorw("model output does not match vocabulary",
			"outputs", len(scores), "labels", s.vocab.Len())
		return nil, fmt.Errorf("%w: output vector length %d, vocabulary size %d",
			ErrInference, len(scores), s.vocab.Len())
	}

	probs := softmax(scores)
	best := argmax(probs)

	return &ClassificationResult{
		Label:      s.vocab.At(best),
		Index:      best,
		Confidence: round2(100 * probs[best]),
	}, nil
}

// Preprocess decodes arbitrary image bytes and produces the normalized
// 128x128x3 input tensor.
func Preprocess(imageBytes []byte) (*Tensor, error) {
	src, _, err := image.Decode(bytes.NewReader(imageBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}

	dst := image.NewNRGBA(image.Rect(0, 0, inputWidth, inputHeight))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)

	data := make([]float32, inputWidth*inputHeight*inputChannels)
	i := 0
	for y := 0; y < inputHeight; y++ {
		for x := 0; x < inputWidth; x++ {
			off := dst.PixOffset(x, y)
			data[i] = float32(dst.Pix[off]) / 255.0
			data[i+1] = float32(dst.Pix[off+1]) / 255.0
			data[i+2] = float32(dst.Pix[off+2]) / 255.0
			i += inputChannels
		}
	}
	return &Tensor{Data: data, Width: inputWidth, Height: inputHeight, Channels: inputChannels}, nil
}

// softmax turns raw scores into a probability distribution. Shifting by the
// max keeps the exponentials from overflowing.
func softmax(scores []float32) []float64 {
	maxScore := float64(scores[0])
	for _, v := range scores[1:] {
		if float64(v) > maxScore {
			maxScore = float64(v)
		}
	}
	probs := make([]float64, len(scores))
	var sum float64
	for i, v := range scores {
		probs[i] = math.Exp(float64(v) - maxScore)
		sum += probs[i]
	}
	for i := range probs {
		probs[i] /= sum
	}
	return probs
}

func argmax(v []float64) int {
	best := 0
	for i, x := range v {
		if x > v[best] {
			best = i
		}
	}
	return best
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }
