package services

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/rekognition"
	"github.com/aws/aws-sdk-go-v2/service/rekognition/types"
)

// RekognitionModel implements Model on top of AWS Rekognition DetectLabels.
// The detected label confidences are mapped onto the vocabulary: a detected
// label whose normalized name matches a vocabulary entry contributes its
// confidence as that entry's score, everything else stays at zero.
type RekognitionModel struct {
	client *rekognition.Client
	index  map[string]int // normalized label -> vocabulary index
	size   int
}

func NewRekognitionModel(client *rekognition.Client, vocab *Vocabulary) *RekognitionModel {
	index := make(map[string]int, vocab.Len())
	for i, label := range vocab.Labels() {
		index[NormalizeKey(label)] = i
	}
	return &RekognitionModel{client: client, index: index, size: vocab.Len()}
}

func (m *RekognitionModel) Predict(ctx context.Context, batch *Tensor) ([]float32, error) {
	img, err := encodePNG(batch)
	if err != nil {
		return nil, err
	}

	out, err := m.client.DetectLabels(ctx, &rekognition.DetectLabelsInput{
		Image:         &types.Image{Bytes: img},
		MaxLabels:     aws.Int32(10),
		MinConfidence: aws.Float32(10),
	})
	if err != nil {
		return nil, err
	}

	scores := make([]float32, m.size)
	for _, l := range out.Labels {
		if l.Name == nil || l.Confidence == nil {
			continue
		}
		if i, ok := m.index[NormalizeKey(*l.Name)]; ok && *l.Confidence > scores[i] {
			scores[i] = *l.Confidence
		}
	}
	return scores, nil
}

// encodePNG rebuilds the preprocessed tensor into PNG bytes for the API call.
func encodePNG(t *Tensor) ([]byte, error) {
	img := image.NewNRGBA(image.Rect(0, 0, t.Width, t.Height))
	i := 0
	for y := 0; y < t.Height; y++ {
		for x := 0; x < t.Width; x++ {
			img.SetNRGBA(x, y, color.NRGBA{
				R: uint8(t.Data[i] * 255),
				G: uint8(t.Data[i+1] * 255),
				B: uint8(t.Data[i+2] * 255),
				A: 255,
			})
			i += t.Channels
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
