package services

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// Vocabulary is the ordered list of class labels the model was trained on.
// Line i of the labels file corresponds to model output index i. Loaded once
// at startup and read-only afterwards.
type Vocabulary struct {
	labels []string
}

func LoadVocabulary(path string) (*Vocabulary, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open labels file: %w", err)
	}
	defer f.Close()

	var labels []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		labels = append(labels, line)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read labels file: %w", err)
	}
	if len(labels) == 0 {
		return nil, fmt.Errorf("labels file %s is empty", path)
	}
	return &Vocabulary{labels: labels}, nil
}

// NewVocabulary builds a vocabulary from an in-memory label list.
func NewVocabulary(labels []string) *Vocabulary {
	return &Vocabulary{labels: labels}
}

func (v *Vocabulary) Len() int { return len(v.labels) }

func (v *Vocabulary) At(i int) string { return v.labels[i] }

// Labels returns a copy so callers cannot mutate the vocabulary.
func (v *Vocabulary) Labels() []string {
	out := make([]string, len(v.labels))
	copy(out, v.labels)
	return out
}
