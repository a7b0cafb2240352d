package textmodel

import (
	"fmt"
	"strings"

	"github.com/nao1215/newsverdict/internal/model"
)

// Engine composes a Vectorizer and a LinearClassifier into the
// classify(text) -> Label operation. It is immutable and safe for
// concurrent use.
type Engine struct {
	vectorizer *Vectorizer
	classifier *LinearClassifier
}

// NewEngine pairs a vectorizer with a classifier. Their dimensionalities
// must agree.
func NewEngine(v *Vectorizer, c *LinearClassifier) (*Engine, error) {
	if v == nil || c == nil {
		return nil, fmt.Errorf("%w: vectorizer and classifier are both required", ErrInvalidArtifact)
	}
	if v.Dim() != c.Dim() {
		return nil, fmt.Errorf("%w: vectorizer produces %d features, classifier expects %d",
			ErrInvalidArtifact, v.Dim(), c.Dim())
	}
	return &Engine{vectorizer: v, classifier: c}, nil
}

// Dim returns the feature space dimensionality.
func (e *Engine) Dim() int {
	return e.vectorizer.Dim()
}

// Classify labels text as REAL or FAKE.
//
// Empty or whitespace-only text returns ErrEmptyText without consulting the
// model. Any failure inside transform or predict, including a panic, is
// returned wrapped in ErrClassification.
func (e *Engine) Classify(text string) (label model.Label, err error) {
	if strings.TrimSpace(text) == "" {
		return model.LabelUnknown, ErrEmptyText
	}

	defer func() {
		if r := recover(); r != nil {
			label = model.LabelUnknown
			err = fmt.Errorf("%w: %v", ErrClassification, r)
		}
	}()

	return e.classifier.Predict(e.vectorizer.Transform(text))
}
