package textmodel

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"

	"github.com/nao1215/newsverdict/internal/model"
)

// ClassifierSpec is the exported state of a fitted linear binary classifier.
type ClassifierSpec struct {
	// Coef holds one weight per feature. Both [w...] and the scikit-learn
	// shape [[w...]] are accepted.
	Coef weights `json:"coef"`

	// Intercept is the bias term. Both b and [b] are accepted.
	Intercept bias `json:"intercept"`

	// Classes are the two class ids in scikit-learn order. A positive
	// decision value selects Classes[1].
	Classes []int `json:"classes"`

	// Labels maps class ids (as strings) to label names.
	Labels map[string]string `json:"labels"`
}

// defaultClassifierSpec returns the defaults used when an artifact omits
// classes or labels: class 1 is REAL and class 0 is FAKE.
func defaultClassifierSpec() ClassifierSpec {
	return ClassifierSpec{
		Classes: []int{0, 1},
		Labels:  map[string]string{"0": "FAKE", "1": "REAL"},
	}
}

// LinearClassifier is a read-only linear decision boundary over the
// vectorizer's feature space.
type LinearClassifier struct {
	coef      []float64
	intercept float64
	negative  model.Label
	positive  model.Label
}

// ParseClassifier decodes and validates a classifier artifact.
func ParseClassifier(data []byte) (*LinearClassifier, error) {
	spec := defaultClassifierSpec()
	dec := json.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&spec); err != nil {
		return nil, fmt.Errorf("%w: decode classifier: %w", ErrInvalidArtifact, err)
	}
	return NewLinearClassifier(spec)
}

// NewLinearClassifier validates spec and builds a LinearClassifier.
func NewLinearClassifier(spec ClassifierSpec) (*LinearClassifier, error) {
	if len(spec.Coef) == 0 {
		return nil, fmt.Errorf("%w: classifier has no coefficients", ErrInvalidArtifact)
	}
	for i, w := range spec.Coef {
		if math.IsNaN(w) || math.IsInf(w, 0) {
			return nil, fmt.Errorf("%w: coef[%d] is not finite", ErrInvalidArtifact, i)
		}
	}
	intercept := float64(spec.Intercept)
	if math.IsNaN(intercept) || math.IsInf(intercept, 0) {
		return nil, fmt.Errorf("%w: intercept is not finite", ErrInvalidArtifact)
	}
	if len(spec.Classes) != 2 {
		return nil, fmt.Errorf("%w: binary classifier needs 2 classes, got %d", ErrInvalidArtifact, len(spec.Classes))
	}

	negative, err := classLabel(spec, spec.Classes[0])
	if err != nil {
		return nil, err
	}
	positive, err := classLabel(spec, spec.Classes[1])
	if err != nil {
		return nil, err
	}
	if negative == positive {
		return nil, fmt.Errorf("%w: both classes map to %s", ErrInvalidArtifact, positive)
	}

	return &LinearClassifier{
		coef:      append([]float64(nil), spec.Coef...),
		intercept: intercept,
		negative:  negative,
		positive:  positive,
	}, nil
}

func classLabel(spec ClassifierSpec, class int) (model.Label, error) {
	name, ok := spec.Labels[strconv.Itoa(class)]
	if !ok {
		return model.LabelUnknown, fmt.Errorf("%w: no label for class %d", ErrInvalidArtifact, class)
	}
	label, err := model.ParseLabel(name)
	if err != nil {
		return model.LabelUnknown, fmt.Errorf("%w: class %d: %w", ErrInvalidArtifact, class, err)
	}
	return label, nil
}

// Dim returns the number of features the classifier expects.
func (c *LinearClassifier) Dim() int {
	return len(c.coef)
}

// Predict maps a feature vector to exactly one of LabelReal or LabelFake.
func (c *LinearClassifier) Predict(fv FeatureVector) (model.Label, error) {
	if fv.Dim != len(c.coef) {
		return model.LabelUnknown, fmt.Errorf("%w: vector has %d features, classifier expects %d", ErrClassification, fv.Dim, len(c.coef))
	}

	decision := c.intercept
	for i, idx := range fv.Indices {
		decision += c.coef[idx] * fv.Values[i]
	}
	if math.IsNaN(decision) || math.IsInf(decision, 0) {
		return model.LabelUnknown, fmt.Errorf("%w: decision value is not finite", ErrClassification)
	}

	if decision > 0 {
		return c.positive, nil
	}
	return c.negative, nil
}

// weights decodes either a flat or a single-row nested JSON array.
type weights []float64

// UnmarshalJSON implements json.Unmarshaler.
func (w *weights) UnmarshalJSON(data []byte) error {
	var flat []float64
	if err := json.Unmarshal(data, &flat); err == nil {
		*w = flat
		return nil
	}
	var nested [][]float64
	if err := json.Unmarshal(data, &nested); err != nil {
		return fmt.Errorf("coef must be an array of numbers: %w", err)
	}
	if len(nested) != 1 {
		return fmt.Errorf("coef must have exactly one row, got %d", len(nested))
	}
	*w = nested[0]
	return nil
}

// bias decodes either a number or a one-element JSON array.
type bias float64

// UnmarshalJSON implements json.Unmarshaler.
func (b *bias) UnmarshalJSON(data []byte) error {
	var scalar float64
	if err := json.Unmarshal(data, &scalar); err == nil {
		*b = bias(scalar)
		return nil
	}
	var arr []float64
	if err := json.Unmarshal(data, &arr); err != nil {
		return fmt.Errorf("intercept must be a number: %w", err)
	}
	if len(arr) != 1 {
		return fmt.Errorf("intercept must have exactly one value, got %d", len(arr))
	}
	*b = bias(arr[0])
	return nil
}
