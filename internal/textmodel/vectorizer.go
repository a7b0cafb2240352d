package textmodel

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"sort"
)

// Normalization modes applied to feature vectors.
const (
	NormL2 = "l2"
	NormL1 = "l1"
)

// VectorizerSpec is the exported state of a fitted TF-IDF vectorizer.
// Field names follow the scikit-learn attribute names so that an export
// script can dump them directly.
type VectorizerSpec struct {
	Lowercase    bool           `json:"lowercase"`
	StripAccents string         `json:"strip_accents"`
	TokenPattern string         `json:"token_pattern"`
	NgramRange   [2]int         `json:"ngram_range"`
	StopWords    []string       `json:"stop_words"`
	Vocabulary   map[string]int `json:"vocabulary"`
	IDF          []float64      `json:"idf"`
	UseIDF       bool           `json:"use_idf"`
	SublinearTF  bool           `json:"sublinear_tf"`
	Binary       bool           `json:"binary"`

	// Norm is "l2", "l1", or nil (JSON null) for no normalization.
	Norm *string `json:"norm"`
}

// defaultVectorizerSpec returns the scikit-learn defaults. Fields absent
// from an artifact keep these values.
func defaultVectorizerSpec() VectorizerSpec {
	l2 := NormL2
	return VectorizerSpec{
		Lowercase:    true,
		TokenPattern: DefaultTokenPattern,
		NgramRange:   [2]int{1, 1},
		UseIDF:       true,
		Norm:         &l2,
	}
}

// FeatureVector is a sparse, fixed-dimensionality representation of one
// text. Indices are strictly increasing.
type FeatureVector struct {
	Dim     int
	Indices []int
	Values  []float64
}

// NNZ returns the number of non-zero features.
func (f FeatureVector) NNZ() int {
	return len(f.Indices)
}

// Vectorizer is a fitted, read-only TF-IDF transform.
type Vectorizer struct {
	analyzer    *analyzer
	vocabulary  map[string]int
	idf         []float64
	useIDF      bool
	sublinearTF bool
	binary      bool
	norm        string
	dim         int
}

// ParseVectorizer decodes and validates a vectorizer artifact.
func ParseVectorizer(data []byte) (*Vectorizer, error) {
	spec := defaultVectorizerSpec()
	dec := json.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&spec); err != nil {
		return nil, fmt.Errorf("%w: decode vectorizer: %w", ErrInvalidArtifact, err)
	}
	return NewVectorizer(spec)
}

// NewVectorizer validates spec and builds a Vectorizer from it.
func NewVectorizer(spec VectorizerSpec) (*Vectorizer, error) {
	dim := len(spec.Vocabulary)
	if dim == 0 {
		return nil, fmt.Errorf("%w: vectorizer vocabulary is empty", ErrInvalidArtifact)
	}

	// Every index in [0, dim) must be used exactly once.
	seen := make([]bool, dim)
	for term, idx := range spec.Vocabulary {
		if idx < 0 || idx >= dim {
			return nil, fmt.Errorf("%w: vocabulary index %d for %q out of range [0, %d)", ErrInvalidArtifact, idx, term, dim)
		}
		if seen[idx] {
			return nil, fmt.Errorf("%w: vocabulary index %d is assigned twice", ErrInvalidArtifact, idx)
		}
		seen[idx] = true
	}

	if spec.UseIDF {
		if len(spec.IDF) != dim {
			return nil, fmt.Errorf("%w: idf has %d entries, vocabulary has %d", ErrInvalidArtifact, len(spec.IDF), dim)
		}
		for i, w := range spec.IDF {
			if math.IsNaN(w) || math.IsInf(w, 0) {
				return nil, fmt.Errorf("%w: idf[%d] is not finite", ErrInvalidArtifact, i)
			}
		}
	}

	norm := ""
	if spec.Norm != nil {
		norm = *spec.Norm
	}
	switch norm {
	case "", NormL1, NormL2:
	default:
		return nil, fmt.Errorf("%w: unsupported norm %q", ErrInvalidArtifact, norm)
	}

	an, err := newAnalyzer(spec)
	if err != nil {
		return nil, err
	}

	vocab := make(map[string]int, dim)
	for term, idx := range spec.Vocabulary {
		vocab[term] = idx
	}

	var idf []float64
	if spec.UseIDF {
		idf = append([]float64(nil), spec.IDF...)
	}

	return &Vectorizer{
		analyzer:    an,
		vocabulary:  vocab,
		idf:         idf,
		useIDF:      spec.UseIDF,
		sublinearTF: spec.SublinearTF,
		binary:      spec.Binary,
		norm:        norm,
		dim:         dim,
	}, nil
}

// Dim returns the dimensionality of the produced vectors.
func (v *Vectorizer) Dim() int {
	return v.dim
}

// Transform converts text into a feature vector. Identical text always
// yields an identical vector. Terms outside the vocabulary are ignored, so
// the vector may be all zeros.
func (v *Vectorizer) Transform(text string) FeatureVector {
	counts := make(map[int]float64)
	for _, term := range v.analyzer.analyze(text) {
		if idx, ok := v.vocabulary[term]; ok {
			counts[idx]++
		}
	}

	indices := make([]int, 0, len(counts))
	for idx := range counts {
		indices = append(indices, idx)
	}
	sort.Ints(indices)

	values := make([]float64, len(indices))
	for i, idx := range indices {
		tf := counts[idx]
		switch {
		case v.binary:
			tf = 1
		case v.sublinearTF:
			tf = 1 + math.Log(tf)
		}
		if v.useIDF {
			tf *= v.idf[idx]
		}
		values[i] = tf
	}

	normalize(values, v.norm)

	return FeatureVector{Dim: v.dim, Indices: indices, Values: values}
}

// normalize scales values in place. A zero vector is left untouched.
func normalize(values []float64, norm string) {
	var total float64
	switch norm {
	case NormL2:
		for _, x := range values {
			total += x * x
		}
		total = math.Sqrt(total)
	case NormL1:
		for _, x := range values {
			total += math.Abs(x)
		}
	default:
		return
	}
	if total == 0 {
		return
	}
	for i := range values {
		values[i] /= total
	}
}
