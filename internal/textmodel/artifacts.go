package textmodel

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/nao1215/newsverdict/internal/database"
)

// ArtifactSource says where the model artifacts live. Either BundlePath or
// both VectorizerPath and ClassifierPath must be set; BundlePath wins when
// both forms are given.
type ArtifactSource struct {
	// VectorizerPath is the path to vectorizer.json.
	VectorizerPath string

	// ClassifierPath is the path to classifier.json.
	ClassifierPath string

	// BundlePath is the path to a SQLite bundle holding both artifacts.
	BundlePath string

	// VectorizerChecksum is the expected BLAKE2b-256 hex digest of the
	// vectorizer file. Empty skips the check. Ignored for bundles, which
	// carry their own checksums.
	VectorizerChecksum string

	// ClassifierChecksum is the expected digest of the classifier file.
	ClassifierChecksum string
}

// LoadEngine loads both artifacts and builds an Engine. It either returns a
// fully usable Engine or an error wrapping ErrArtifactLoad; there is no
// partial result.
func LoadEngine(ctx context.Context, src ArtifactSource) (*Engine, error) {
	vecData, clfData, err := readArtifacts(ctx, src)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrArtifactLoad, err)
	}

	engine, err := BuildEngine(vecData, clfData)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrArtifactLoad, err)
	}
	return engine, nil
}

// BuildEngine parses raw artifact payloads into an Engine.
func BuildEngine(vectorizerJSON, classifierJSON []byte) (*Engine, error) {
	v, err := ParseVectorizer(vectorizerJSON)
	if err != nil {
		return nil, fmt.Errorf("vectorizer: %w", err)
	}
	c, err := ParseClassifier(classifierJSON)
	if err != nil {
		return nil, fmt.Errorf("classifier: %w", err)
	}
	return NewEngine(v, c)
}

func readArtifacts(ctx context.Context, src ArtifactSource) ([]byte, []byte, error) {
	if src.BundlePath != "" {
		return readBundle(ctx, src.BundlePath)
	}
	if src.VectorizerPath == "" || src.ClassifierPath == "" {
		return nil, nil, fmt.Errorf("%w: no artifact location configured", ErrInvalidArtifact)
	}

	vecData, err := readVerified(src.VectorizerPath, src.VectorizerChecksum)
	if err != nil {
		return nil, nil, err
	}
	clfData, err := readVerified(src.ClassifierPath, src.ClassifierChecksum)
	if err != nil {
		return nil, nil, err
	}
	return vecData, clfData, nil
}

func readBundle(ctx context.Context, path string) ([]byte, []byte, error) {
	bundle, err := database.Open(path, database.ReadOnly())
	if err != nil {
		return nil, nil, err
	}
	defer bundle.Close()

	vecData, err := bundle.Get(ctx, database.ArtifactVectorizer)
	if err != nil {
		return nil, nil, err
	}
	clfData, err := bundle.Get(ctx, database.ArtifactClassifier)
	if err != nil {
		return nil, nil, err
	}
	return vecData, clfData, nil
}

func readVerified(path, checksum string) ([]byte, error) {
	data, err := os.ReadFile(path) //nolint:gosec // Artifact path comes from trusted configuration
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if checksum != "" && !strings.EqualFold(database.Checksum(data), checksum) {
		return nil, fmt.Errorf("%w: %s", ErrChecksumMismatch, path)
	}
	return data, nil
}
