package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
)

// Default configuration values.
const (
	// AppName is the application name used for XDG directory paths.
	AppName = "newsverdict"

	// DefaultEndpoint is the base URL of the generative language API.
	DefaultEndpoint = "https://generativelanguage.googleapis.com"

	// DefaultAPIVersion is the API version path segment.
	DefaultAPIVersion = "v1beta"

	// DefaultModel is the model asked first for a grounded summary.
	DefaultModel = "gemini-2.0-flash"

	// DefaultFallbackModel is used when the primary model is not found.
	// Model ids get retired without notice, so a second, older id is kept
	// around as a safety net.
	DefaultFallbackModel = "gemini-1.5-flash"

	// DefaultTimeout bounds a single request to the generative endpoint.
	// A grounded completion performs a web search before generating, which
	// routinely takes 10-20 seconds.
	DefaultTimeout = 30 * time.Second

	// DefaultBatchSize is the number of topics analyzed concurrently in
	// list mode.
	DefaultBatchSize = 4

	// DefaultListenAddress is the address used by the serve command.
	DefaultListenAddress = "127.0.0.1:8080"

	// VectorizerFile, ClassifierFile and BundleFile are the artifact file
	// names looked up in the artifact directory.
	VectorizerFile = "vectorizer.json"
	ClassifierFile = "classifier.json"
	BundleFile     = "model.db"

	// EnvAPIKey is the environment variable holding the API key.
	EnvAPIKey = "NEWSVERDICT_API_KEY"

	// EnvGeminiAPIKey is accepted when EnvAPIKey is unset.
	EnvGeminiAPIKey = "GEMINI_API_KEY"
)

// Config holds all configuration options for newsverdict.
// It is populated from defaults, then the configuration file, then CLI
// flags, and passed explicitly to the components that need it.
//
// Design decision: The API key has no file or flag counterpart. It is read
// from the environment only, so it never ends up in a committed config file
// or in shell history.
type Config struct {
	// APIKey authenticates requests to the generative endpoint.
	APIKey string

	// Endpoint is the base URL of the generative endpoint.
	Endpoint string

	// APIVersion is the versioned path segment, e.g. "v1beta".
	APIVersion string

	// Model is the primary model identifier.
	Model string

	// FallbackModel is tried when Model is reported as not found.
	FallbackModel string

	// Grounding requests the web search tool on the first attempt.
	Grounding bool

	// Timeout bounds each request to the generative endpoint.
	Timeout time.Duration

	// PromptTemplate overrides the summary prompt. It must contain one %s
	// verb for the topic. Empty uses the built-in prompt.
	PromptTemplate string

	// ArtifactDir is where artifacts are looked up when no explicit path
	// is configured. Defaults to the XDG data directory.
	ArtifactDir string

	// VectorizerPath and ClassifierPath locate the JSON artifacts.
	VectorizerPath string
	ClassifierPath string

	// BundlePath locates a SQLite bundle holding both artifacts.
	BundlePath string

	// VectorizerChecksum and ClassifierChecksum are optional BLAKE2b-256
	// hex digests verified when the JSON artifacts are loaded.
	VectorizerChecksum string
	ClassifierChecksum string

	// Verbose enables debug logging.
	Verbose bool

	// BatchSize is the number of concurrent requests in list mode.
	BatchSize int

	// ConfigFilePath is the path to the configuration file.
	ConfigFilePath string

	// JSONReport and MarkdownReport select the output format.
	// They are mutually exclusive; neither means plain text.
	JSONReport     bool
	MarkdownReport bool

	// ReportFile writes the report to a file instead of stdout.
	ReportFile string

	// ListenAddress is the address the HTTP server binds to.
	ListenAddress string
}

// NewConfig creates a new Config with default values.
// The API key is taken from the environment.
func NewConfig() *Config {
	return &Config{
		APIKey:        APIKeyFromEnv(),
		Endpoint:      DefaultEndpoint,
		APIVersion:    DefaultAPIVersion,
		Model:         DefaultModel,
		FallbackModel: DefaultFallbackModel,
		Grounding:     true,
		Timeout:       DefaultTimeout,
		ArtifactDir:   XDGDataDir(),
		BatchSize:     DefaultBatchSize,
		ListenAddress: DefaultListenAddress,
	}
}

// APIKeyFromEnv returns the API key from NEWSVERDICT_API_KEY, falling back
// to GEMINI_API_KEY.
func APIKeyFromEnv() string {
	if key := os.Getenv(EnvAPIKey); key != "" {
		return key
	}
	return os.Getenv(EnvGeminiAPIKey)
}

// XDGDataDir returns the XDG data directory for newsverdict, where model
// artifacts live by default.
// On Linux: ~/.local/share/newsverdict
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for newsverdict.
// On Linux: ~/.config/newsverdict
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// ResolveArtifacts fills in artifact paths that were not configured.
// An explicit bundle or explicit JSON paths are left untouched. Otherwise a
// bundle in ArtifactDir is preferred over JSON files in ArtifactDir.
func (c *Config) ResolveArtifacts() {
	if c.BundlePath != "" {
		return
	}
	if c.VectorizerPath != "" || c.ClassifierPath != "" {
		return
	}

	bundle := filepath.Join(c.ArtifactDir, BundleFile)
	if _, err := os.Stat(bundle); err == nil {
		c.BundlePath = bundle
		return
	}
	c.VectorizerPath = filepath.Join(c.ArtifactDir, VectorizerFile)
	c.ClassifierPath = filepath.Join(c.ArtifactDir, ClassifierFile)
}

// Validate checks the options shared by every command.
func (c *Config) Validate() error {
	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}
	if c.BatchSize <= 0 {
		return ErrInvalidBatchSize
	}
	if c.JSONReport && c.MarkdownReport {
		return ErrConflictingReportFormats
	}
	if c.BundlePath == "" && (c.VectorizerPath == "") != (c.ClassifierPath == "") {
		return ErrIncompleteArtifacts
	}
	return nil
}

// ValidateFetch checks the options needed to call the generative endpoint.
func (c *Config) ValidateFetch() error {
	if c.APIKey == "" {
		return ErrMissingAPIKey
	}
	if c.Model == "" {
		return ErrMissingModel
	}
	if c.Endpoint == "" {
		return ErrMissingEndpoint
	}
	return nil
}
