package config

import "time"

// File represents the structure of the .newsverdict configuration file.
// Every field is optional; unset fields keep the defaults from NewConfig.
type File struct {
	// Generative configures the summary endpoint.
	Generative GenerativeFile `yaml:"generative,omitempty"`

	// Artifacts locates the model artifacts.
	Artifacts ArtifactsFile `yaml:"artifacts,omitempty"`

	// Server configures the serve command.
	Server ServerFile `yaml:"server,omitempty"`
}

// GenerativeFile holds the generative endpoint settings.
type GenerativeFile struct {
	Endpoint      string        `yaml:"endpoint,omitempty"`
	APIVersion    string        `yaml:"api_version,omitempty"`
	Model         string        `yaml:"model,omitempty"`
	FallbackModel string        `yaml:"fallback_model,omitempty"`
	Timeout       time.Duration `yaml:"timeout,omitempty"`
	Prompt        string        `yaml:"prompt,omitempty"`

	// Grounding is a pointer so that an explicit false can be told apart
	// from an omitted key.
	Grounding *bool `yaml:"grounding,omitempty"`
}

// ArtifactsFile holds the model artifact locations.
type ArtifactsFile struct {
	Dir        string        `yaml:"dir,omitempty"`
	Vectorizer string        `yaml:"vectorizer,omitempty"`
	Classifier string        `yaml:"classifier,omitempty"`
	Bundle     string        `yaml:"bundle,omitempty"`
	Checksums  ChecksumsFile `yaml:"checksums,omitempty"`
}

// ChecksumsFile holds expected BLAKE2b-256 hex digests of the JSON artifacts.
type ChecksumsFile struct {
	Vectorizer string `yaml:"vectorizer,omitempty"`
	Classifier string `yaml:"classifier,omitempty"`
}

// ServerFile holds the HTTP server settings.
type ServerFile struct {
	Listen string `yaml:"listen,omitempty"`
}

// Apply copies every set field of the file onto c.
func (f *File) Apply(c *Config) {
	g := f.Generative
	if g.Endpoint != "" {
		c.Endpoint = g.Endpoint
	}
	if g.APIVersion != "" {
		c.APIVersion = g.APIVersion
	}
	if g.Model != "" {
		c.Model = g.Model
	}
	if g.FallbackModel != "" {
		c.FallbackModel = g.FallbackModel
	}
	if g.Timeout != 0 {
		c.Timeout = g.Timeout
	}
	if g.Prompt != "" {
		c.PromptTemplate = g.Prompt
	}
	if g.Grounding != nil {
		c.Grounding = *g.Grounding
	}

	a := f.Artifacts
	if a.Dir != "" {
		c.ArtifactDir = a.Dir
	}
	if a.Vectorizer != "" {
		c.VectorizerPath = a.Vectorizer
	}
	if a.Classifier != "" {
		c.ClassifierPath = a.Classifier
	}
	if a.Bundle != "" {
		c.BundlePath = a.Bundle
	}
	if a.Checksums.Vectorizer != "" {
		c.VectorizerChecksum = a.Checksums.Vectorizer
	}
	if a.Checksums.Classifier != "" {
		c.ClassifierChecksum = a.Checksums.Classifier
	}

	if f.Server.Listen != "" {
		c.ListenAddress = f.Server.Listen
	}
}
