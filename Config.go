package main

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Token            string   `yaml:"token"`
	Private          bool     `yaml:"private"`
	Branch           string   `yaml:"branch"`
	CommitMessage    string   `yaml:"commit_message"`
	MaxFileSizeBytes int64    `yaml:"max_file_size_bytes"`
	S3               S3Config `yaml:"s3"`
}

// S3Config holds settings for the S3 publish provider
type S3Config struct {
	BucketPrefix string `yaml:"bucket_prefix"`
	Region       string `yaml:"region"`
}

// LoadConfig loads configuration from a YAML file. An empty path yields the
// defaults.
func LoadConfig(path string) (*Config, error) {
	var config Config
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	config.ApplyDefaults()

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// ApplyDefaults sets default values for unspecified configuration options
func (c *Config) ApplyDefaults() {
	if c.Branch == "" {
		c.Branch = "main"
	}
	if c.CommitMessage == "" {
		c.CommitMessage = "Publish {path}"
	}
	if c.MaxFileSizeBytes == 0 {
		// GitHub rejects content-PUT bodies for files over 100 MB
		c.MaxFileSizeBytes = 100 * 1024 * 1024
	}
	if c.S3.BucketPrefix == "" {
		c.S3.BucketPrefix = "shipit"
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.MaxFileSizeBytes < 0 {
		return fmt.Errorf("invalid max_file_size_bytes: %d (must not be negative)", c.MaxFileSizeBytes)
	}
	if strings.ContainsAny(c.Branch, " \t") {
		return fmt.Errorf("invalid branch: %q", c.Branch)
	}
	return nil
}

// ResolveToken returns the GitHub token, preferring the GITHUB_TOKEN
// environment variable over the config file.
func (c *Config) ResolveToken() string {
	if token := os.Getenv("GITHUB_TOKEN"); token != "" {
		return token
	}
	return c.Token
}

// FormatCommitMessage expands the {path} placeholder in the configured
// commit message template.
func (c *Config) FormatCommitMessage(repoPath string) string {
	return strings.ReplaceAll(c.CommitMessage, "{path}", repoPath)
}
