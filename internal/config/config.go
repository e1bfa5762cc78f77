// Package config loads CLI configuration from a YAML file with environment
// variable overrides for endpoints and credentials.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"

	"github.com/yleroy/go-formadoc/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrInvalidAssets   = errors.New("invalid assets configuration")
)

// Asset source modes.
const (
	AssetsFile   = "file"
	AssetsHTTP   = "http"
	AssetsObject = "object"
)

// Config holds all configuration for document generation.
type Config struct {
	Backend Backend `yaml:"backend"`
	Assets  Assets  `yaml:"assets"`
	Output  Output  `yaml:"output"`
	Layout  Layout  `yaml:"layout"`
	Store   Store   `yaml:"store"`
}

// Backend locates the provider backend.
type Backend struct {
	BaseURL   string `yaml:"baseUrl" env:"FORMADOC_BACKEND_URL"`
	UploadURL string `yaml:"uploadUrl" env:"FORMADOC_UPLOAD_URL"`
}

// Assets selects where master assets (template PDF, signature image) come
// from.
type Assets struct {
	Mode          string `yaml:"mode"` // file, http, object
	TemplatePath  string `yaml:"templatePath"`
	SignaturePath string `yaml:"signaturePath"`
	TemplateURL   string `yaml:"templateUrl"`
	SignatureURL  string `yaml:"signatureUrl"`
	Object        Object `yaml:"object"`
}

// Object configures the S3-compatible asset bucket. Credentials normally
// arrive via environment, not the config file.
type Object struct {
	Endpoint     string `yaml:"endpoint" env:"FORMADOC_MINIO_ENDPOINT"`
	AccessKey    string `yaml:"accessKey" env:"FORMADOC_MINIO_ACCESS_KEY"`
	SecretKey    string `yaml:"secretKey" env:"FORMADOC_MINIO_SECRET_KEY"`
	Region       string `yaml:"region" env:"FORMADOC_MINIO_REGION"`
	UseSSL       bool   `yaml:"useSsl" env:"FORMADOC_MINIO_USE_SSL"`
	Bucket       string `yaml:"bucket" env:"FORMADOC_MINIO_BUCKET"`
	TemplateKey  string `yaml:"templateKey"`
	SignatureKey string `yaml:"signatureKey"`
}

// Output selects where generated artifacts are saved locally.
type Output struct {
	Dir string `yaml:"dir"`
}

// Layout optionally overrides the embedded layout schema.
type Layout struct {
	Path string `yaml:"path"`
}

// Store locates the local SQLite database.
type Store struct {
	Path string `yaml:"path" env:"FORMADOC_STORE_PATH"`
}

// DefaultConfig returns a neutral configuration: local file assets, output
// to the working directory, embedded layout, no backend.
func DefaultConfig() *Config {
	return &Config{
		Assets: Assets{Mode: AssetsFile},
		Output: Output{Dir: "."},
	}
}

// Load loads configuration from a file path or config name, then applies
// environment overrides. Returns error if a named file is not found (no
// silent fallback).
func Load(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	configPath := nameOrPath
	if !isFilePath(nameOrPath) {
		resolved, err := resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
		configPath = resolved
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yamlutil.UnmarshalStrict(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}
	if err := applyEnv(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// FromEnv builds a configuration from defaults plus environment only.
func FromEnv() (*Config, error) {
	cfg := DefaultConfig()
	if err := applyEnv(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) error {
	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("applying environment overrides: %w", err)
	}
	return nil
}

// Validate checks the asset source is fully specified for its mode.
func (c *Config) Validate() error {
	switch c.Assets.Mode {
	case AssetsFile:
		// Paths are checked at fetch time so a config can be written
		// before the assets exist.
		return nil
	case AssetsHTTP:
		if c.Assets.TemplateURL == "" || c.Assets.SignatureURL == "" {
			return fmt.Errorf("%w: http mode requires templateUrl and signatureUrl", ErrInvalidAssets)
		}
	case AssetsObject:
		o := c.Assets.Object
		if o.Endpoint == "" || o.Bucket == "" || o.TemplateKey == "" || o.SignatureKey == "" {
			return fmt.Errorf("%w: object mode requires endpoint, bucket, templateKey and signatureKey", ErrInvalidAssets)
		}
		if strings.Contains(o.Endpoint, "://") {
			return fmt.Errorf("%w: endpoint must not include scheme: %q", ErrInvalidAssets, o.Endpoint)
		}
	default:
		return fmt.Errorf("%w: unknown mode %q", ErrInvalidAssets, c.Assets.Mode)
	}
	return nil
}

// isFilePath returns true if the string looks like a file path.
func isFilePath(s string) bool {
	return strings.ContainsAny(s, "/\\")
}

// resolveConfigPath searches for a config file by name in standard locations.
// Tries extensions in order: .yaml, .yml
// Tries locations in order: current directory, ~/.config/formadoc/
func resolveConfigPath(name string) (string, error) {
	extensions := []string{".yaml", ".yml"}
	triedPaths := make([]string, 0, len(extensions)*2)

	for _, ext := range extensions {
		localPath := name + ext
		if fileExists(localPath) {
			return localPath, nil
		}
		triedPaths = append(triedPaths, localPath)
	}

	userConfigDir, err := os.UserConfigDir()
	if err == nil {
		for _, ext := range extensions {
			userPath := filepath.Join(userConfigDir, "formadoc", name+ext)
			if fileExists(userPath) {
				return userPath, nil
			}
			triedPaths = append(triedPaths, userPath)
		}
	}

	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(triedPaths, ", "))
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
