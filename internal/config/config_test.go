package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "formadoc.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad(t *testing.T) {
	// No t.Parallel: subtests mutate the process environment.

	t.Run("full file config", func(t *testing.T) {
		path := writeConfig(t, `
backend:
  baseUrl: https://backend.example.com
  uploadUrl: https://backend.example.com/api/upload
assets:
  mode: file
  templatePath: /srv/assets/template.pdf
  signaturePath: /srv/assets/signature.png
output:
  dir: /tmp/out
store:
  path: /var/lib/formadoc/formadoc.db
`)
		cfg, err := Load(path)
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if cfg.Backend.BaseURL != "https://backend.example.com" {
			t.Errorf("BaseURL = %q", cfg.Backend.BaseURL)
		}
		if cfg.Assets.TemplatePath != "/srv/assets/template.pdf" {
			t.Errorf("TemplatePath = %q", cfg.Assets.TemplatePath)
		}
		if cfg.Output.Dir != "/tmp/out" {
			t.Errorf("Output.Dir = %q", cfg.Output.Dir)
		}
	})

	t.Run("environment overrides file values", func(t *testing.T) {
		t.Setenv("FORMADOC_BACKEND_URL", "https://override.example.com")

		path := writeConfig(t, `
backend:
  baseUrl: https://backend.example.com
`)
		cfg, err := Load(path)
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if cfg.Backend.BaseURL != "https://override.example.com" {
			t.Errorf("BaseURL = %q, want env override", cfg.Backend.BaseURL)
		}
	})

	t.Run("empty name", func(t *testing.T) {
		if _, err := Load(""); !errors.Is(err, ErrEmptyConfigName) {
			t.Fatalf("Load() error = %v, want %v", err, ErrEmptyConfigName)
		}
	})

	t.Run("missing file path", func(t *testing.T) {
		missing := filepath.Join(t.TempDir(), "absent.yaml")
		if _, err := Load(missing); !errors.Is(err, ErrConfigNotFound) {
			t.Fatalf("Load() error = %v, want %v", err, ErrConfigNotFound)
		}
	})

	t.Run("unknown key rejected", func(t *testing.T) {
		path := writeConfig(t, "backned:\n  baseUrl: https://x\n")
		if _, err := Load(path); !errors.Is(err, ErrConfigParse) {
			t.Fatalf("Load() error = %v, want %v", err, ErrConfigParse)
		}
	})

	t.Run("malformed yaml", func(t *testing.T) {
		path := writeConfig(t, "assets: [oops")
		if _, err := Load(path); !errors.Is(err, ErrConfigParse) {
			t.Fatalf("Load() error = %v, want %v", err, ErrConfigParse)
		}
	})
}

func TestFromEnv(t *testing.T) {
	t.Run("defaults only", func(t *testing.T) {
		cfg, err := FromEnv()
		if err != nil {
			t.Fatalf("FromEnv() error = %v", err)
		}
		if cfg.Assets.Mode != AssetsFile {
			t.Errorf("Mode = %q, want %q", cfg.Assets.Mode, AssetsFile)
		}
		if cfg.Output.Dir != "." {
			t.Errorf("Output.Dir = %q, want .", cfg.Output.Dir)
		}
	})

	t.Run("store path from environment", func(t *testing.T) {
		t.Setenv("FORMADOC_STORE_PATH", "/tmp/store.db")

		cfg, err := FromEnv()
		if err != nil {
			t.Fatalf("FromEnv() error = %v", err)
		}
		if cfg.Store.Path != "/tmp/store.db" {
			t.Errorf("Store.Path = %q", cfg.Store.Path)
		}
	})
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr error
	}{
		{
			name:   "file mode needs nothing up front",
			mutate: func(*Config) {},
		},
		{
			name: "http mode with both urls",
			mutate: func(c *Config) {
				c.Assets.Mode = AssetsHTTP
				c.Assets.TemplateURL = "https://cdn.example.com/template.pdf"
				c.Assets.SignatureURL = "https://cdn.example.com/signature.png"
			},
		},
		{
			name: "http mode missing signature url",
			mutate: func(c *Config) {
				c.Assets.Mode = AssetsHTTP
				c.Assets.TemplateURL = "https://cdn.example.com/template.pdf"
			},
			wantErr: ErrInvalidAssets,
		},
		{
			name: "object mode fully specified",
			mutate: func(c *Config) {
				c.Assets.Mode = AssetsObject
				c.Assets.Object = Object{
					Endpoint:     "storage.example.com:9000",
					Bucket:       "assets",
					TemplateKey:  "template.pdf",
					SignatureKey: "signature.png",
				}
			},
		},
		{
			name: "object mode missing bucket",
			mutate: func(c *Config) {
				c.Assets.Mode = AssetsObject
				c.Assets.Object = Object{
					Endpoint:     "storage.example.com:9000",
					TemplateKey:  "template.pdf",
					SignatureKey: "signature.png",
				}
			},
			wantErr: ErrInvalidAssets,
		},
		{
			name: "object endpoint must not carry a scheme",
			mutate: func(c *Config) {
				c.Assets.Mode = AssetsObject
				c.Assets.Object = Object{
					Endpoint:     "https://storage.example.com",
					Bucket:       "assets",
					TemplateKey:  "template.pdf",
					SignatureKey: "signature.png",
				}
			},
			wantErr: ErrInvalidAssets,
		},
		{
			name:    "unknown mode",
			mutate:  func(c *Config) { c.Assets.Mode = "ftp" },
			wantErr: ErrInvalidAssets,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := DefaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}
