package main

import (
	"fmt"

	formadoc "github.com/yleroy/go-formadoc"
	"github.com/yleroy/go-formadoc/internal/config"
)

// loadConfig resolves the --config flag: a path/name loads that file, an
// empty flag falls back to environment-only configuration.
func loadConfig(nameOrPath string) (*config.Config, error) {
	if nameOrPath == "" {
		return config.FromEnv()
	}
	return config.Load(nameOrPath)
}

// buildAssetSource selects the asset source for the configured mode.
func buildAssetSource(cfg *config.Config) (formadoc.AssetSource, error) {
	switch cfg.Assets.Mode {
	case config.AssetsFile:
		return formadoc.NewFileSource(cfg.Assets.TemplatePath, cfg.Assets.SignaturePath), nil
	case config.AssetsHTTP:
		return formadoc.NewHTTPSource(cfg.Assets.TemplateURL, cfg.Assets.SignatureURL), nil
	case config.AssetsObject:
		o := cfg.Assets.Object
		return formadoc.NewObjectSource(formadoc.ObjectStoreConfig{
			Endpoint:     o.Endpoint,
			AccessKey:    o.AccessKey,
			SecretKey:    o.SecretKey,
			Region:       o.Region,
			UseSSL:       o.UseSSL,
			Bucket:       o.Bucket,
			TemplateKey:  o.TemplateKey,
			SignatureKey: o.SignatureKey,
		})
	}
	return nil, fmt.Errorf("%w: unknown assets mode %q", config.ErrInvalidAssets, cfg.Assets.Mode)
}

// buildLayout loads the configured layout schema, or the embedded default.
func buildLayout(cfg *config.Config) (*formadoc.Layout, error) {
	if cfg.Layout.Path == "" {
		return formadoc.DefaultLayout(), nil
	}
	return formadoc.LoadLayout(cfg.Layout.Path)
}
