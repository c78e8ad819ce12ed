package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ortam/docbuilder"
	"github.com/ortam/docbuilder/internal/assets"
	"github.com/ortam/docbuilder/internal/config"
	"github.com/ortam/docbuilder/internal/hints"
	"github.com/ortam/docbuilder/internal/logging"
)

// loadConfig builds the effective configuration: defaults, then the config
// file (--config or DOCBUILDER_CONFIG), then DOCBUILDER_* variables.
// Command flags are applied by the caller, which must call Validate again.
func loadConfig(common *commonFlags, env *Environment) (*config.Config, error) {
	warnUnknownEnvVars(env.Stderr)
	envCfg := loadEnvConfig()

	path := common.config
	if path == "" {
		path = envCfg.ConfigPath
	}

	cfg := config.DefaultConfig()
	if path != "" {
		loaded, err := config.LoadConfig(path)
		if err != nil {
			if errors.Is(err, config.ErrConfigNotFound) {
				return nil, fmt.Errorf("%w%s", err, hints.ForConfigNotFound(userConfigPaths(path)))
			}
			return nil, err
		}
		cfg = loaded
	}

	applyEnvConfig(envCfg, cfg)
	if common.verbose {
		cfg.Log.Level = "debug"
	}
	return cfg, nil
}

// userConfigPaths lists where a bare config name is looked up for the user.
func userConfigPaths(name string) []string {
	dir, err := os.UserConfigDir()
	if err != nil || strings.ContainsAny(name, "/\\") {
		return nil
	}
	return []string{filepath.Join(dir, "docbuilder", name+".yaml")}
}

// applyRenderFlags overlays browser flags onto cfg.
func applyRenderFlags(f *renderSettings, cfg *config.Config) error {
	if f.timeout != "" {
		d, err := time.ParseDuration(f.timeout)
		if err != nil || d <= 0 {
			return fmt.Errorf("%w: invalid --timeout %q", ErrUsage, f.timeout)
		}
		cfg.Render.Timeout = config.Duration(d)
	}
	if f.workers > 0 {
		cfg.Render.Workers = f.workers
	}
	if f.browserBin != "" {
		cfg.Render.BrowserBin = f.browserBin
	}
	if f.sandboxSet {
		cfg.Render.NoSandbox = !f.sandbox
	}
	return nil
}

func newLogger(cfg *config.Config) (logging.Logger, error) {
	logger, err := logging.New(logging.Config{
		Level:       cfg.Log.Level,
		Development: cfg.Log.Development,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUsage, err)
	}
	return logger, nil
}

func brandFrom(cfg *config.Config) docbuilder.Brand {
	brand := docbuilder.DefaultBrand()
	if cfg.Brand.Name != "" {
		brand.Name = cfg.Brand.Name
	}
	if cfg.Brand.Contact != "" {
		brand.Contact = cfg.Brand.Contact
	}
	return brand
}

// newAssetLoader returns nil when only embedded assets are used.
func newAssetLoader(cfg *config.Config) (docbuilder.AssetLoader, error) {
	if cfg.Assets.BasePath == "" {
		return nil, nil
	}
	return docbuilder.NewAssetLoader(cfg.Assets.BasePath)
}

func newGenerator(cfg *config.Config, loader docbuilder.AssetLoader) (*docbuilder.Generator, error) {
	opts := []docbuilder.GeneratorOption{docbuilder.WithBrand(brandFrom(cfg))}
	if loader != nil {
		opts = append(opts, docbuilder.WithGeneratorAssets(loader))
	}
	return docbuilder.NewGenerator(opts...)
}

func newRenderer(cfg *config.Config, loader docbuilder.AssetLoader) (*docbuilder.Renderer, error) {
	opts := []docbuilder.RendererOption{
		docbuilder.WithTimeout(cfg.Render.Timeout.Std()),
		docbuilder.WithNoSandbox(cfg.Render.NoSandbox),
		docbuilder.WithBrowserBin(cfg.Render.BrowserBin),
		docbuilder.WithRendererBrand(brandFrom(cfg)),
		docbuilder.WithPool(docbuilder.NewRenderPool(docbuilder.ResolvePoolSize(cfg.Render.Workers))),
	}
	if loader != nil {
		opts = append(opts, docbuilder.WithRendererAssets(loader))
	}
	return docbuilder.NewRenderer(opts...)
}

// withRenderHints appends actionable hints to a render error.
func withRenderHints(err error, cfg *config.Config) error {
	switch {
	case errors.Is(err, docbuilder.ErrBrowserLaunch), errors.Is(err, docbuilder.ErrBrowserConnect):
		return fmt.Errorf("%w%s", err, hints.ForBrowserLaunch(hints.BrowserSetup{
			NoSandbox:  cfg.Render.NoSandbox,
			BrowserBin: cfg.Render.BrowserBin,
		}))
	case errors.Is(err, docbuilder.ErrPageLoad):
		return fmt.Errorf("%w%s", err, hints.ForTimeout())
	case errors.Is(err, docbuilder.ErrStyleNotFound):
		return fmt.Errorf("%w%s", err, hints.ForStyleNotFound([]string{assets.DefaultStyleName}))
	}
	return err
}
