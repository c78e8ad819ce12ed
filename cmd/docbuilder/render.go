package main

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/ortam/docbuilder"
	"github.com/ortam/docbuilder/internal/fileutil"
	"github.com/ortam/docbuilder/internal/hints"
)

// runRender turns a document file into a PDF, or into the print-ready
// HTML with --html-only.
func runRender(ctx context.Context, args []string, env *Environment) error {
	flags, positional, err := parseRenderFlags(args, env.Stderr)
	if err != nil {
		return err
	}
	if len(positional) != 1 {
		return fmt.Errorf("%w: render needs exactly one document file", ErrUsage)
	}
	input := positional[0]

	cfg, err := loadConfig(&flags.common, env)
	if err != nil {
		return err
	}
	if err := applyRenderFlags(&flags.render, cfg); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	var doc docbuilder.RenderableDocument
	if err := readYAMLInput(input, &doc); err != nil {
		return err
	}

	loader, err := newAssetLoader(cfg)
	if err != nil {
		return err
	}
	renderer, err := newRenderer(cfg, loader)
	if err != nil {
		return err
	}

	output := flags.output
	if output == "" {
		output = defaultOutputPath(input, flags.htmlOnly)
	}

	start := env.Now()
	var data []byte
	if flags.htmlOnly {
		html, err := renderer.BuildHTML(doc)
		if err != nil {
			return withRenderHints(err, cfg)
		}
		data = []byte(html)
	} else {
		if data, err = renderer.Render(ctx, doc); err != nil {
			return withRenderHints(err, cfg)
		}
	}

	if err := fileutil.WriteOutput(output, data); err != nil {
		return fmt.Errorf("%w: %w%s", ErrWriteOutput, err, hints.ForOutputDirectory())
	}

	switch {
	case flags.common.quiet:
	case flags.common.verbose:
		fmt.Fprintf(env.Stderr, "Created %s (%d bytes, %v)\n", output, len(data), env.Now().Sub(start).Round(time.Millisecond))
	default:
		fmt.Fprintf(env.Stderr, "Created %s\n", output)
	}
	return nil
}

// defaultOutputPath swaps the input extension for .pdf (or .html).
func defaultOutputPath(input string, htmlOnly bool) string {
	ext := ".pdf"
	if htmlOnly {
		ext = ".html"
	}
	return strings.TrimSuffix(input, filepath.Ext(input)) + ext
}
