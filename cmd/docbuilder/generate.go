package main

import (
	"context"
	"fmt"

	"github.com/ortam/docbuilder"
	"github.com/ortam/docbuilder/internal/fileutil"
	"github.com/ortam/docbuilder/internal/hints"
)

// runGenerate writes the HTML body (or the LLM prompt) for a metadata file.
func runGenerate(ctx context.Context, args []string, env *Environment) error {
	flags, positional, err := parseGenerateFlags(args, env.Stderr)
	if err != nil {
		return err
	}
	if len(positional) != 1 {
		return fmt.Errorf("%w: generate needs exactly one metadata file", ErrUsage)
	}

	cfg, err := loadConfig(&flags.common, env)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	var meta docbuilder.Metadata
	if err := readYAMLInput(positional[0], &meta); err != nil {
		return err
	}

	var out string
	if flags.prompt {
		out = docbuilder.BuildPrompt(meta)
	} else {
		loader, err := newAssetLoader(cfg)
		if err != nil {
			return err
		}
		gen, err := newGenerator(cfg, loader)
		if err != nil {
			return err
		}
		if out, err = gen.Generate(ctx, meta); err != nil {
			return err
		}
	}

	if flags.output == "" {
		_, err := fmt.Fprintln(env.Stdout, out)
		return err
	}
	if err := fileutil.WriteOutput(flags.output, []byte(out)); err != nil {
		return fmt.Errorf("%w: %w%s", ErrWriteOutput, err, hints.ForOutputDirectory())
	}
	if !flags.common.quiet {
		fmt.Fprintf(env.Stderr, "Created %s\n", flags.output)
	}
	return nil
}
