package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/schemagen/errors"
	"github.com/teranos/schemagen/logger"
	"github.com/teranos/schemagen/typegen"
	"github.com/teranos/schemagen/typegen/watch"
	"github.com/teranos/schemagen/typeinfo/pkginfo"
)

// RunGenerate generates schemas for the configured packages, then keeps
// regenerating in watch mode
func RunGenerate(cmd *cobra.Command, args []string) error {
	s := settings
	out := cmd.OutOrStdout()

	dirs, err := Generate(cmd.Context(), s, s.Output, out)
	if err != nil {
		return err
	}
	if !s.Watch {
		return nil
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	w, err := watch.New(dirs, watch.WithDebounce(s.Debounce))
	if err != nil {
		return err
	}
	w.OnChange(func(ctx context.Context, changed []string) error {
		logger.Infow("regenerating", logger.FieldCount, len(changed))
		dirs, err := Generate(ctx, s, s.Output, out)
		if err != nil {
			return err
		}
		// Packages added since the last load are watched from now on
		return w.Add(dirs)
	})
	return w.Run(ctx)
}

// Generate loads, analyzes and writes every package matched by s.Packages. With
// an empty outDir the files go to out. It returns the package directories.
func Generate(ctx context.Context, s Settings, outDir string, out io.Writer) ([]string, error) {
	gen, err := GeneratorFor(s.Format)
	if err != nil {
		return nil, err
	}

	provider, err := pkginfo.Load(ctx, "", s.Packages...)
	if err != nil {
		return nil, err
	}

	results, err := typegen.FromProvider(provider)
	if err != nil {
		return nil, err
	}

	if err := WriteResults(results, gen, outDir, out); err != nil {
		return nil, err
	}
	return provider.Dirs(), nil
}

// WriteResults writes one file per package to outDir, named after the package.
// With an empty outDir the files are concatenated to out.
func WriteResults(results []*typegen.Result, gen typegen.Generator, outDir string, out io.Writer) error {
	seen := make(map[string]string)

	for i, res := range results {
		content, err := gen.GenerateFile(res)
		if err != nil {
			return errors.Wrapf(err, "failed to generate %s", res.PackagePath)
		}

		if outDir == "" {
			if i > 0 {
				fmt.Fprintln(out)
			}
			fmt.Fprint(out, content)
			continue
		}

		filename := res.PackageName + "." + gen.FileExtension()
		if other, ok := seen[filename]; ok {
			return errors.WithHint(
				errors.Newf("packages %s and %s both map to %s", other, res.PackagePath, filename),
				"generate them into separate output directories")
		}
		seen[filename] = res.PackagePath

		if err := os.MkdirAll(outDir, 0755); err != nil {
			return errors.Wrap(err, "failed to create output directory")
		}
		outputPath := filepath.Join(outDir, filename)
		if err := os.WriteFile(outputPath, []byte(content), 0644); err != nil {
			return errors.Wrapf(err, "failed to write %s", outputPath)
		}

		pterm.Success.WithWriter(out).Printfln("Generated %s (%d types, %d skipped)",
			outputPath, len(res.Definitions), len(res.Skipped))
		logger.Debugw("wrote schema",
			logger.FieldFile, outputPath,
			logger.FieldFormat, gen.Language())
	}
	return nil
}
