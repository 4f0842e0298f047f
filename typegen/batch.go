package typegen

import (
	"context"
	"go/types"
	"time"

	"github.com/teranos/schemagen/errors"
	"github.com/teranos/schemagen/logger"
	"github.com/teranos/schemagen/typeinfo/pkginfo"
)

type options struct {
	ctx context.Context
	dir string
}

// Option configures GenerateFromPackages.
type Option func(*options)

// WithContext bounds package loading by ctx.
func WithContext(ctx context.Context) Option {
	return func(o *options) { o.ctx = ctx }
}

// WithDir resolves package patterns relative to dir.
func WithDir(dir string) Option {
	return func(o *options) { o.dir = dir }
}

// GenerateFromPackages loads the packages matching patterns and analyzes every
// exported named type. A load failure is fatal; a type of an unsupported kind
// is recorded in Result.Skipped and the batch continues.
func GenerateFromPackages(patterns []string, opts ...Option) ([]*Result, error) {
	o := options{ctx: context.Background()}
	for _, opt := range opts {
		opt(&o)
	}

	start := time.Now()
	provider, err := pkginfo.Load(o.ctx, o.dir, patterns...)
	if err != nil {
		return nil, err
	}

	results, err := FromProvider(provider)
	if err != nil {
		return nil, err
	}

	logger.Debugw("analyzed packages",
		logger.FieldCount, len(results),
		logger.FieldDurationMS, time.Since(start).Milliseconds())
	return results, nil
}

// FromProvider analyzes the packages already loaded by provider.
func FromProvider(provider *pkginfo.Provider) ([]*Result, error) {
	analyzer := NewAnalyzer[types.Type](provider)

	pkgs := provider.Packages()
	results := make([]*Result, 0, len(pkgs))
	for _, pkg := range pkgs {
		result, err := analyzePackage(analyzer, pkg)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to analyze %s", pkg.Path)
		}
		results = append(results, result)
	}
	return results, nil
}

func analyzePackage(analyzer *Analyzer[types.Type], pkg pkginfo.Package) (*Result, error) {
	result := &Result{
		PackageName: pkg.Name,
		PackagePath: pkg.Path,
	}

	for _, t := range pkg.Types {
		def, err := analyzer.Analyze(t)
		if errors.IsUnsupportedTypeKind(err) {
			name, _ := analyzer.provider.NameOf(t)
			result.Skipped = append(result.Skipped, Skipped{Name: name, Reason: err.Error()})
			logger.Debugw("skipped type",
				logger.FieldPackage, pkg.Path,
				logger.FieldType, name,
				logger.FieldReason, err.Error())
			continue
		}
		if err != nil {
			return nil, err
		}
		result.Definitions = append(result.Definitions, def)
	}

	logger.Debugw("analyzed package",
		logger.FieldPackage, pkg.Path,
		logger.FieldCount, len(result.Definitions),
		logger.FieldSkipped, len(result.Skipped))
	return result, nil
}
