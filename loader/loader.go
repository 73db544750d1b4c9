package loader

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"runtime"
	"slices"

	"github.com/panyam/hclexpr/decl"
	"github.com/panyam/hclexpr/parser"
	"golang.org/x/sync/errgroup"
)

// LoadedFile is the outcome of loading one path.  File is nil when the
// source could not be read or lexed; otherwise it holds every attribute
// that parsed, even if Errors is not empty.
type LoadedFile struct {
	ErrorCollector
	Path   string
	Source []byte
	File   *decl.FileDecl
}

// LoadResult holds the outcome of a loading operation.
type LoadResult struct {
	// Files in the order they were first requested
	Files  []*LoadedFile
	byPath map[string]*LoadedFile
}

// Get returns the result for path, or nil if it was not requested.
func (r *LoadResult) Get(path string) *LoadedFile {
	return r.byPath[path]
}

func (r *LoadResult) HasErrors() bool {
	return slices.ContainsFunc(r.Files, func(f *LoadedFile) bool { return f.HasErrors() })
}

// ErrorCount is the number of diagnostics across all files, including the
// ones dropped by the per file limit.
func (r *LoadResult) ErrorCount() (n int) {
	for _, f := range r.Files {
		n += len(f.Errors) + f.Dropped
	}
	return
}

// LoaderOpt configures a Loader
type LoaderOpt func(*Loader)

// WithConcurrency bounds the number of files parsed at once.
func WithConcurrency(n int) LoaderOpt {
	return func(l *Loader) {
		if n > 0 {
			l.concurrency = n
		}
	}
}

// WithMaxErrors limits the diagnostics kept per file.
func WithMaxErrors(n int) LoaderOpt {
	return func(l *Loader) {
		l.maxErrors = n
	}
}

// WithParserOpts forwards options to every parse call.
func WithParserOpts(opts ...parser.ParserOpt) LoaderOpt {
	return func(l *Loader) {
		l.parserOpts = append(l.parserOpts, opts...)
	}
}

func WithLogger(logger *slog.Logger) LoaderOpt {
	return func(l *Loader) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// Loader reads files through a FileSystem and parses them concurrently.
// Parse calls share nothing, so each file is handled by its own goroutine.
type Loader struct {
	fs          FileSystem
	concurrency int
	maxErrors   int
	parserOpts  []parser.ParserOpt
	logger      *slog.Logger
}

// New creates a loader reading from fs.
func New(fs FileSystem, opts ...LoaderOpt) *Loader {
	l := &Loader{
		fs:          fs,
		concurrency: runtime.GOMAXPROCS(0),
		logger:      slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// LoadFiles reads and parses each path.  Duplicate paths are loaded once.
// Problems with individual files are reported in the result; the returned
// error is only set when ctx is cancelled before every file was loaded.
func (l *Loader) LoadFiles(ctx context.Context, paths ...string) (*LoadResult, error) {
	result := &LoadResult{byPath: make(map[string]*LoadedFile)}
	for _, path := range paths {
		if _, seen := result.byPath[path]; seen {
			continue
		}
		lf := &LoadedFile{Path: path, ErrorCollector: ErrorCollector{MaxErrors: l.maxErrors}}
		result.byPath[path] = lf
		result.Files = append(result.Files, lf)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(l.concurrency)
	for _, lf := range result.Files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			l.loadFile(lf)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return result, fmt.Errorf("loading cancelled: %w", err)
	}
	l.logger.Debug("files loaded", "count", len(result.Files), "errors", result.ErrorCount())
	return result, nil
}

// LoadPaths loads every path, replacing each directory by the files directly
// inside it whose extension is ext.  Other paths are loaded whatever their
// extension; missing ones are reported in the result like any unreadable file.
func (l *Loader) LoadPaths(ctx context.Context, ext string, paths ...string) (*LoadResult, error) {
	var files []string
	for _, path := range paths {
		if !l.fs.IsDir(path) {
			files = append(files, path)
			continue
		}
		entries, err := l.fs.ListFiles(path)
		if err != nil {
			return nil, fmt.Errorf("listing '%s': %w", path, err)
		}
		entries = slices.DeleteFunc(entries, func(f string) bool { return filepath.Ext(f) != ext })
		files = append(files, entries...)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no %s files found", ext)
	}
	return l.LoadFiles(ctx, files...)
}

func (l *Loader) loadFile(lf *LoadedFile) {
	src, err := l.fs.ReadFile(lf.Path)
	if err != nil {
		lf.AddErrors(fmt.Errorf("reading '%s': %w", lf.Path, err))
		return
	}
	lf.Source = src

	opts := append([]parser.ParserOpt{parser.WithLogger(l.logger)}, l.parserOpts...)
	lf.File, err = parser.ParseFile(lf.Path, src, opts...)
	if err != nil {
		lf.AddErrors(err)
	}
	if lf.File != nil {
		lf.AddErrors(lf.File.Resolve()...)
	}
	l.logger.Debug("parsed file", "path", lf.Path, "bytes", len(src), "errors", len(lf.Errors))
}
