package markdown

import (
	"context"
	"crypto/sha256"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/goliatone/go-entitychips/pkg/interfaces"
)

// DefaultPattern matches the Markdown files the loader picks up by default.
const DefaultPattern = "*.md,*.markdown"

// LoaderConfig configures how Markdown files are discovered within a base directory.
type LoaderConfig struct {
	// BasePath is the root directory where Markdown documents live.
	BasePath string
	// Pattern is a comma separated list of globs. Globs without a slash match
	// the file name, the rest match the path relative to BasePath.
	Pattern string
	// Recursive controls whether sub-directories are traversed.
	Recursive bool
}

// Loader turns filesystem paths into Markdown documents with metadata.
type Loader struct {
	fs        fs.FS
	basePath  string
	patterns  []string
	recursive bool
}

// NewLoader constructs a Loader using the provided filesystem and configuration.
func NewLoader(filesystem fs.FS, cfg LoaderConfig) *Loader {
	patterns := splitPatterns(cfg.Pattern)
	if len(patterns) == 0 {
		patterns = splitPatterns(DefaultPattern)
	}
	return &Loader{
		fs:        filesystem,
		basePath:  filepath.Clean(cfg.BasePath),
		patterns:  patterns,
		recursive: cfg.Recursive,
	}
}

// LoadFile reads and parses a single Markdown document.
func (l *Loader) LoadFile(ctx context.Context, path string, _ LoadParams) (*DocumentResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rel, err := l.makeRelative(path)
	if err != nil {
		return nil, err
	}
	rel = filepath.ToSlash(rel)

	data, err := fs.ReadFile(l.fs, rel)
	if err != nil {
		return nil, fmt.Errorf("markdown loader read %s: %w", rel, err)
	}
	info, err := fs.Stat(l.fs, rel)
	if err != nil {
		return nil, fmt.Errorf("markdown loader stat %s: %w", rel, err)
	}

	doc, err := BuildDocument(rel, data, info.ModTime())
	if err != nil {
		return nil, fmt.Errorf("markdown loader %s: %w", rel, err)
	}
	sum := sha256.Sum256(data)
	doc.Checksum = sum[:]

	return &DocumentResult{Document: doc, Source: data}, nil
}

// LoadDirectory discovers Markdown files under dir and returns parsed
// documents sorted by path. Directories starting with "." or "_" are skipped.
func (l *Loader) LoadDirectory(ctx context.Context, dir string, opts LoadParams) ([]*DocumentResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	root, err := l.makeRelative(dir)
	if err != nil {
		return nil, err
	}
	root = filepath.ToSlash(filepath.Clean(root))

	recursive := l.recursive
	if opts.Recursive != nil {
		recursive = *opts.Recursive
	}
	patterns := l.patterns
	if override := splitPatterns(opts.Pattern); len(override) > 0 {
		patterns = override
	}

	var results []*DocumentResult
	walkErr := fs.WalkDir(l.fs, root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() {
			if path == root {
				return nil
			}
			if !recursive || hiddenDir(d.Name()) {
				return fs.SkipDir
			}
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if !matchesAny(patterns, path) {
			return nil
		}
		result, err := l.LoadFile(ctx, path, opts)
		if err != nil {
			return err
		}
		results = append(results, result)
		return nil
	})
	if walkErr != nil {
		return nil, walkErr
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].Document.FilePath < results[j].Document.FilePath
	})
	return results, nil
}

func hiddenDir(name string) bool {
	return strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_")
}

func splitPatterns(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		// fs.WalkDir yields slash separated paths, ** is treated as any depth.
		part = strings.ReplaceAll(filepath.ToSlash(part), "**/", "")
		out = append(out, part)
	}
	return out
}

func matchesAny(patterns []string, path string) bool {
	for _, pattern := range patterns {
		target := path
		if !strings.Contains(pattern, "/") {
			target = filepath.Base(path)
		}
		if ok, err := filepath.Match(pattern, target); err == nil && ok {
			return true
		}
	}
	return false
}

func (l *Loader) makeRelative(path string) (string, error) {
	clean := filepath.Clean(path)
	if !filepath.IsAbs(clean) {
		return clean, nil
	}
	if l.basePath == "" || l.basePath == "." {
		return "", fmt.Errorf("markdown loader: absolute path %s provided without base path", path)
	}
	rel, err := filepath.Rel(l.basePath, clean)
	if err != nil {
		return "", fmt.Errorf("markdown loader: make relative %s: %w", path, err)
	}
	return rel, nil
}

// DocumentResult carries the parsed document along with the raw source.
type DocumentResult struct {
	Document *interfaces.Document
	Source   []byte
}

// LoadParams provide call-specific overrides for pattern matching and recursion.
type LoadParams struct {
	Pattern   string
	Recursive *bool
}
