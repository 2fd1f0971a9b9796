package core

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"go.uber.org/zap"
)

// skipDirs are never descended into: build output, dependency caches and
// version control.
var skipDirs = []string{
	".git", ".hg", ".svn",
	"node_modules", "bower_components", "vendor",
	"dist", "build", "out", "coverage", ".next", ".nuxt", ".cache",
}

// Scanner enumerates candidate component source files under a root. Output
// ordering carries no meaning; no rule may depend on cross-file order.
type Scanner struct {
	cfg Config
	log *zap.SugaredLogger
}

// NewScanner creates a scanner for the given config.
func NewScanner(cfg Config, log *zap.SugaredLogger) *Scanner {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Scanner{cfg: cfg, log: log}
}

// Scan recursively collects candidate files. An inaccessible root is an
// EnvironmentError and aborts the run; unreadable subtrees and symlink
// loops are logged and skipped while the scan continues.
func (s *Scanner) Scan(ctx context.Context) ([]string, error) {
	info, err := os.Stat(s.cfg.Root)
	if err != nil {
		return nil, &EnvironmentError{Root: s.cfg.Root, Err: err}
	}
	if !info.IsDir() {
		return nil, &EnvironmentError{Root: s.cfg.Root, Err: os.ErrInvalid}
	}

	visited := make(map[string]struct{})
	if resolved, err := filepath.EvalSymlinks(s.cfg.Root); err == nil {
		visited[resolved] = struct{}{}
	}

	var files []string
	s.scanDir(ctx, s.cfg.Root, visited, &files)
	return files, ctx.Err()
}

func (s *Scanner) scanDir(ctx context.Context, dir string, visited map[string]struct{}, files *[]string) {
	select {
	case <-ctx.Done():
		return
	default:
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		s.log.Warnw("skipping unreadable directory", "dir", dir, "error", err)
		return
	}

	for _, entry := range entries {
		path := filepath.Join(dir, entry.Name())

		if entry.IsDir() || entry.Type()&os.ModeSymlink != 0 {
			target := path
			if entry.Type()&os.ModeSymlink != 0 {
				resolved, err := filepath.EvalSymlinks(path)
				if err != nil {
					s.log.Warnw("skipping broken symlink", "path", path, "error", err)
					continue
				}
				target = resolved
				info, err := os.Stat(resolved)
				if err != nil || !info.IsDir() {
					if err == nil && s.candidate(path) {
						*files = append(*files, path)
					}
					continue
				}
			}
			if s.skipDir(entry.Name()) || s.excluded(path) {
				continue
			}
			if resolved, err := filepath.EvalSymlinks(target); err == nil {
				if _, seen := visited[resolved]; seen {
					s.log.Debugw("skipping already-visited directory", "dir", path)
					continue
				}
				visited[resolved] = struct{}{}
			}
			s.scanDir(ctx, path, visited, files)
			continue
		}

		if entry.Type().IsRegular() && s.candidate(path) {
			*files = append(*files, path)
		}
	}
}

func (s *Scanner) skipDir(name string) bool {
	if slices.Contains(skipDirs, name) {
		return true
	}
	return strings.HasPrefix(name, ".") && name != "."
}

func (s *Scanner) candidate(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	if !slices.Contains(s.cfg.Extensions, ext) {
		return false
	}
	if s.excluded(path) {
		return false
	}
	if len(s.cfg.Include) > 0 {
		for _, pattern := range s.cfg.Include {
			if s.match(path, pattern) {
				return true
			}
		}
		return false
	}
	return true
}

func (s *Scanner) excluded(path string) bool {
	for _, pattern := range s.cfg.Exclude {
		if s.match(path, pattern) {
			return true
		}
	}
	return false
}

// match applies a doublestar pattern against the root-relative path, falling
// back to the basename for patterns without a separator.
func (s *Scanner) match(path, pattern string) bool {
	rel, err := filepath.Rel(s.cfg.Root, path)
	if err != nil {
		rel = path
	}
	rel = filepath.ToSlash(rel)
	if matched, err := doublestar.PathMatch(pattern, rel); err == nil && matched {
		return true
	}
	if !strings.Contains(pattern, "/") {
		if matched, err := doublestar.PathMatch(pattern, filepath.Base(path)); err == nil && matched {
			return true
		}
	}
	return false
}
