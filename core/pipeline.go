package core

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/pmezard/go-difflib/difflib"
	"go.uber.org/zap"

	"github.com/termfx/jsxfix/syntax"
)

// Rule is a named, independent check. Detectors are pure over the file
// context and must not mutate the tree.
type Rule interface {
	ID() string
	Category() Category
	Severity() Severity
	Detect(f *syntax.File) []Finding
}

// Fixer is a rule with an associated mutation. Fix consumes one finding,
// records edits on the file and returns the resulting change, or an error
// when the fix cannot be applied safely.
type Fixer interface {
	Rule
	Fix(f *syntax.File, fd Finding) (*Change, error)
}

// RuleSet is the registered rule collection; registered once at process
// start, stateless across files.
type RuleSet interface {
	Rules() []Rule
}

// Pipeline runs scan → parse → resolve → detect → fix → regenerate → report.
// Each file's tree, scope table, findings and changes are private to that
// file's pipeline instance; the report is appended to only after a file
// completes, which keeps per-file workers independent.
type Pipeline struct {
	cfg    Config
	rules  RuleSet
	writer *Writer
	log    *zap.SugaredLogger
}

// NewPipeline creates a pipeline. A nil logger disables logging.
func NewPipeline(cfg Config, rules RuleSet, log *zap.SugaredLogger) *Pipeline {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Pipeline{
		cfg:    cfg.normalized(),
		rules:  rules,
		writer: NewWriter(),
		log:    log,
	}
}

// Run processes every candidate file under the configured root and returns
// the aggregated report. Only an EnvironmentError aborts the run; all
// per-file failures are recorded and processing continues. Cancelling ctx
// stops scheduling further files without rolling back files already
// written.
func (p *Pipeline) Run(ctx context.Context) (*Report, error) {
	files, err := NewScanner(p.cfg, p.log).Scan(ctx)
	if err != nil {
		var envErr *EnvironmentError
		if errors.As(err, &envErr) {
			return nil, err
		}
		if errors.Is(err, context.Canceled) && len(files) == 0 {
			return NewReport(p.cfg.Root), nil
		}
	}

	results := make(chan FileResult, len(files))
	sem := make(chan struct{}, p.cfg.Workers)
	var wg sync.WaitGroup

	for _, path := range files {
		select {
		case <-ctx.Done():
			// Stop scheduling; in-flight files run to completion.
			goto collect
		default:
		}
		wg.Add(1)
		go func(path string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			results <- p.processFile(ctx, path)
		}(path)
	}

collect:
	go func() {
		wg.Wait()
		close(results)
	}()

	report := NewReport(p.cfg.Root)
	for res := range results {
		report.Add(res)
	}
	return report, nil
}

// processFile runs one file through the full per-file state machine.
func (p *Pipeline) processFile(ctx context.Context, path string) FileResult {
	res := FileResult{Path: path}

	src, err := os.ReadFile(path)
	if err != nil {
		p.log.Warnw("unreadable file", "file", path, "error", err)
		res.ParseFailed = true
		res.Err = err.Error()
		return res
	}

	file, err := syntax.Parse(ctx, path, src)
	if err != nil {
		var parseErr *syntax.ParseError
		if errors.As(err, &parseErr) {
			p.log.Debugw("parse failed", "file", path, "error", parseErr.Message)
		}
		res.ParseFailed = true
		res.Err = err.Error()
		return res
	}
	defer file.Close()

	res.Findings = p.detect(file)

	if p.cfg.Fix {
		res.Changes = p.fix(file, res.Findings)
	}

	if file.Edits.Len() == 0 {
		return res
	}

	out := file.Edits.Apply(src)
	res.Diff = unifiedDiff(path, src, out)
	if err := p.writer.WriteFile(path, out); err != nil {
		wErr := &WriteError{File: path, Err: err}
		p.log.Errorw("write failed", "file", path, "error", err)
		res.Err = wErr.Error()
		return res
	}
	res.Written = true
	return res
}

// detect runs every rule over the file. A rule that panics contributes no
// findings for this file; other rules are unaffected.
func (p *Pipeline) detect(f *syntax.File) []Finding {
	var findings []Finding
	for _, rule := range p.rules.Rules() {
		ruleFindings, err := p.safeDetect(rule, f)
		if err != nil {
			p.log.Warnw("detector failed", "rule", rule.ID(), "file", f.Path, "error", err)
			continue
		}
		for i := range ruleFindings {
			ruleFindings[i].File = f.Path
		}
		findings = append(findings, ruleFindings...)
	}
	return findings
}

func (p *Pipeline) safeDetect(rule Rule, f *syntax.File) (findings []Finding, err error) {
	defer func() {
		if r := recover(); r != nil {
			findings = nil
			err = fmt.Errorf("detector panicked: %v", r)
		}
	}()
	return rule.Detect(f), nil
}

// fix runs the transformer pass over the detection results. A transformer
// that fails leaves its finding unfixed; other rules and findings proceed.
func (p *Pipeline) fix(f *syntax.File, findings []Finding) []Change {
	var changes []Change
	for _, fd := range findings {
		if fd.Severity == SeverityGood {
			continue
		}
		fixer, ok := p.fixerFor(fd.Rule)
		if !ok {
			continue
		}
		change, err := p.safeFix(fixer, f, fd)
		if err != nil {
			p.log.Debugw("fix skipped", "rule", fd.Rule, "file", f.Path, "line", fd.Line, "error", err)
			continue
		}
		if change != nil {
			change.File = f.Path
			changes = append(changes, *change)
		}
	}
	return changes
}

func (p *Pipeline) safeFix(fixer Fixer, f *syntax.File, fd Finding) (change *Change, err error) {
	defer func() {
		if r := recover(); r != nil {
			change = nil
			err = fmt.Errorf("transformer panicked: %v", r)
		}
	}()
	return fixer.Fix(f, fd)
}

func (p *Pipeline) fixerFor(id string) (Fixer, bool) {
	for _, rule := range p.rules.Rules() {
		if rule.ID() != id {
			continue
		}
		fixer, ok := rule.(Fixer)
		return fixer, ok
	}
	return nil, false
}

func unifiedDiff(path string, original, modified []byte) string {
	diff := difflib.UnifiedDiff{
		A:        difflib.SplitLines(string(original)),
		B:        difflib.SplitLines(string(modified)),
		FromFile: path,
		ToFile:   path + " (fixed)",
		Context:  3,
	}
	text, err := difflib.GetUnifiedDiffString(diff)
	if err != nil {
		return ""
	}
	return strings.TrimRight(text, "\n")
}
