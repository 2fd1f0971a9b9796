package core

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// Report aggregates all FileResults of a run. It is appended to only after
// a file's pipeline fully completes, so per-file processing can run on
// independent workers.
type Report struct {
	Timestamp     time.Time        `json:"timestamp"`
	Root          string           `json:"root"`
	FilesChecked  int              `json:"filesChecked"`
	FilesFixed    int              `json:"filesFixed"`
	TotalChanges  int              `json:"totalChanges"`
	BySeverity    map[Severity]int `json:"findingsBySeverity"`
	ByCategory    map[Category]int `json:"findingsByCategory"`
	ByRule        map[string]int   `json:"findingsByRule"`
	ChangesByType map[string]int   `json:"changesByType"`
	GoodTally     int              `json:"goodPractices"`
	ParseFailed   int              `json:"parseFailures"`
	WriteFailed   int              `json:"writeFailures"`
	Files         []FileResult     `json:"-"`
}

// NewReport creates an empty report for a root.
func NewReport(root string) *Report {
	return &Report{
		Timestamp:     time.Now(),
		Root:          root,
		BySeverity:    make(map[Severity]int),
		ByCategory:    make(map[Category]int),
		ByRule:        make(map[string]int),
		ChangesByType: make(map[string]int),
	}
}

// Add folds one completed FileResult into the totals.
func (r *Report) Add(res FileResult) {
	r.Files = append(r.Files, res)
	r.FilesChecked++
	if res.ParseFailed {
		r.ParseFailed++
		return
	}
	for _, f := range res.Findings {
		if f.Severity == SeverityGood {
			r.GoodTally++
			continue
		}
		r.BySeverity[f.Severity]++
		r.ByCategory[f.Category]++
		r.ByRule[f.Rule]++
	}
	for _, c := range res.Changes {
		r.ChangesByType[c.Rule]++
		r.TotalChanges++
	}
	if res.Written {
		r.FilesFixed++
	}
	if res.Err != "" && !res.Written {
		r.WriteFailed++
	}
}

// UnresolvedErrors counts error-severity findings left after the fix pass.
func (r *Report) UnresolvedErrors() int {
	n := 0
	for i := range r.Files {
		n += r.Files[i].UnresolvedErrors()
	}
	return n
}

// ExitCode is 0 when no error-severity findings remain, 1 otherwise.
// Detection and fix failures never affect it.
func (r *Report) ExitCode() int {
	if r.UnresolvedErrors() > 0 {
		return 1
	}
	return 0
}

// RankedFiles returns file paths ordered by descending issue count,
// omitting clean files.
func (r *Report) RankedFiles() []FileResult {
	ranked := make([]FileResult, 0, len(r.Files))
	for _, f := range r.Files {
		if f.IssueCount() > 0 {
			ranked = append(ranked, f)
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].IssueCount() > ranked[j].IssueCount()
	})
	return ranked
}

// artifact is the machine-readable report written to disk.
type artifact struct {
	Timestamp     string           `json:"timestamp"`
	FilesChecked  int              `json:"filesChecked"`
	FilesFixed    int              `json:"filesFixed"`
	TotalChanges  int              `json:"totalChanges"`
	ChangesByType map[string]int   `json:"changesByType"`
	Severity      map[Severity]int `json:"findingsBySeverity"`
	Category      map[Category]int `json:"findingsByCategory"`
	GoodPractices int              `json:"goodPractices"`
	Files         []artifactFile   `json:"files"`
}

type artifactFile struct {
	File    string           `json:"file"`
	Changes []artifactChange `json:"changes"`
}

type artifactChange struct {
	Type   string `json:"type"`
	Line   int    `json:"line"`
	From   string `json:"from,omitempty"`
	To     string `json:"to,omitempty"`
	Action string `json:"action,omitempty"`
}

// WriteArtifact serializes the JSON artifact to path.
func (r *Report) WriteArtifact(path string) error {
	a := artifact{
		Timestamp:     r.Timestamp.UTC().Format(time.RFC3339),
		FilesChecked:  r.FilesChecked,
		FilesFixed:    r.FilesFixed,
		TotalChanges:  r.TotalChanges,
		ChangesByType: r.ChangesByType,
		Severity:      r.BySeverity,
		Category:      r.ByCategory,
		GoodPractices: r.GoodTally,
		Files:         []artifactFile{},
	}
	for _, f := range r.Files {
		if len(f.Changes) == 0 && !f.ParseFailed && f.IssueCount() == 0 {
			continue
		}
		af := artifactFile{File: f.Path, Changes: []artifactChange{}}
		for _, c := range f.Changes {
			ac := artifactChange{Type: c.Rule, Line: c.Line}
			switch c.Kind {
			case ChangeRename, ChangeAttributeRename:
				ac.From = c.Before
				ac.To = c.After
			default:
				ac.Action = string(c.Kind)
			}
			af.Changes = append(af.Changes, ac)
		}
		a.Files = append(a.Files, af)
	}

	data, err := json.MarshalIndent(a, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding report: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating report directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}
	return nil
}

// Summary renders the console summary.
func (r *Report) Summary() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Checked %d file(s) under %s\n", r.FilesChecked, r.Root)
	fmt.Fprintf(&sb, "  errors: %d  warnings: %d  info: %d  good practices: %d\n",
		r.BySeverity[SeverityError], r.BySeverity[SeverityWarning],
		r.BySeverity[SeverityInfo], r.GoodTally)
	if r.TotalChanges > 0 {
		fmt.Fprintf(&sb, "  fixed %d issue(s) across %d file(s)\n", r.TotalChanges, r.FilesFixed)
	}
	if r.ParseFailed > 0 {
		fmt.Fprintf(&sb, "  %d file(s) skipped with parse errors\n", r.ParseFailed)
	}
	if r.WriteFailed > 0 {
		fmt.Fprintf(&sb, "  %d file(s) failed to write\n", r.WriteFailed)
	}

	ranked := r.RankedFiles()
	if len(ranked) > 0 {
		sb.WriteString("  worst files:\n")
		for i, f := range ranked {
			if i == 5 {
				break
			}
			fmt.Fprintf(&sb, "    %s (%d issue(s))\n", f.Path, f.IssueCount())
		}
	}
	if remaining := r.UnresolvedErrors(); remaining > 0 {
		fmt.Fprintf(&sb, "  %d unresolved error(s) remain\n", remaining)
	}
	return sb.String()
}
