package core

import (
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"
)

// Severity of a finding. Good findings feed the good-practice tally and are
// excluded from issue totals and the exit status.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
	SeverityGood    Severity = "good"
)

// Category groups rules by the aspect of the markup they inspect.
type Category string

const (
	CategoryExpression Category = "expression"
	CategoryAttribute  Category = "attribute"
	CategorySecurity   Category = "security"
	CategoryStructure  Category = "structure"
	CategoryNaming     Category = "naming"
)

// ChangeKind names the mutation a transformer applied.
type ChangeKind string

const (
	ChangeRename            ChangeKind = "rename"
	ChangeAttributeInsert   ChangeKind = "attribute-insert"
	ChangeAttributeRename   ChangeKind = "attribute-rename"
	ChangeTagCollapse       ChangeKind = "tag-collapse"
	ChangeExpressionRemoval ChangeKind = "expression-removal"
)

// Finding is one detected issue. Immutable once created by a detector; the
// node handle is kept for the fix pass and never serialized.
type Finding struct {
	Rule     string   `json:"rule"`
	Severity Severity `json:"severity"`
	Category Category `json:"category"`
	Message  string   `json:"message"`
	File     string   `json:"file"`
	Line     int      `json:"line"`
	Column   int      `json:"column"`
	Hint     string   `json:"hint,omitempty"`

	Node *sitter.Node `json:"-"`
}

// Change is one applied fix, appended to the file's result and never
// mutated afterward.
type Change struct {
	Rule   string     `json:"rule"`
	Kind   ChangeKind `json:"kind"`
	File   string     `json:"file"`
	Line   int        `json:"line"`
	Before string     `json:"before,omitempty"`
	After  string     `json:"after,omitempty"`
}

// FileResult is the outcome for one file.
//
// State machine: Unparsed → Parsed → Analyzed → {Fixed → Regenerated →
// Written} | Unchanged, with Skipped(ParseError) terminal from Unparsed.
type FileResult struct {
	Path        string    `json:"file"`
	Findings    []Finding `json:"findings,omitempty"`
	Changes     []Change  `json:"changes,omitempty"`
	ParseFailed bool      `json:"parseFailed,omitempty"`
	Written     bool      `json:"written,omitempty"`
	Err         string    `json:"error,omitempty"`
	Diff        string    `json:"-"`
}

// IssueCount counts non-good findings.
func (r *FileResult) IssueCount() int {
	n := 0
	for _, f := range r.Findings {
		if f.Severity != SeverityGood {
			n++
		}
	}
	return n
}

// UnresolvedErrors counts error-severity findings that no change of the same
// rule resolved. Each change consumes exactly one finding of its rule.
func (r *FileResult) UnresolvedErrors() int {
	fixed := make(map[string]int)
	for _, c := range r.Changes {
		fixed[c.Rule]++
	}
	n := 0
	for _, f := range r.Findings {
		if f.Severity != SeverityError {
			continue
		}
		if fixed[f.Rule] > 0 {
			fixed[f.Rule]--
			continue
		}
		n++
	}
	return n
}

// WriteError reports a failure persisting regenerated source. The file's
// pipeline aborts at that point; other files are unaffected.
type WriteError struct {
	File string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("write %s: %v", e.File, e.Err)
}

func (e *WriteError) Unwrap() error {
	return e.Err
}

// EnvironmentError is fatal: the root path was inaccessible at scan start.
type EnvironmentError struct {
	Root string
	Err  error
}

func (e *EnvironmentError) Error() string {
	return fmt.Sprintf("cannot access root %s: %v", e.Root, e.Err)
}

func (e *EnvironmentError) Unwrap() error {
	return e.Err
}
