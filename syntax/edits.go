package syntax

import (
	"fmt"
	"sort"

	sitter "github.com/smacker/go-tree-sitter"
)

// Edit replaces the source bytes in [Start, End) with NewText. Edits are
// recorded against the original source during the fix pass and applied once,
// so positions from the tree stay valid for every transformer.
type Edit struct {
	Start   uint32
	End     uint32
	NewText string
}

// EditSet accumulates non-overlapping edits for one file.
type EditSet struct {
	edits []Edit
}

// NewEditSet returns an empty edit set.
func NewEditSet() *EditSet {
	return &EditSet{}
}

// Len returns the number of recorded edits.
func (s *EditSet) Len() int {
	return len(s.edits)
}

// Add records an edit. It fails if the range overlaps an existing edit;
// a transformer receiving this error must report a fix failure rather than
// corrupt the output.
func (s *EditSet) Add(start, end uint32, text string) error {
	if end < start {
		return fmt.Errorf("invalid edit range [%d, %d)", start, end)
	}
	for _, e := range s.edits {
		if start < e.End && e.Start < end {
			return fmt.Errorf("edit [%d, %d) overlaps existing edit [%d, %d)", start, end, e.Start, e.End)
		}
	}
	s.edits = append(s.edits, Edit{Start: start, End: end, NewText: text})
	return nil
}

// Replace records an edit covering node n.
func (s *EditSet) Replace(n *sitter.Node, text string) error {
	return s.Add(n.StartByte(), n.EndByte(), text)
}

// Remove records a deletion of node n.
func (s *EditSet) Remove(n *sitter.Node) error {
	return s.Add(n.StartByte(), n.EndByte(), "")
}

// Insert records an insertion at a single position.
func (s *EditSet) Insert(at uint32, text string) error {
	return s.Add(at, at, text)
}

// Apply splices all edits into src, applying them in descending start order
// so earlier offsets stay valid. Untouched bytes, including formatting and
// comments, pass through unchanged.
func (s *EditSet) Apply(src []byte) []byte {
	if len(s.edits) == 0 {
		return src
	}
	sorted := make([]Edit, len(s.edits))
	copy(sorted, s.edits)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Start > sorted[j].Start
	})

	out := make([]byte, len(src))
	copy(out, src)
	for _, e := range sorted {
		var next []byte
		next = append(next, out[:e.Start]...)
		next = append(next, e.NewText...)
		next = append(next, out[e.End:]...)
		out = next
	}
	return out
}
