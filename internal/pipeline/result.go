package pipeline

import "github.com/backmassage/usdzfix/internal/usda"

// Outcome classifies how one archive ended.
type Outcome int

const (
	OutcomeFailed    Outcome = iota // extraction, I/O or repackaging error
	OutcomeUnchanged                // nothing needed patching; archive untouched
	OutcomeFixed                    // patched, backed up and repackaged (or would be, in a dry run)
)

func (o Outcome) String() string {
	switch o {
	case OutcomeFixed:
		return "fixed"
	case OutcomeUnchanged:
		return "unchanged"
	default:
		return "failed"
	}
}

// DocumentResult describes one scene document inside an archive.
type DocumentResult struct {
	Name       string // slash-separated, relative to the archive root
	Binary     bool   // crate or nested archive; never rewritten
	Insertions usda.Insertions
}

// Modified reports whether the document's text was changed.
func (d DocumentResult) Modified() bool { return d.Insertions.Total() > 0 }

// Result is the outcome of [FixArchive] for one archive.
type Result struct {
	Path       string
	Outcome    Outcome
	DryRun     bool
	BackupPath string // empty unless a backup was written
	Documents  []DocumentResult
	SizeBefore int64
	SizeAfter  int64
	Err        error
}

// OK reports whether the archive was fixed.
func (r *Result) OK() bool { return r.Outcome == OutcomeFixed }

// ModifiedDocuments counts documents whose text changed.
func (r *Result) ModifiedDocuments() int {
	n := 0
	for _, d := range r.Documents {
		if d.Modified() {
			n++
		}
	}
	return n
}

// Insertions sums insertion counts over all documents.
func (r *Result) Insertions() usda.Insertions {
	var sum usda.Insertions
	for _, d := range r.Documents {
		sum.Mesh += d.Insertions.Mesh
		sum.Material += d.Insertions.Material
		sum.Shader += d.Insertions.Shader
	}
	return sum
}
