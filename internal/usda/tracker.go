package usda

import (
	"strings"
	"unicode"
)

type blockState int

const (
	outside blockState = iota
	awaiting           // definition seen; waiting for the brace (or first input)
	inside             // declaration handled for this block
)

// blockTracker follows the most recently opened block of one type.
// Opening a new block of the same type discards the previous one.
type blockTracker struct {
	state  blockState
	indent string
}

// open records a definition line and captures the indentation that inserted
// lines will use.
func (b *blockTracker) open(defLine string) {
	b.state = awaiting
	b.indent = childIndent(defLine)
}

func (b *blockTracker) awaiting() bool { return b.state == awaiting }

// settle marks the block handled, with or without an insertion.
func (b *blockTracker) settle() { b.state = inside }

func (b *blockTracker) line(decl string) string { return b.indent + decl }

// childIndent returns the leading whitespace of line plus one IndentUnit.
func childIndent(line string) string {
	trimmed := strings.TrimLeftFunc(line, unicode.IsSpace)
	return line[:len(line)-len(trimmed)] + IndentUnit
}

// blockDeclares reports whether the block whose opening brace sits on
// lines[start] mentions Property before its matching closing brace.
func blockDeclares(lines []string, start int) bool {
	depth := 0
	for i := start; i < len(lines); i++ {
		l := lines[i]
		if strings.Contains(l, Property) {
			return true
		}
		depth += strings.Count(l, openBrace) - strings.Count(l, closeBrace)
		if depth <= 0 {
			return false
		}
	}
	return false
}
