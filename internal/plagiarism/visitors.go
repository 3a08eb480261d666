package plagiarism

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/mini-maxit/anticheat/pkg/errors"
)

// Visitor normalizes comparable text before it is diffed. Visitors must be pure.
type Visitor interface {
	Visit(text string) string
}

type VisitorFunc func(text string) string

func (f VisitorFunc) Visit(text string) string {
	return f(text)
}

// SortAndTrimLinesVisitor trims every line, drops empty ones and sorts the rest,
// which makes the comparison insensitive to method reordering.
type SortAndTrimLinesVisitor struct{}

func (SortAndTrimLinesVisitor) Visit(text string) string {
	lines := strings.Split(text, "\n")
	kept := lines[:0]
	for _, line := range lines {
		if line = strings.TrimSpace(line); line != "" {
			kept = append(kept, line)
		}
	}
	sort.Strings(kept)
	return strings.Join(kept, "\n")
}

type RegexReplaceVisitor struct {
	pattern     *regexp.Regexp
	replacement string
}

func NewRegexReplaceVisitor(pattern, replacement string) (*RegexReplaceVisitor, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, err
	}
	return &RegexReplaceVisitor{pattern: re, replacement: replacement}, nil
}

func (v *RegexReplaceVisitor) Visit(text string) string {
	return v.pattern.ReplaceAllString(text, v.replacement)
}

// Named visitors that can be requested over the queue.
const (
	VisitorSortAndTrimLines        = "sort-and-trim-lines"
	VisitorMaskConstantPoolIndexes = "mask-constant-pool-indexes"
	VisitorMaskHexAddresses        = "mask-hex-addresses"
)

var namedVisitors = map[string]Visitor{
	VisitorSortAndTrimLines: SortAndTrimLinesVisitor{},
	// javap prints "#12" references which shift whenever an identifier is renamed.
	VisitorMaskConstantPoolIndexes: &RegexReplaceVisitor{pattern: regexp.MustCompile(`#\d+`), replacement: "#"},
	VisitorMaskHexAddresses:        &RegexReplaceVisitor{pattern: regexp.MustCompile(`\b(0x)?[0-9a-f]{4,16}\b`), replacement: "<addr>"},
}

// VisitorsByName resolves names in order. Unknown names are an error.
func VisitorsByName(names []string) ([]Visitor, error) {
	visitors := make([]Visitor, 0, len(names))
	for _, name := range names {
		v, ok := namedVisitors[strings.ToLower(strings.TrimSpace(name))]
		if !ok {
			return nil, fmt.Errorf("%w: %q", errors.ErrUnknownVisitor, name)
		}
		visitors = append(visitors, v)
	}
	return visitors, nil
}

// VisitorNames lists the visitors VisitorsByName accepts.
func VisitorNames() []string {
	names := make([]string, 0, len(namedVisitors))
	for name := range namedVisitors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
