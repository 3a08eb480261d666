package similarity

import (
	"strings"
	"unicode/utf8"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// Difference is one diff hunk: DeletedA lines starting at StartA in the first text were
// replaced by InsertedB lines starting at StartB in the second.
type Difference struct {
	StartA    int
	StartB    int
	DeletedA  int
	InsertedB int
}

// Options control how two lines are compared. They never change the counted units.
type Options struct {
	TrimSpace   bool
	IgnoreSpace bool
	IgnoreCase  bool
}

// Finder computes the differences between two texts.
type Finder interface {
	DiffText(textA, textB string, opts Options) []Difference
}

// LineFinder diffs texts line by line with a minimal edit script, so the edit volume
// does not depend on the order of the two texts.
type LineFinder struct{}

func NewLineFinder() *LineFinder {
	return &LineFinder{}
}

func (f *LineFinder) DiffText(textA, textB string, opts Options) []Difference {
	runesA, runesB := encodeLines(lineKeys(textA, opts), lineKeys(textB, opts))

	dmp := diffmatchpatch.New()
	// A deadline lets the matcher return a non-minimal script.
	dmp.DiffTimeout = 0
	diffs := dmp.DiffMainRunes(runesA, runesB, false)

	var differences []Difference
	var current *Difference
	posA, posB := 0, 0
	for _, d := range diffs {
		// Every rune stands for one line.
		n := utf8.RuneCountInString(d.Text)
		if d.Type == diffmatchpatch.DiffEqual {
			if current != nil {
				differences = append(differences, *current)
				current = nil
			}
			posA += n
			posB += n
			continue
		}
		if current == nil {
			current = &Difference{StartA: posA, StartB: posB}
		}
		if d.Type == diffmatchpatch.DiffDelete {
			current.DeletedA += n
			posA += n
		} else {
			current.InsertedB += n
			posB += n
		}
	}
	if current != nil {
		differences = append(differences, *current)
	}
	return differences
}

// EditVolume sums deleted and inserted units over all hunks.
func EditVolume(differences []Difference) int {
	total := 0
	for _, d := range differences {
		total += d.DeletedA + d.InsertedB
	}
	return total
}

// encodeLines maps every distinct line to its own rune, skipping the surrogate range.
func encodeLines(linesA, linesB []string) ([]rune, []rune) {
	codes := make(map[string]rune)
	encode := func(lines []string) []rune {
		out := make([]rune, 0, len(lines))
		for _, line := range lines {
			r, ok := codes[line]
			if !ok {
				r = rune(len(codes) + 1)
				if r >= 0xD800 {
					r += 0x800
				}
				codes[line] = r
			}
			out = append(out, r)
		}
		return out
	}
	return encode(linesA), encode(linesB)
}

func splitLines(text string) []string {
	if text == "" {
		return nil
	}
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.TrimSuffix(text, "\n")
	return strings.Split(text, "\n")
}

func lineKeys(text string, opts Options) []string {
	lines := splitLines(text)
	for i, line := range lines {
		if opts.TrimSpace {
			line = strings.TrimSpace(line)
		}
		if opts.IgnoreSpace {
			line = strings.Join(strings.Fields(line), "")
		}
		if opts.IgnoreCase {
			line = strings.ToLower(line)
		}
		lines[i] = line
	}
	return lines
}
