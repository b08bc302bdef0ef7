package annotate

// FragmentKind separates untouched source text from rendered chips.
type FragmentKind int

const (
	Literal FragmentKind = iota
	Chip
)

// Fragment is one piece of a replacement sequence. Literal fragments carry
// the byte range they were sliced from; chip fragments carry markup.
type Fragment struct {
	Kind  FragmentKind
	Start int
	End   int
	Text  string
	HTML  string
}

// Splice tells a tree walker to replace Remove siblings starting at Start
// with Fragments and to continue visiting at Resume.
type Splice struct {
	Start     int
	Remove    int
	Fragments []Fragment
	Resume    int
}

func newSplice(start, remove int, fragments []Fragment) Splice {
	return Splice{
		Start:     start,
		Remove:    remove,
		Fragments: fragments,
		Resume:    start + len(fragments),
	}
}

// Replacement substitutes HTML for text[Start:Start+Length].
type Replacement struct {
	Start  int
	Length int
	HTML   string
	Kind   string
}

// End returns the offset just past the replaced range.
func (r Replacement) End() int {
	return r.Start + r.Length
}

// Apply slices text between replacements, interleaving literal fragments with
// chip fragments. replacements must be sorted and must not overlap.
func Apply(text string, replacements []Replacement) []Fragment {
	fragments := make([]Fragment, 0, 2*len(replacements)+1)
	cursor := 0
	for _, r := range replacements {
		if r.Start > cursor {
			fragments = append(fragments, Fragment{Kind: Literal, Start: cursor, End: r.Start, Text: text[cursor:r.Start]})
		}
		fragments = append(fragments, Fragment{Kind: Chip, Start: r.Start, End: r.End(), Text: text[r.Start:r.End()], HTML: r.HTML})
		cursor = r.End()
	}
	if cursor < len(text) {
		fragments = append(fragments, Fragment{Kind: Literal, Start: cursor, End: len(text), Text: text[cursor:]})
	}
	return fragments
}
