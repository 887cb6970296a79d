package logger

// lineRing keeps the most recent lines written to a log file.
type lineRing struct {
	lines    []string
	head     int // next write position
	size     int
	sinceCut int // lines added since the file was last rewritten
}

func newLineRing(capacity int) *lineRing {
	return &lineRing{lines: make([]string, max(capacity, 1))}
}

func (r *lineRing) push(line string) {
	r.lines[r.head] = line
	r.head = (r.head + 1) % len(r.lines)

	if r.size < len(r.lines) {
		r.size++
	}

	r.sinceCut++
}

// snapshot returns the retained lines oldest first.
func (r *lineRing) snapshot() []string {
	out := make([]string, 0, r.size)

	start := (r.head - r.size + len(r.lines)) % len(r.lines)
	for i := range r.size {
		out = append(out, r.lines[(start+i)%len(r.lines)])
	}

	return out
}
