package sqlnames

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
)

// reName matches anything that starts like an annotation and captures the rest
// of the line.
var reName = regexp.MustCompile(`^[\s\p{Z}]*--[\s\p{Z}]*name[\s\p{Z}]*:(.*)$`)

// segment is the body collected for one annotation.
type segment struct {
	name    string
	line    int  // line of the annotation
	start   int  // offset of the first non-blank line, -1 if none
	end     int  // offset just past the last non-blank line
	hasCode bool // at least one line carries SQL outside comments
}

// annotation reports whether line is a name marker. The returned name is empty
// when the marker does not carry exactly one token.
func annotation(line string) (string, bool) {
	m := reName.FindStringSubmatch(line)
	if m == nil {
		return "", false
	}
	name := strings.TrimSpace(m[1])
	if strings.ContainsFunc(name, unicode.IsSpace) {
		return "", true
	}
	return name, true
}

// parse walks text line by line, splits it at annotations and collects every
// body according to config.
func parse(dialect Dialect, text string, config Config) (*Queries, error) {
	q := newQueries()
	lx := lexer{dialect: dialect}

	sep := "\n"
	if config.Compact {
		sep = " "
	}

	var cur *segment

	flush := func() error {
		if cur == nil {
			return nil
		}
		if config.Strict && !cur.hasCode {
			return fmt.Errorf("%w: %q (line %d)", ErrEmptyQuery, cur.name, cur.line)
		}
		if cur.start < 0 {
			return nil
		}
		body := text[cur.start:cur.end]
		if config.Compact {
			body = compact(dialect, body)
			if body == "" {
				return nil
			}
		}
		if !q.set(cur.name, body, config.Duplicates, sep) {
			return fmt.Errorf("%w: %q (line %d)", ErrDuplicateName, cur.name, cur.line)
		}
		return nil
	}

	for off, n := 0, 1; off <= len(text); n++ {
		line, next := text[off:], len(text)+1
		if i := strings.IndexByte(line, '\n'); i >= 0 {
			line, next = line[:i], off+i+1
		}
		line = strings.TrimSuffix(line, "\r")

		// Markers win over any open string or comment, so one broken
		// statement never hides the queries after it.
		name, marker := annotation(line)
		switch {
		case marker && name != "":
			if err := flush(); err != nil {
				return nil, err
			}
			cur = &segment{name: name, line: n, start: -1}
			lx = lexer{dialect: dialect}
			off = next
			continue
		case marker && config.Strict:
			return nil, fmt.Errorf("%w: %q (line %d)", ErrMalformedName, strings.TrimSpace(line), n)
		}

		if cur == nil {
			if config.Strict && strings.TrimSpace(lx.code(line)) != "" {
				return nil, fmt.Errorf("%w: %q (line %d)", ErrQueryWithoutName, strings.TrimSpace(line), n)
			}
			off = next
			continue
		}

		isCode := strings.TrimSpace(lx.code(line)) != ""
		if strings.TrimSpace(line) != "" {
			if cur.start < 0 {
				cur.start = off
			}
			cur.end = off + len(line)
			cur.hasCode = cur.hasCode || isCode
		}
		off = next
	}

	if err := flush(); err != nil {
		return nil, err
	}
	return q, nil
}
