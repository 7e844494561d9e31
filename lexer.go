package sqlnames

import (
	"strings"
)

// lexState is the quoting/comment context the lexer is in.
type lexState uint8

const (
	sText lexState = iota
	sSQ            // '...'
	sDQ            // "..."
	sBT            // `...` (MySQL/SQLite)
	sBR            // [...] (SQL Server)
	sLC            // line comment -- or # (MySQL only)
	sBC            // block comment /* ... */
	sDQD           // $tag$ ... $tag$ (dollar-quoted)
)

// lexer walks SQL one line at a time, carrying strings, block comments and
// dollar-quoted bodies across line breaks.
type lexer struct {
	dialect Dialect
	state   lexState
	dqTag   string // active dollar-quoted tag (Postgres-like)
}

// code consumes one line (without its terminator) and returns it with every
// comment replaced by a single space. Quoted text is kept as is.
func (lx *lexer) code(line string) string {
	var buf strings.Builder
	buf.Grow(len(line))

	for i := 0; i < len(line); {
		c := line[i]

		switch lx.state {
		case sText:
			if c == '-' && i+1 < len(line) && line[i+1] == '-' {
				lx.state = sLC
				buf.WriteByte(' ')
				i = len(line)
				continue
			}
			if c == '#' && lx.dialect == MySQL {
				lx.state = sLC
				buf.WriteByte(' ')
				i = len(line)
				continue
			}
			if c == '/' && i+1 < len(line) && line[i+1] == '*' {
				lx.state = sBC
				buf.WriteByte(' ')
				i += 2
				continue
			}
			if c == '\'' {
				lx.state = sSQ
			}
			if c == '"' {
				lx.state = sDQ
			}
			if c == '`' && (lx.dialect == MySQL || lx.dialect == SQLite) {
				lx.state = sBT
			}
			if c == '[' && lx.dialect == SQLServer {
				lx.state = sBR
			}
			if c == '$' {
				if tag, ok := readDollarTag(line[i:]); ok {
					lx.state = sDQD
					lx.dqTag = tag
					buf.WriteString(tag)
					i += len(tag)
					continue
				}
			}
			buf.WriteByte(c)
			i++

		case sSQ, sDQ:
			// Backslash escapes only exist in MySQL strings.
			if c == '\\' && lx.dialect == MySQL {
				buf.WriteByte(c)
				i++
				if i < len(line) {
					buf.WriteByte(line[i])
					i++
				}
				continue
			}
			i = lx.closeQuote(&buf, line, i, quoteFor(lx.state))

		case sBT:
			i = lx.closeQuote(&buf, line, i, '`')

		case sBR:
			i = lx.closeQuote(&buf, line, i, ']')

		case sBC:
			i++
			if c == '*' && i < len(line) && line[i] == '/' {
				i++
				lx.state = sText
			}

		case sDQD:
			p := strings.Index(line[i:], lx.dqTag)
			if p < 0 {
				buf.WriteString(line[i:])
				i = len(line)
			} else {
				buf.WriteString(line[i : i+p+len(lx.dqTag)])
				i += p + len(lx.dqTag)
				lx.dqTag = ""
				lx.state = sText
			}

		default:
			i = len(line)
		}
	}

	// Line comments never outlive their line.
	if lx.state == sLC {
		lx.state = sText
	}
	return buf.String()
}

// closeQuote copies line[i] and leaves the quoted state when it is the closing
// quote q. A doubled quote is an escaped quote and keeps the state.
func (lx *lexer) closeQuote(buf *strings.Builder, line string, i int, q byte) int {
	c := line[i]
	buf.WriteByte(c)
	i++
	if c == q {
		if i < len(line) && line[i] == q {
			buf.WriteByte(line[i])
			i++
		} else {
			lx.state = sText
		}
	}
	return i
}

// quoteFor returns the closing quote of a string state.
func quoteFor(s lexState) byte {
	if s == sDQ {
		return '"'
	}
	return '\''
}

// readDollarTag detects a dollar-quoted opening tag ("$tag$") at the start of s.
// It returns the full tag (e.g. "$tag$") and true if found.
func readDollarTag(s string) (string, bool) {
	if len(s) < 2 || s[0] != '$' {
		return "", false
	}
	j := 1
	for j < len(s) && isAlphaNumUnderscore(s[j]) {
		j++
	}
	if j < len(s) && s[j] == '$' {
		return s[:j+1], true
	}
	return "", false
}

// isAlphaNumUnderscore reports whether b is [A-Za-z0-9_] .
func isAlphaNumUnderscore(b byte) bool {
	return (b >= 'A' && b <= 'Z') || (b >= 'a' && b <= 'z') || (b >= '0' && b <= '9') || b == '_'
}

// compact removes comments from body, trims every line, drops the empty ones
// and joins the rest with a single space.
func compact(d Dialect, body string) string {
	lx := lexer{dialect: d}
	var out []string
	for _, line := range strings.Split(body, "\n") {
		if s := strings.TrimSpace(lx.code(line)); s != "" {
			out = append(out, s)
		}
	}
	return strings.Join(out, " ")
}
