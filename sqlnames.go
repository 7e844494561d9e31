package sqlnames

import (
	"errors"
	"maps"
	"slices"
)

// Dialect identifies the SQL dialect used to tell comments from code in strict
// mode and in compact bodies.
type Dialect int

// DuplicatePolicy decides what happens when a name is declared more than once.
type DuplicatePolicy int

// Parser extracts named statements from SQL text.
// A Parser is immutable after New and safe for concurrent use.
type Parser struct {
	dialect Dialect
	config  Config
}

// Config defines behavior tweaks for the parser.
// The zero value gives the lenient behavior of the package-level Parse.
type Config struct {
	// Strict reports structural problems (SQL before the first annotation,
	// malformed annotations, annotations without SQL) as errors instead of
	// silently skipping them.
	Strict bool
	// Duplicates selects the policy for names declared more than once.
	Duplicates DuplicatePolicy
	// Compact strips comments from bodies, trims every line and joins the
	// remaining lines with a single space.
	Compact bool
}

// Queries maps query names to statement bodies. It has no mutation API.
// All methods are safe on a nil *Queries, which behaves as an empty set.
type Queries struct {
	names  []string
	bodies map[string]string
}

const (
	Postgres Dialect = iota
	MySQL
	SQLite
	SQLServer
)

const (
	// Overwrite keeps the last declaration of a name.
	Overwrite DuplicatePolicy = iota
	// Reject fails with ErrDuplicateName.
	Reject
	// Merge appends later bodies to the first one, separated by a newline
	// (a single space with Config.Compact).
	Merge
)

var (
	ErrQueryWithoutName = errors.New("sqlnames: query without name")
	ErrMalformedName    = errors.New("sqlnames: malformed name annotation")
	ErrEmptyQuery       = errors.New("sqlnames: name without query")
	ErrDuplicateName    = errors.New("sqlnames: duplicate name")
)

var defaultParser = New(Postgres)

// String returns the string representation of the dialect.
func (d Dialect) String() string {
	switch d {
	case Postgres:
		return "postgres"
	case MySQL:
		return "mysql"
	case SQLite:
		return "sqlite"
	case SQLServer:
		return "sqlserver"
	default:
		return "unknown"
	}
}

// String returns the string representation of the policy.
func (p DuplicatePolicy) String() string {
	switch p {
	case Overwrite:
		return "overwrite"
	case Reject:
		return "reject"
	case Merge:
		return "merge"
	default:
		return "unknown"
	}
}

// New returns a Parser for the given dialect. Optionally provide a Config;
// without one the parser never fails.
func New(dialect Dialect, cfg ...Config) *Parser {
	p := &Parser{dialect: dialect}
	if len(cfg) > 0 {
		p.config = cfg[0]
	}
	return p
}

// Parse extracts every named statement from text using the Postgres dialect
// and the default Config.
//
// Text before the first annotation is discarded, malformed annotations are
// treated as ordinary text, and a name declared twice keeps its last body.
// A marker must carry exactly one token, so "-- name: get -- fetch one" is
// not an annotation. Any line that is a marker starts a new query, even inside
// an unterminated string or comment. Empty input yields an empty set.
// Parse never fails.
func Parse(text string) *Queries {
	q, _ := defaultParser.Parse(text)
	return q
}

// Dialect returns the dialect the parser was created with.
func (p *Parser) Dialect() Dialect {
	return p.dialect
}

// Parse extracts every named statement from text.
//
// With the zero Config it never returns an error. Strict mode and the Reject
// duplicate policy report the first problem found, wrapped around one of the
// package sentinels together with its 1-based line number.
func (p *Parser) Parse(text string) (*Queries, error) {
	return parse(p.dialect, text, p.config)
}

// Get returns the body declared for name and whether it exists.
func (q *Queries) Get(name string) (string, bool) {
	if q == nil {
		return "", false
	}
	body, ok := q.bodies[name]
	return body, ok
}

// Len returns the number of named statements.
func (q *Queries) Len() int {
	if q == nil {
		return 0
	}
	return len(q.names)
}

// Names returns the declared names in order of first appearance.
func (q *Queries) Names() []string {
	if q == nil {
		return nil
	}
	return slices.Clone(q.names)
}

// Map returns a copy of the name to body mapping.
func (q *Queries) Map() map[string]string {
	if q == nil {
		return map[string]string{}
	}
	return maps.Clone(q.bodies)
}

// set stores body under name according to policy, joining merged bodies with
// sep. It reports false when the policy rejects the name.
func (q *Queries) set(name, body string, policy DuplicatePolicy, sep string) bool {
	prev, exists := q.bodies[name]
	if !exists {
		q.names = append(q.names, name)
		q.bodies[name] = body
		return true
	}
	switch policy {
	case Reject:
		return false
	case Merge:
		q.bodies[name] = prev + sep + body
	default:
		q.bodies[name] = body
	}
	return true
}

func newQueries() *Queries {
	return &Queries{bodies: make(map[string]string, 8)}
}
