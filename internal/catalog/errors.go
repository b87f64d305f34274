package catalog

import "fmt"

// Payload kinds, used in parse errors.
const (
	KindSets    = "card sets"
	KindCards   = "card info"
	KindBanlist = "ban list"
)

// ParseError reports a payload that does not have the expected shape.
// Index is the array element (or -1), Line the 1-based text line (or 0).
type ParseError struct {
	Kind  string
	Index int
	Line  int
	Msg   string
	Err   error
}

func (e *ParseError) Error() string {
	where := ""
	switch {
	case e.Line > 0:
		where = fmt.Sprintf(" (line %d)", e.Line)
	case e.Index >= 0:
		where = fmt.Sprintf(" (record %d)", e.Index)
	}
	if e.Err != nil {
		return fmt.Sprintf("parsing %s%s: %s: %v", e.Kind, where, e.Msg, e.Err)
	}
	return fmt.Sprintf("parsing %s%s: %s", e.Kind, where, e.Msg)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
