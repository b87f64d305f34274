package catalog

import (
	"strconv"
	"strings"
)

// CommentMarker starts a comment line in ban list text.
const CommentMarker = '#'

func isComment(line string) bool {
	return len(line) > 0 && line[0] == CommentMarker
}

// StripComments deletes every line whose first character is the comment
// marker, newline included. A marker later in a line is kept verbatim.
func StripComments(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	for len(text) > 0 {
		line := text
		if i := strings.IndexByte(text, '\n'); i >= 0 {
			line = text[:i+1]
		}
		text = text[len(line):]
		if !isComment(line) {
			b.WriteString(line)
		}
	}
	return b.String()
}

// ParseBanlist parses lflist-style ban list text.
//
//	#comment line            dropped
//	!2024.01 TCG             starts the list named "2024.01 TCG"
//	$whitelist               directive, ignored
//	89631139 1 --Blue-Eyes   entry: card, limit, optional note
//	Dark Magician 3          the card token may be a name with spaces
//
// Comment lines are removed with StripComments before parsing, so line
// numbers in errors refer to the stripped text.
func ParseBanlist(text string) ([]BanlistEntry, error) {
	var (
		entries []BanlistEntry
		list    string
	)
	for i, line := range strings.Split(StripComments(text), "\n") {
		line = strings.TrimRight(line, "\r")
		trimmed := strings.TrimSpace(line)
		switch {
		case trimmed == "":
			continue
		case strings.HasPrefix(trimmed, "!"):
			list = strings.TrimSpace(trimmed[1:])
			continue
		case strings.HasPrefix(trimmed, "$"):
			continue
		}

		entry, err := parseBanlistLine(trimmed)
		if err != nil {
			err.Line = i + 1
			return nil, err
		}
		entry.List = list
		entries = append(entries, entry)
	}
	return entries, nil
}

func parseBanlistLine(line string) (BanlistEntry, *ParseError) {
	body, note := line, ""
	if idx := strings.Index(line, " --"); idx >= 0 {
		body, note = line[:idx], strings.TrimSpace(line[idx+3:])
	}

	fields := strings.Fields(body)
	if len(fields) < 2 {
		return BanlistEntry{}, &ParseError{Kind: KindBanlist, Index: -1, Msg: "expected <card> <limit>"}
	}
	limit, err := strconv.ParseInt(fields[len(fields)-1], 10, 32)
	if err != nil {
		return BanlistEntry{}, &ParseError{Kind: KindBanlist, Index: -1, Msg: "limit is not an integer", Err: err}
	}

	card := strings.Join(fields[:len(fields)-1], " ")
	entry := BanlistEntry{
		Card:  card,
		Limit: int32(limit),
		Note:  note,
		Line:  line,
	}
	if id, err := strconv.ParseInt(card, 10, 64); err == nil {
		entry.CardID = id
	}
	return entry, nil
}
