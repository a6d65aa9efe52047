package engine

import (
	"fmt"
	"strings"
)

// Tag is a PGN tag pair.
type Tag struct {
	Name  string
	Value string
}

// Movetext renders the moves as numbered pairs followed by the result token,
// e.g. "1. e4 e5 2. Nf3 *".
func (e *Engine) Movetext() string {
	var sb strings.Builder
	num := e.start.FullMoveNumber
	white := e.start.Turn == White
	for i, m := range e.moves {
		switch {
		case white:
			if i > 0 {
				sb.WriteByte(' ')
			}
			fmt.Fprintf(&sb, "%d. %s", num, m)
		case i == 0:
			fmt.Fprintf(&sb, "%d... %s", num, m)
		default:
			sb.WriteByte(' ')
			sb.WriteString(m)
		}
		if !white {
			num++
		}
		white = !white
	}
	if sb.Len() > 0 {
		sb.WriteByte(' ')
	}
	sb.WriteString(string(e.status.Result))
	return sb.String()
}

// PGN renders the tags and movetext as a PGN game. The Result tag is filled
// from the game status unless given, and games not starting from the initial
// position get SetUp and FEN tags.
func (e *Engine) PGN(tags []Tag) string {
	var sb strings.Builder
	hasResult := false
	for _, t := range tags {
		if t.Name == "Result" {
			hasResult = true
		}
		writeTag(&sb, t.Name, t.Value)
	}
	if !hasResult {
		writeTag(&sb, "Result", string(e.status.Result))
	}
	if start := e.start.FEN(); start != InitialFEN {
		writeTag(&sb, "SetUp", "1")
		writeTag(&sb, "FEN", start)
	}
	sb.WriteByte('\n')
	sb.WriteString(e.Movetext())
	sb.WriteByte('\n')
	return sb.String()
}

func writeTag(sb *strings.Builder, name, value string) {
	value = strings.ReplaceAll(value, `\`, `\\`)
	value = strings.ReplaceAll(value, `"`, `\"`)
	fmt.Fprintf(sb, "[%s \"%s\"]\n", name, value)
}
