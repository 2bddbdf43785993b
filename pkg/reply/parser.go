// Package reply splits raw model output into its reasoning and answer
// sections.
//
// A reply is structured when it carries the line markers "Thinking:" and
// "Final:". Markers are matched ASCII case-insensitively and only at the
// start of a line, optionally indented with spaces or tabs; the same words
// in the middle of a sentence are prose. Capture is lazy: the thinking
// section ends at the first "Final:" marker that follows it and everything
// after that marker, including further "Final:" markers, is the answer.
package reply

import (
	"strings"

	"github.com/dskvich/clinical-console/pkg/domain"
)

const (
	thinkingMarker = "thinking:"
	finalMarker    = "final:"
)

// Parse never fails. Input that does not follow the marker format is
// returned as plain content.
//
// A "Thinking:" marker only counts when a "Final:" marker closes it. Without
// a closed thinking section the first "Final:" marker anywhere in the text
// starts the answer; with no usable marker the reply is plain.
func Parse(raw string) domain.Reply {
	if strings.TrimSpace(raw) == "" {
		return domain.Reply{Outcome: domain.ReplyEmpty, Content: domain.EmptyReplyPlaceholder}
	}

	var thinking string
	finalFrom := -1

	if _, thinkingEnd, ok := findMarker(raw, thinkingMarker, 0); ok {
		if finalStart, finalEnd, ok := findMarker(raw, finalMarker, thinkingEnd); ok {
			thinking = strings.TrimSpace(raw[thinkingEnd:finalStart])
			finalFrom = finalEnd
		}
	}

	if finalFrom < 0 {
		if _, finalEnd, ok := findMarker(raw, finalMarker, 0); ok {
			finalFrom = finalEnd
		}
	}

	if finalFrom < 0 {
		return domain.Reply{Outcome: domain.ReplyPlain, Content: strings.TrimSpace(raw)}
	}

	final := strings.TrimSpace(raw[finalFrom:])
	return domain.Reply{
		Outcome:  domain.ReplyStructured,
		Content:  final,
		Thinking: thinking,
		Final:    final,
	}
}

// findMarker returns the bounds of the first line marker at or after from.
func findMarker(s, marker string, from int) (start, end int, ok bool) {
	for i := from; i < len(s); i++ {
		if i > 0 && s[i-1] != '\n' {
			next := strings.IndexByte(s[i:], '\n')
			if next < 0 {
				return 0, 0, false
			}
			i += next
			continue
		}

		j := i
		for j < len(s) && (s[j] == ' ' || s[j] == '\t') {
			j++
		}
		if hasPrefixFold(s[j:], marker) {
			return j, j + len(marker), true
		}
	}
	return 0, 0, false
}

// hasPrefixFold reports whether s starts with the lower-case ASCII prefix.
func hasPrefixFold(s, prefix string) bool {
	if len(s) < len(prefix) {
		return false
	}
	for i := 0; i < len(prefix); i++ {
		c := s[i]
		if 'A' <= c && c <= 'Z' {
			c += 'a' - 'A'
		}
		if c != prefix[i] {
			return false
		}
	}
	return true
}
