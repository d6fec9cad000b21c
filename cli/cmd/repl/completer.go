package repl

import (
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	"github.com/ardnew/veascript/lang"
)

// ctrlCommands are the available control-mode commands.
var ctrlCommands = []string{"help", "tags", "seed", "clear", "quit"}

// isWordBoundary returns true if the rune ends a completion word. Tags may
// contain underscores (#icon_url) but never braces, commas, colons, or
// quotes.
func isWordBoundary(r rune) bool {
	switch r {
	case ' ', '\t', '{', '}', ',', ':', '"', '(', ')':
		return true
	}

	return false
}

// wordBounds returns the current word at the cursor position and its byte
// boundaries within input.
// Returns an empty word when the cursor sits on a boundary (after a space,
// after a brace, start of line, etc.).
func wordBounds(input string, cursor int) (word string, start, end int) {
	cursor = min(cursor, len(input))

	start = cursor

	for start > 0 {
		r, size := utf8.DecodeLastRuneInString(input[:start])
		if isWordBoundary(r) {
			break
		}

		start -= size
	}

	end = cursor

	for end < len(input) {
		r, size := utf8.DecodeRuneInString(input[end:])
		if isWordBoundary(r) {
			break
		}

		end += size
	}

	return input[start:end], start, end
}

// insideText reports whether offset lies within the body of a #text block
// or a string literal, where '#' is ordinary text and nothing is
// completed.
func insideText(input string, offset int) bool {
	inString := false
	inText := false

	for i := 0; i < offset && i < len(input); i++ {
		c := input[i]

		switch {
		case inText:
			switch c {
			case '\\':
				i++
			case '}':
				inText = false
			}

		case inString:
			if c == '"' {
				inString = false
			}

		case c == '"':
			inString = true

		case strings.HasPrefix(input[i:], "#text"):
			j := i + len("#text")
			for j < len(input) && (input[j] == ' ' || input[j] == '\t') {
				j++
			}

			if j < len(input) && input[j] == '{' && j < offset {
				inText = true
				i = j
			}
		}
	}

	return inText || inString
}

// computeMatches calculates the fuzzy match results for the word at the
// cursor. It returns the matches (ranked best-first), the candidate list,
// and the word boundaries. In eval mode only words starting with '#' are
// completed, against every tag of the language.
func (m model) computeMatches() (
	matches fuzzy.Matches,
	candidates []string,
	wordStart, wordEnd int,
) {
	input := m.input.Value()
	cursor := m.input.Position()

	word, wordStart, wordEnd := wordBounds(input, cursor)

	if word == "" {
		return nil, nil, wordStart, wordEnd
	}

	if m.mode == modeCtrl {
		candidates = ctrlCommands
	} else {
		if !strings.HasPrefix(word, "#") || insideText(input, wordStart) {
			return nil, nil, wordStart, wordEnd
		}

		candidates = m.tags

		// A bare '#' lists every tag.
		if word == "#" {
			matches = make(fuzzy.Matches, len(candidates))
			for i, c := range candidates {
				matches[i] = fuzzy.Match{Str: c, Index: i}
			}

			return matches, candidates, wordStart, wordEnd
		}
	}

	return fuzzy.Find(word, candidates), candidates, wordStart, wordEnd
}

// renderCandidateBar builds the single-line completion bar, ellipsized to fit
// within the given terminal width. Each candidate is rendered with its matched
// characters highlighted. The selected candidate (when tabbing) uses the
// selected style.
func renderCandidateBar(
	matches fuzzy.Matches,
	suggIdx int,
	tabActive bool,
	width int,
) string {
	if len(matches) == 0 || width <= 0 {
		return ""
	}

	const sep = "  "

	sepWidth := lipgloss.Width(sep)
	ellipsis := hintStyle.Render("...")
	ellipsisWidth := lipgloss.Width(ellipsis)

	var b strings.Builder

	used := 0

	for i, match := range matches {
		rendered := renderCandidate(match, tabActive && i == suggIdx)

		entryWidth := lipgloss.Width(rendered)
		if i > 0 {
			entryWidth += sepWidth
		}

		last := i == len(matches)-1

		reserve := ellipsisWidth
		if last {
			reserve = 0
		}

		if i > 0 && used+entryWidth+reserve > width {
			b.WriteString(sep)
			b.WriteString(ellipsis)

			break
		}

		if i > 0 {
			b.WriteString(sep)
		}

		b.WriteString(rendered)

		used += entryWidth
	}

	return b.String()
}

// renderCandidate renders a single candidate with matched characters
// highlighted.
func renderCandidate(match fuzzy.Match, selected bool) string {
	base, highlight := suggestionStyle, matchStyle
	if selected {
		base, highlight = selectedStyle, selectedMatchStyle
	}

	matched := make(map[int]bool, len(match.MatchedIndexes))
	for _, idx := range match.MatchedIndexes {
		matched[idx] = true
	}

	var b strings.Builder

	for i, r := range match.Str {
		if matched[i] {
			b.WriteString(highlight.Render(string(r)))
		} else {
			b.WriteString(base.Render(string(r)))
		}
	}

	return b.String()
}

// tagCandidates returns the tags offered for completion.
func tagCandidates() []string { return lang.Tags() }
