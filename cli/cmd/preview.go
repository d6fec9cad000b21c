package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"

	"github.com/ardnew/veascript/lang"
)

// Preview renders a compiled document the way a chat client would show it.
type Preview struct {
	Compile `embed:""`

	Color string `default:"auto" enum:"auto,always,never" help:"Colorize output (${enum})."`
	Width int    `default:"60"                            help:"Width of embed cards in columns."`

	Source []string `arg:"" help:"Script file(s) or '-' for stdin, concatenated in order." name:"source" optional:""`
}

// Run executes the preview command.
func (p *Preview) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	srcs, err := resolveSources(ctx, p.Source)
	if err != nil {
		return err
	}

	in, closeAll, err := openSources(ctx, srcs)
	if err != nil {
		return err
	}
	defer closeAll()

	opts := p.options()

	script, err := lang.ParseReader(ctx, in, opts...)
	if err != nil {
		return ErrCompile.Wrap(err).With(slog.Any("sources", sourceNames(srcs)))
	}

	warnDiagnostics(ctx, script, slog.Any("sources", sourceNames(srcs)))

	doc, err := script.Evaluate(ctx, opts...)
	if err != nil {
		return ErrCompile.Wrap(err).With(slog.Any("sources", sourceNames(srcs)))
	}

	w := outputFrom(ctx)

	_, err = io.WriteString(w, renderDocument(newRenderer(w, p.Color), doc, p.Width))

	return err
}

// newRenderer returns a lipgloss renderer for w. In auto mode, colour is
// used only when w is a terminal.
func newRenderer(w io.Writer, mode string) *lipgloss.Renderer {
	r := lipgloss.NewRenderer(w)

	switch mode {
	case "always":
		r.SetColorProfile(termenv.TrueColor)
	case "never":
		r.SetColorProfile(termenv.Ascii)
	default:
		if !isTerminal(w) {
			r.SetColorProfile(termenv.Ascii)
		}
	}

	return r
}

// isTerminal reports whether w is a file attached to a terminal.
func isTerminal(w any) bool {
	f, ok := w.(interface{ Fd() uintptr })
	if !ok {
		return false
	}

	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// renderDocument renders the content followed by one card per embed.
func renderDocument(r *lipgloss.Renderer, doc *lang.Document, width int) string {
	var b strings.Builder

	if doc.Content != "" {
		b.WriteString(doc.Content)

		if !strings.HasSuffix(doc.Content, "\n") {
			b.WriteByte('\n')
		}
	}

	for _, e := range doc.Embeds {
		if b.Len() > 0 {
			b.WriteByte('\n')
		}

		b.WriteString(renderEmbed(r, e, width))
		b.WriteByte('\n')
	}

	return b.String()
}

// fieldsPerRow is the most inline fields shown side by side.
const fieldsPerRow = 3

// renderEmbed renders e as a card whose left border takes the embed
// colour.
func renderEmbed(r *lipgloss.Renderer, e *lang.Embed, width int) string {
	inner := max(width-2, 10)

	accent := lipgloss.Color(fmt.Sprintf("#%06x", e.Colour))
	faint := r.NewStyle().Faint(true)
	bold := r.NewStyle().Bold(true)
	wrap := r.NewStyle().Width(inner)

	var parts []string

	if a := e.Author; a != nil {
		parts = append(parts, bold.Render(a.Name))

		if a.URL != "" {
			parts = append(parts, faint.Render(a.URL))
		}
	}

	if e.Title != "" {
		parts = append(parts, bold.Foreground(accent).Width(inner).Render(e.Title))
	}

	if e.URL != "" {
		parts = append(parts, faint.Underline(true).Render(e.URL))
	}

	if e.Description != "" {
		parts = append(parts, wrap.Render(e.Description))
	}

	if rows := renderFields(r, e.Fields, inner); rows != "" {
		parts = append(parts, "", rows)
	}

	for _, img := range []struct{ label, url string }{
		{"image", e.Image},
		{"thumbnail", e.Thumbnail},
	} {
		if img.url != "" {
			parts = append(parts, faint.Render(img.label+": "+img.url))
		}
	}

	if footer := renderFooter(e); footer != "" {
		parts = append(parts, "", faint.Width(inner).Render(footer))
	}

	card := r.NewStyle().
		Border(lipgloss.ThickBorder(), false, false, false, true).
		BorderForeground(accent).
		PaddingLeft(1)

	return card.Render(lipgloss.JoinVertical(lipgloss.Left, parts...))
}

// renderFields lays out fields in rows. Consecutive inline fields share a
// row, up to fieldsPerRow of them; other fields take a full row.
func renderFields(r *lipgloss.Renderer, fields []lang.Field, width int) string {
	if len(fields) == 0 {
		return ""
	}

	var (
		rows []string
		row  []string
	)

	colWidth := max(width/fieldsPerRow-1, 8)

	flush := func() {
		if len(row) > 0 {
			rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, row...))
			row = nil
		}
	}

	for _, f := range fields {
		w := width
		if f.Inline {
			w = colWidth
		}

		cell := r.NewStyle().Width(w).MarginRight(1).Render(
			lipgloss.JoinVertical(lipgloss.Left,
				r.NewStyle().Bold(true).Render(f.Name),
				f.Value,
			),
		)

		if !f.Inline {
			flush()
			rows = append(rows, cell)

			continue
		}

		row = append(row, cell)
		if len(row) == fieldsPerRow {
			flush()
		}
	}

	flush()

	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

// renderFooter joins the footer text and timestamp.
func renderFooter(e *lang.Embed) string {
	var parts []string

	if f := e.Footer; f != nil && f.Text != "" {
		parts = append(parts, f.Text)
	}

	if e.Timestamp != nil {
		parts = append(parts, time.Unix(*e.Timestamp, 0).UTC().Format(time.RFC1123))
	}

	return strings.Join(parts, " • ")
}
