package lang

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"slices"
	"strconv"
	"strings"

	"github.com/fxamacker/cbor/v2"
	"github.com/goccy/go-yaml"
	"github.com/olekukonko/tablewriter"
)

// Encoding selects how a [Document] is written.
type Encoding int

const (
	EncodingText Encoding = iota
	EncodingJSON
	EncodingYAML
	EncodingCBOR
	EncodingTable
)

var encodingNames = [...]string{
	EncodingText:  "text",
	EncodingJSON:  "json",
	EncodingYAML:  "yaml",
	EncodingCBOR:  "cbor",
	EncodingTable: "table",
}

// Encodings returns the names accepted by [ParseEncoding].
func Encodings() []string { return slices.Clone(encodingNames[:]) }

func (e Encoding) String() string {
	if e >= 0 && int(e) < len(encodingNames) {
		return encodingNames[e]
	}

	return "Encoding(" + strconv.Itoa(int(e)) + ")"
}

// ParseEncoding returns the encoding with the given name.
func ParseEncoding(name string) (Encoding, error) {
	for i, n := range encodingNames {
		if strings.EqualFold(n, name) {
			return Encoding(i), nil
		}
	}

	return 0, ErrEncoding.With(slog.String("encoding", name))
}

// Encode writes d to w using enc. indent is the number of spaces per level
// for JSON and YAML; zero selects the compact form.
func (d *Document) Encode(ctx context.Context, w io.Writer, enc Encoding, indent int) error {
	switch enc {
	case EncodingText:
		return d.WriteText(ctx, w)
	case EncodingJSON:
		return d.WriteJSON(w, indent)
	case EncodingYAML:
		return d.WriteYAML(ctx, w, indent)
	case EncodingCBOR:
		return d.WriteCBOR(w)
	case EncodingTable:
		return d.WriteTable(w)
	default:
		return ErrEncoding.With(slog.String("encoding", enc.String()))
	}
}

// WriteText writes the content followed by the embeds in block YAML:
//
//	Content:
//	<content>
//
//	Embeds:
//	<embeds>
func (d *Document) WriteText(ctx context.Context, w io.Writer) error {
	embeds, err := yaml.MarshalContext(ctx, d.Embeds, yaml.Indent(2))
	if err != nil {
		return err
	}

	var b strings.Builder

	b.WriteString("Content:\n")
	b.WriteString(d.Content)
	b.WriteString("\n\nEmbeds:\n")
	b.Write(embeds)

	if !strings.HasSuffix(b.String(), "\n") {
		b.WriteByte('\n')
	}

	_, err = io.WriteString(w, b.String())

	return err
}

// WriteJSON writes d as JSON followed by a newline.
func (d *Document) WriteJSON(w io.Writer, indent int) error {
	var (
		data []byte
		err  error
	)

	if indent > 0 {
		data, err = json.MarshalIndent(d, "", strings.Repeat(" ", indent))
	} else {
		data, err = json.Marshal(d)
	}

	if err != nil {
		return err
	}

	_, err = w.Write(append(data, '\n'))

	return err
}

// WriteYAML writes d as YAML, in flow style if indent is zero.
func (d *Document) WriteYAML(ctx context.Context, w io.Writer, indent int) error {
	var opts []yaml.EncodeOption
	if indent > 0 {
		opts = append(opts, yaml.Indent(indent))
	} else {
		opts = append(opts, yaml.Flow(true))
	}

	data, err := yaml.MarshalContext(ctx, d, opts...)
	if err != nil {
		return err
	}

	_, err = w.Write(data)

	return err
}

// WriteCBOR writes d in canonical CBOR, so equal documents encode to equal
// bytes.
func (d *Document) WriteCBOR(w io.Writer) error {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		return err
	}

	data, err := em.Marshal(d)
	if err != nil {
		return err
	}

	_, err = w.Write(data)

	return err
}

// WriteTable writes d as a text table with one row per set value.
func (d *Document) WriteTable(w io.Writer) error {
	t := tablewriter.NewWriter(w)
	t.SetHeader([]string{"Embed", "Field", "Value"})
	t.SetAutoWrapText(false)
	t.SetAutoFormatHeaders(false)

	t.Append([]string{"", "content", d.Content})

	for i, e := range d.Embeds {
		for _, row := range e.rows() {
			t.Append(append([]string{strconv.Itoa(i)}, row...))
		}
	}

	t.Render()

	return nil
}

// rows lists the set values of e as field/value pairs.
func (e *Embed) rows() [][]string {
	var rows [][]string

	add := func(k, v string) {
		if v != "" {
			rows = append(rows, []string{k, v})
		}
	}

	if e.Author != nil {
		add("author.name", e.Author.Name)
		add("author.url", e.Author.URL)
		add("author.icon_url", e.Author.IconURL)
	}

	add(tagTitle, e.Title)
	add(tagURL, e.URL)
	add(tagDescription, e.Description)
	add(tagColour, "#"+hex6(e.Colour))

	for i, f := range e.Fields {
		prefix := "fields[" + strconv.Itoa(i) + "]."
		add(prefix+tagName, f.Name)
		add(prefix+tagValue, f.Value)
		add(prefix+tagInline, strconv.FormatBool(f.Inline))
	}

	add("image_url", e.Image)
	add("thumbnail_url", e.Thumbnail)

	if e.Footer != nil {
		add("footer.text", e.Footer.Text)
		add("footer.icon_url", e.Footer.IconURL)
	}

	if e.Timestamp != nil {
		add(tagTimestamp, strconv.FormatInt(*e.Timestamp, 10))
	}

	return rows
}
