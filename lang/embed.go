package lang

import "unicode/utf8"

// Limits enforced when building an embed. Lengths count Unicode code
// points.
const (
	MaxTitleLength       = 256
	MaxDescriptionLength = 4096
	MaxFields            = 25
	MaxFieldNameLength   = 256
	MaxFieldValueLength  = 1024
	MaxFooterTextLength  = 2048
	MaxAuthorNameLength  = 256
	MaxTotalLength       = 6000
	MaxColour            = 0xFFFFFF
	MaxTimestamp         = 253402300799 // 9999-12-31T23:59:59Z
)

// Document is the result of evaluating a script.
type Document struct {
	Content string   `json:"content" yaml:"content"`
	Embeds  []*Embed `json:"embeds" yaml:"embeds"`
}

// Embed is a validated rich message attachment. Unset optional strings
// are empty.
type Embed struct {
	Author      *Author `json:"author,omitempty" yaml:"author,omitempty"`
	Colour      int32   `json:"colour" yaml:"colour"`
	Title       string  `json:"title,omitempty" yaml:"title,omitempty"`
	URL         string  `json:"url,omitempty" yaml:"url,omitempty"`
	Description string  `json:"description,omitempty" yaml:"description,omitempty"`
	Fields      []Field `json:"fields" yaml:"fields"`
	Image       string  `json:"image_url,omitempty" yaml:"image_url,omitempty"`
	Thumbnail   string  `json:"thumbnail_url,omitempty" yaml:"thumbnail_url,omitempty"`
	Footer      *Footer `json:"footer,omitempty" yaml:"footer,omitempty"`
	Timestamp   *int64  `json:"timestamp,omitempty" yaml:"timestamp,omitempty"`
}

// Author identifies who wrote an embed.
type Author struct {
	Name    string `json:"name" yaml:"name"`
	URL     string `json:"url,omitempty" yaml:"url,omitempty"`
	IconURL string `json:"icon_url,omitempty" yaml:"icon_url,omitempty"`
}

// Footer is the small print at the bottom of an embed.
type Footer struct {
	Text    string `json:"text,omitempty" yaml:"text,omitempty"`
	IconURL string `json:"icon_url,omitempty" yaml:"icon_url,omitempty"`
}

// Field is one name/value entry of an embed.
type Field struct {
	Name   string `json:"name" yaml:"name"`
	Value  string `json:"value" yaml:"value"`
	Inline bool   `json:"inline" yaml:"inline"`
}

// TotalLength returns the number of code points counted against
// [MaxTotalLength]: title, description, every field name and value, footer
// text, and author name.
func (e *Embed) TotalLength() int {
	n := utf8.RuneCountInString(e.Title) +
		utf8.RuneCountInString(e.Description)

	for _, f := range e.Fields {
		n += utf8.RuneCountInString(f.Name) + utf8.RuneCountInString(f.Value)
	}

	if e.Footer != nil {
		n += utf8.RuneCountInString(e.Footer.Text)
	}

	if e.Author != nil {
		n += utf8.RuneCountInString(e.Author.Name)
	}

	return n
}

// Block converts e back into an embed block. Building the result yields a
// record equal to e. A zero colour is omitted since it is the default.
func (e *Embed) Block() *EmbedBlock {
	b := &EmbedBlock{Components: make([]EmbedComponent, 0)}
	add := func(c EmbedComponent) { b.Components = append(b.Components, c) }

	if a := e.Author; a != nil {
		ab := &AuthorBlock{Components: []AuthorComponent{&AuthorName{Value: a.Name}}}
		if a.URL != "" {
			ab.Components = append(ab.Components, &AuthorURL{Value: a.URL})
		}

		if a.IconURL != "" {
			ab.Components = append(ab.Components, &AuthorIconURL{Value: a.IconURL})
		}

		add(ab)
	}

	if e.Title != "" {
		add(&Title{Value: e.Title})
	}

	if e.URL != "" {
		add(&URL{Value: e.URL})
	}

	if e.Description != "" {
		add(&Description{Value: e.Description})
	}

	if e.Colour != 0 {
		add(&Colour{Value: e.Colour})
	}

	if len(e.Fields) > 0 {
		fb := &FieldsBlock{Fields: make([]*FieldBlock, 0, len(e.Fields))}
		for _, f := range e.Fields {
			fb.Fields = append(fb.Fields, &FieldBlock{Components: []FieldComponent{
				&FieldName{Value: f.Name},
				&FieldValue{Value: f.Value},
				&FieldInline{Value: f.Inline},
			}})
		}

		add(fb)
	}

	if e.Image != "" {
		add(&Image{Value: e.Image})
	}

	if e.Thumbnail != "" {
		add(&Thumbnail{Value: e.Thumbnail})
	}

	if f := e.Footer; f != nil {
		fb := &FooterBlock{Components: make([]FooterComponent, 0, 2)}
		if f.Text != "" {
			fb.Components = append(fb.Components, &FooterText{Value: f.Text})
		}

		if f.IconURL != "" {
			fb.Components = append(fb.Components, &FooterIconURL{Value: f.IconURL})
		}

		add(fb)
	}

	if e.Timestamp != nil {
		add(&Timestamp{Value: *e.Timestamp})
	}

	return b
}
