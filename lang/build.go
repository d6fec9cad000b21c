package lang

import (
	"context"
	"log/slog"
	"net/url"
	"strconv"
	"unicode/utf8"
)

// set records which singular embed fields have been assigned.
type set uint16

const (
	setAuthor set = 1 << iota
	setTitle
	setDescription
	setColour
	setURL
	setImage
	setThumbnail
	setFooter
	setTimestamp
)

// BuildEmbed folds the components of block, in order, into a validated
// [Embed]. The first rule violation is returned as a *[BuildError] and no
// embed is produced.
func BuildEmbed(block *EmbedBlock) (*Embed, error) {
	return buildEmbed(context.Background(), block, makeOptions())
}

func buildEmbed(ctx context.Context, block *EmbedBlock, o options) (*Embed, error) {
	e := &Embed{Fields: make([]Field, 0)}

	var done set

	// once fails if flag was already assigned and otherwise marks it.
	once := func(flag set, pos Position, field, reason string) error {
		if done&flag != 0 {
			return &BuildError{Field: field, Reason: reason, Pos: pos}
		}

		done |= flag

		return nil
	}

	for _, c := range block.Components {
		var err error

		switch c := c.(type) {
		case *AuthorBlock:
			if err = once(setAuthor, c.Pos, tagAuthor, dupEmbed(tagAuthor)); err == nil {
				e.Author, err = buildAuthor(c)
			}

		case *Title:
			if err = once(setTitle, c.Pos, tagTitle, dupEmbed(tagTitle)); err == nil {
				err = checkLength(c.Pos, tagTitle, "title", c.Value, MaxTitleLength)
				e.Title = c.Value
			}

		case *Description:
			if err = once(setDescription, c.Pos, tagDescription, dupEmbed(tagDescription)); err == nil {
				err = checkLength(c.Pos, tagDescription, "description", c.Value, MaxDescriptionLength)
				e.Description = c.Value
			}

		case *Colour:
			if err = once(setColour, c.Pos, tagColour,
				"You can only set the colour for an embed once."); err == nil {
				err = checkColour(c)
				e.Colour = c.Value
			}

		case *URL:
			if err = once(setURL, c.Pos, tagURL, dupEmbed(tagURL)); err == nil {
				err = checkURL(c.Pos, tagURL, tagURL, c.Value)
				e.URL = c.Value
			}

		case *Image:
			if err = once(setImage, c.Pos, tagImage, dupEmbed(tagImage)); err == nil {
				err = checkURL(c.Pos, tagImage, tagImage, c.Value)
				e.Image = c.Value
			}

		case *Thumbnail:
			if err = once(setThumbnail, c.Pos, tagThumbnail, dupEmbed(tagThumbnail)); err == nil {
				err = checkURL(c.Pos, tagThumbnail, tagThumbnail, c.Value)
				e.Thumbnail = c.Value
			}

		case *FooterBlock:
			if err = once(setFooter, c.Pos, tagFooter, dupEmbed(tagFooter)); err == nil {
				e.Footer, err = buildFooter(c)
			}

		case *Timestamp:
			if err = once(setTimestamp, c.Pos, tagTimestamp, dupEmbed(tagTimestamp)); err == nil {
				ts := c.Value
				err = checkTimestamp(c)
				e.Timestamp = &ts
			}

		case *FieldsBlock:
			if n := len(e.Fields) + len(c.Fields); n > MaxFields {
				err = &BuildError{
					Field: tagFields,
					Reason: "You can only have up to " + strconv.Itoa(MaxFields) +
						" fields in an embed (" + strconv.Itoa(n) + " provided).",
					Pos: c.Pos,
				}

				break
			}

			for _, fb := range c.Fields {
				o.logger.TraceContext(ctx, "build field",
					slog.String("at", fb.Pos.String()),
					slog.Any("components", fb.Components),
				)

				var f Field
				if f, err = buildField(fb); err != nil {
					break
				}

				e.Fields = append(e.Fields, f)
			}
		}

		if err != nil {
			return nil, err
		}
	}

	if n := e.TotalLength(); n > MaxTotalLength {
		return nil, &BuildError{
			Field: tagEmbed,
			Reason: "The total length of your embed (" + strconv.Itoa(n) +
				") is above the maximum of " + strconv.Itoa(MaxTotalLength) +
				" characters.",
			Pos: block.Pos,
		}
	}

	return e, nil
}

func buildAuthor(block *AuthorBlock) (*Author, error) {
	a := new(Author)

	var name, link, icon bool

	for _, c := range block.Components {
		switch c := c.(type) {
		case *AuthorName:
			if name {
				return nil, dupIn(c.Pos, "author.name", "name", "embed author")
			}

			name = true

			if err := checkLength(c.Pos, "author.name", "author name",
				c.Value, MaxAuthorNameLength); err != nil {
				return nil, err
			}

			a.Name = c.Value

		case *AuthorURL:
			if link {
				return nil, dupIn(c.Pos, "author.url", "url", "embed author")
			}

			link = true

			if err := checkURL(c.Pos, "author.url", "author url", c.Value); err != nil {
				return nil, err
			}

			a.URL = c.Value

		case *AuthorIconURL:
			if icon {
				return nil, dupIn(c.Pos, "author.icon_url", "icon url", "embed author")
			}

			icon = true

			if err := checkURL(c.Pos, "author.icon_url", "author icon url", c.Value); err != nil {
				return nil, err
			}

			a.IconURL = c.Value
		}
	}

	if a.Name == "" {
		return nil, &BuildError{
			Field:  "author.name",
			Reason: "An embed author must have a name.",
			Pos:    block.Pos,
		}
	}

	return a, nil
}

func buildFooter(block *FooterBlock) (*Footer, error) {
	f := new(Footer)

	var text, icon bool

	for _, c := range block.Components {
		switch c := c.(type) {
		case *FooterText:
			if text {
				return nil, dupIn(c.Pos, "footer.text", "text", "embed footer")
			}

			text = true

			if err := checkLength(c.Pos, "footer.text", "footer text",
				c.Value, MaxFooterTextLength); err != nil {
				return nil, err
			}

			f.Text = c.Value

		case *FooterIconURL:
			if icon {
				return nil, dupIn(c.Pos, "footer.icon_url", "icon url", "embed footer")
			}

			icon = true

			if err := checkURL(c.Pos, "footer.icon_url", "footer icon url", c.Value); err != nil {
				return nil, err
			}

			f.IconURL = c.Value
		}
	}

	if f.Text == "" && f.IconURL == "" {
		return nil, &BuildError{
			Field:  "footer",
			Reason: "An embed footer must have text or an icon url.",
			Pos:    block.Pos,
		}
	}

	return f, nil
}

func buildField(block *FieldBlock) (Field, error) {
	var (
		f                   Field
		name, value, inline bool
	)

	for _, c := range block.Components {
		switch c := c.(type) {
		case *FieldName:
			if name {
				return f, dupIn(c.Pos, "fields.name", "name", "embed field")
			}

			name = true

			if err := checkLength(c.Pos, "fields.name", "field name",
				c.Value, MaxFieldNameLength); err != nil {
				return f, err
			}

			f.Name = c.Value

		case *FieldValue:
			if value {
				return f, dupIn(c.Pos, "fields.value", "value", "embed field")
			}

			value = true

			if err := checkLength(c.Pos, "fields.value", "field value",
				c.Value, MaxFieldValueLength); err != nil {
				return f, err
			}

			f.Value = c.Value

		case *FieldInline:
			if inline {
				return f, dupIn(c.Pos, "fields.inline", "inline setting", "embed field")
			}

			inline = true
			f.Inline = c.Value
		}
	}

	switch {
	case f.Name == "":
		return f, &BuildError{
			Field:  "fields.name",
			Reason: "An embed field must have a name.",
			Pos:    block.Pos,
		}
	case f.Value == "":
		return f, &BuildError{
			Field:  "fields.value",
			Reason: "An embed field must have a value.",
			Pos:    block.Pos,
		}
	}

	return f, nil
}

func dupEmbed(what string) string {
	return "You can only have one " + what + " for an embed."
}

func dupIn(pos Position, field, what, in string) *BuildError {
	return &BuildError{
		Field:  field,
		Reason: "You can only have one " + what + " for an " + in + ".",
		Pos:    pos,
	}
}

// checkLength enforces limit on the code point length of s. label names
// the value in the message.
func checkLength(pos Position, field, label, s string, limit int) error {
	if n := utf8.RuneCountInString(s); n > limit {
		return &BuildError{
			Field: field,
			Reason: "The length of your " + label + " (" + strconv.Itoa(n) +
				") is above the maximum of " + strconv.Itoa(limit) + " characters.",
			Pos: pos,
		}
	}

	return nil
}

func checkColour(c *Colour) error {
	if c.Value > MaxColour {
		return &BuildError{
			Field: tagColour,
			Reason: "Your colour value (#" + hex6(c.Value) +
				") is greater than the limit of #FFFFFF.",
			Pos: c.Pos,
		}
	}

	return nil
}

func checkTimestamp(c *Timestamp) error {
	var reason string

	switch n := strconv.FormatInt(c.Value, 10); {
	case c.Value < 0:
		reason = "Your timestamp (" + n + ") cannot be negative."
	case c.Value > MaxTimestamp:
		reason = "Your timestamp (" + n + ") is above the maximum of " +
			strconv.FormatInt(MaxTimestamp, 10) + "."
	default:
		return nil
	}

	return &BuildError{Field: tagTimestamp, Reason: reason, Pos: c.Pos}
}

// checkURL accepts absolute URLs with a host, and opaque URIs such as
// "attachment:image.png".
func checkURL(pos Position, field, label, s string) error {
	u, err := url.Parse(s)
	if err == nil && u.IsAbs() && (u.Host != "" || u.Opaque != "") {
		return nil
	}

	return &BuildError{
		Field:  field,
		Reason: "Invalid URL provided for " + label + ": " + s + ".",
		Pos:    pos,
	}
}
