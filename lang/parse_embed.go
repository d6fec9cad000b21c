package lang

// parseLeaf parses a string-valued leaf and wraps it with mk.
func parseLeaf[C any](p *parser, pos Position, mk func(string, Position) C) (C, error) {
	s, err := p.parseString()
	if err != nil {
		var zero C

		return zero, err
	}

	return mk(s, pos), nil
}

// parseEmbed parses the body of an #embed block.
func (p *parser) parseEmbed(pos Position) (*EmbedBlock, error) {
	block := &EmbedBlock{Components: make([]EmbedComponent, 0), Pos: pos}

	err := p.parseBlock(embedScope, func(tag string, pos Position) error {
		c, err := p.parseEmbedComponent(tag, pos)
		if err != nil {
			return err
		}

		block.Components = append(block.Components, c)

		return nil
	})
	if err != nil {
		return nil, err
	}

	return block, nil
}

func (p *parser) parseEmbedComponent(tag string, pos Position) (EmbedComponent, error) {
	switch tag {
	case tagTitle:
		return parseLeaf(p, pos, func(s string, pos Position) EmbedComponent {
			return &Title{Value: s, Pos: pos}
		})
	case tagDescription:
		return parseLeaf(p, pos, func(s string, pos Position) EmbedComponent {
			return &Description{Value: s, Pos: pos}
		})
	case tagURL:
		return parseLeaf(p, pos, func(s string, pos Position) EmbedComponent {
			return &URL{Value: s, Pos: pos}
		})
	case tagImage:
		return parseLeaf(p, pos, func(s string, pos Position) EmbedComponent {
			return &Image{Value: s, Pos: pos}
		})
	case tagThumbnail:
		return parseLeaf(p, pos, func(s string, pos Position) EmbedComponent {
			return &Thumbnail{Value: s, Pos: pos}
		})

	case tagColour:
		v, err := p.parseColour()
		if err != nil {
			return nil, err
		}

		return &Colour{Value: v, Pos: pos}, nil

	case tagTimestamp:
		v, err := p.parseInt(64)
		if err != nil {
			return nil, err
		}

		return &Timestamp{Value: v, Pos: pos}, nil

	case tagAuthor:
		return p.parseAuthor(pos)
	case tagFooter:
		return p.parseFooter(pos)
	default: // tagFields
		return p.parseFields(pos)
	}
}

func (p *parser) parseAuthor(pos Position) (*AuthorBlock, error) {
	block := &AuthorBlock{Components: make([]AuthorComponent, 0), Pos: pos}

	err := p.parseBlock(authorScope, func(tag string, pos Position) error {
		c, err := parseLeaf(p, pos, func(s string, pos Position) AuthorComponent {
			switch tag {
			case tagName:
				return &AuthorName{Value: s, Pos: pos}
			case tagURL:
				return &AuthorURL{Value: s, Pos: pos}
			default:
				return &AuthorIconURL{Value: s, Pos: pos}
			}
		})
		if err != nil {
			return err
		}

		block.Components = append(block.Components, c)

		return nil
	})
	if err != nil {
		return nil, err
	}

	return block, nil
}

func (p *parser) parseFooter(pos Position) (*FooterBlock, error) {
	block := &FooterBlock{Components: make([]FooterComponent, 0), Pos: pos}

	err := p.parseBlock(footerScope, func(tag string, pos Position) error {
		c, err := parseLeaf(p, pos, func(s string, pos Position) FooterComponent {
			if tag == tagText {
				return &FooterText{Value: s, Pos: pos}
			}

			return &FooterIconURL{Value: s, Pos: pos}
		})
		if err != nil {
			return err
		}

		block.Components = append(block.Components, c)

		return nil
	})
	if err != nil {
		return nil, err
	}

	return block, nil
}

func (p *parser) parseFields(pos Position) (*FieldsBlock, error) {
	block := &FieldsBlock{Fields: make([]*FieldBlock, 0), Pos: pos}

	err := p.parseBlock(fieldsScope, func(_ string, pos Position) error {
		f, err := p.parseField(pos)
		if err != nil {
			return err
		}

		block.Fields = append(block.Fields, f)

		return nil
	})
	if err != nil {
		return nil, err
	}

	return block, nil
}

func (p *parser) parseField(pos Position) (*FieldBlock, error) {
	block := &FieldBlock{Components: make([]FieldComponent, 0), Pos: pos}

	err := p.parseBlock(fieldScope, func(tag string, pos Position) error {
		var (
			c   FieldComponent
			err error
		)

		switch tag {
		case tagName:
			c, err = parseLeaf(p, pos, func(s string, pos Position) FieldComponent {
				return &FieldName{Value: s, Pos: pos}
			})
		case tagValue:
			c, err = parseLeaf(p, pos, func(s string, pos Position) FieldComponent {
				return &FieldValue{Value: s, Pos: pos}
			})
		default: // tagInline
			var v bool

			v, err = p.parseBool()
			c = &FieldInline{Value: v, Pos: pos}
		}

		if err != nil {
			return err
		}

		block.Components = append(block.Components, c)

		return nil
	})
	if err != nil {
		return nil, err
	}

	return block, nil
}
