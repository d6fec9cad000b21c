package lang

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchema_IsJSON(t *testing.T) {
	var v map[string]any
	require.NoError(t, json.Unmarshal(Schema(), &v))
	assert.Equal(t, "schema://document.json", v["$id"])

	// Schema returns a copy.
	s := Schema()
	s[0] = 'x'
	assert.Equal(t, byte('{'), Schema()[0])
}

func TestValidateDocument(t *testing.T) {
	require.NoError(t, ValidateDocument(exampleDocument(t)))
	require.NoError(t, ValidateDocument(&Document{Embeds: []*Embed{}}))
}

func TestValidateJSON(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		target error
	}{
		{"valid", exampleJSON, nil},
		{"not json", `{"content":`, ErrReadInput},
		{"missing embeds", `{"content":""}`, ErrSchema},
		{"extra property", `{"content":"","embeds":[],"x":1}`, ErrSchema},
		{"colour too large", `{"content":"","embeds":[{"colour":16777216,"fields":[]}]}`, ErrSchema},
		{"relative url", `{"content":"","embeds":[{"colour":0,"fields":[],"url":"/a"}]}`, ErrSchema},
		{"title too long", `{"content":"","embeds":[{"colour":0,"fields":[],"title":"` +
			strings.Repeat("x", MaxTitleLength+1) + `"}]}`, ErrSchema},
		{"empty field name", `{"content":"","embeds":[{"colour":0,"fields":[` +
			`{"name":"","value":"v","inline":false}]}]}`, ErrSchema},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateJSON(strings.NewReader(tt.input))
			if tt.target == nil {
				assert.NoError(t, err)

				return
			}

			assert.ErrorIs(t, err, tt.target)
		})
	}
}
