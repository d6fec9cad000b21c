package lang

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/fxamacker/cbor/v2"
	"github.com/goccy/go-yaml"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func exampleDocument(t *testing.T) *Document {
	t.Helper()

	doc, err := Compile(context.Background(), exampleEmbed)
	require.NoError(t, err)

	return doc
}

const exampleJSON = `{"content":"Release notes","embeds":[{"author":{"name":"vea",` +
	`"url":"https://example.com/vea"},"colour":16746496,"title":"v1.2.0",` +
	`"fields":[{"name":"Added","value":"#random","inline":true},` +
	`{"name":"Fixed","value":"escapes","inline":false}],"timestamp":1700000000}]}` + "\n"

func TestDocument_WriteJSON(t *testing.T) {
	doc := exampleDocument(t)

	var buf bytes.Buffer
	require.NoError(t, doc.Encode(context.Background(), &buf, EncodingJSON, 0))
	assert.Equal(t, exampleJSON, buf.String())

	buf.Reset()
	require.NoError(t, doc.WriteJSON(&buf, 2))
	assert.True(t, strings.HasPrefix(buf.String(), "{\n  \"content\": \"Release notes\","), buf.String())
}

func TestDocument_WriteJSON_Empty(t *testing.T) {
	doc, err := Compile(context.Background(), "")
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, doc.WriteJSON(&buf, 0))
	assert.Equal(t, `{"content":"","embeds":[]}`+"\n", buf.String())
}

func TestDocument_WriteYAML(t *testing.T) {
	doc := exampleDocument(t)

	for _, indent := range []int{0, 2, 4} {
		var buf bytes.Buffer
		require.NoError(t, doc.WriteYAML(context.Background(), &buf, indent))

		var got Document
		require.NoError(t, yaml.Unmarshal(buf.Bytes(), &got), buf.String())

		if diff := cmp.Diff(doc, &got); diff != "" {
			t.Errorf("indent %d: decoded YAML differs (-want +got):\n%s", indent, diff)
		}
	}
}

func TestDocument_WriteCBOR(t *testing.T) {
	doc := exampleDocument(t)

	var a, b bytes.Buffer
	require.NoError(t, doc.WriteCBOR(&a))
	require.NoError(t, exampleDocument(t).WriteCBOR(&b))
	assert.Equal(t, a.Bytes(), b.Bytes(), "canonical encoding is not stable")

	var got Document
	require.NoError(t, cbor.Unmarshal(a.Bytes(), &got))

	if diff := cmp.Diff(doc, &got); diff != "" {
		t.Errorf("decoded CBOR differs (-want +got):\n%s", diff)
	}
}

func TestDocument_WriteText(t *testing.T) {
	doc := exampleDocument(t)

	var buf bytes.Buffer
	require.NoError(t, doc.WriteText(context.Background(), &buf))

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "Content:\nRelease notes\n\nEmbeds:\n"), out)
	assert.Contains(t, out, "title: v1.2.0")
	assert.True(t, strings.HasSuffix(out, "\n"))
}

func TestDocument_WriteTable(t *testing.T) {
	doc := exampleDocument(t)

	var buf bytes.Buffer
	require.NoError(t, doc.Encode(context.Background(), &buf, EncodingTable, 0))

	out := buf.String()
	for _, s := range []string{
		"Embed", "Field", "Value", "content", "Release notes", "author.name",
		"#ff8800", "fields[0].name", "fields[1].inline", "1700000000",
	} {
		assert.Contains(t, out, s)
	}

	assert.NotContains(t, out, "image_url")
}

func TestParseEncoding(t *testing.T) {
	for _, name := range Encodings() {
		enc, err := ParseEncoding(strings.ToUpper(name))
		require.NoError(t, err)
		assert.Equal(t, name, enc.String())
	}

	_, err := ParseEncoding("xml")
	require.ErrorIs(t, err, ErrEncoding)
	assert.Equal(t, "Encoding(9)", Encoding(9).String())

	err = (&Document{}).Encode(context.Background(), &bytes.Buffer{}, Encoding(9), 0)
	require.ErrorIs(t, err, ErrEncoding)
}
