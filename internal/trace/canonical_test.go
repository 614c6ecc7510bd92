package trace

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshal_SortedKeysNoSpaces(t *testing.T) {
	out, err := Marshal(map[string]any{
		"b": int64(2),
		"a": []any{"x", true, 3},
		"c": map[string]any{"z": false, "y": "v"},
	})
	require.NoError(t, err)
	assert.Equal(t, `{"a":["x",true,3],"b":2,"c":{"y":"v","z":false}}`, string(out))
}

func TestMarshal_NoHTMLEscaping(t *testing.T) {
	out, err := Marshal("<a & b>")
	require.NoError(t, err)
	assert.Equal(t, `"<a & b>"`, string(out))
}

func TestMarshal_NFC(t *testing.T) {
	// "e" followed by a combining acute accent normalizes to U+00E9.
	out, err := Marshal("cafe\u0301")
	require.NoError(t, err)
	assert.Equal(t, "\"caf\u00e9\"", string(out))
}

func TestMarshal_LineSeparators(t *testing.T) {
	out, err := Marshal("a\u2028b\u2029c")
	require.NoError(t, err)
	assert.Equal(t, "\"a\u2028b\u2029c\"", string(out))

	out, err = Marshal(`literal \u2028`)
	require.NoError(t, err)
	assert.Equal(t, `"literal \\u2028"`, string(out), "escaped backslash stays escaped")
}

func TestMarshal_UTF16KeyOrder(t *testing.T) {
	// U+1F600 encodes as a surrogate pair starting 0xD83D, which sorts
	// before U+FF21 in UTF-16 but after it in UTF-8.
	out, err := Marshal(map[string]any{"\uFF21": 1, "\U0001F600": 2})
	require.NoError(t, err)
	assert.Equal(t, "{\"\U0001F600\":2,\"\uFF21\":1}", string(out))
}

func TestMarshal_Rejects(t *testing.T) {
	_, err := Marshal(nil)
	assert.ErrorContains(t, err, "null")

	_, err = Marshal(map[string]any{"t": 1.5})
	assert.ErrorContains(t, err, "floats are forbidden")

	_, err = Marshal(struct{}{})
	assert.ErrorContains(t, err, "unsupported type")
}
