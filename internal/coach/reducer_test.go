package coach

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func collect(t *testing.T, stream string) []string {
	t.Helper()

	var out []string
	require.NoError(t, reduce(strings.NewReader(stream), func(d string) {
		out = append(out, d)
	}))

	return out
}

func TestReduce_CumulativeStream(t *testing.T) {
	stream := "data: {\"content\":\"Hel\"}\n" +
		"data: {\"content\":\"Hello\"}\n" +
		"data: [DONE]\n"

	deltas := collect(t, stream)
	assert.Equal(t, []string{"Hel", "Hello"}, deltas)

	msg := ""
	for _, d := range deltas {
		msg = merge(msg, d)
	}
	// cumulative chunks replace, they do not concatenate
	assert.Equal(t, "Hello", msg)
}

func TestReduce_DeltaStream(t *testing.T) {
	stream := "data: {\"content\":\"Hel\"}\n" +
		"data: {\"content\":\"lo there\"}\n" +
		"data: [DONE]\n"

	msg := ""
	for _, d := range collect(t, stream) {
		msg = merge(msg, d)
	}
	assert.Equal(t, "Hello there", msg)
}

func TestReduce_SkipsNoise(t *testing.T) {
	stream := ": keep-alive\n" +
		"event: message\n" +
		"data:\n" +
		"data:    \n" +
		"data: {\"content\":\"hi\"}\n" +
		"random garbage\n" +
		"data: [DONE]\n" +
		"data: {\"content\":\"after done\"}\n"

	// nothing after the sentinel is emitted
	assert.Equal(t, []string{"hi"}, collect(t, stream))
}

func TestReduce_MalformedLineFallsBackToRawText(t *testing.T) {
	stream := "data: {\"content\": oops\n" +
		"data: {\"content\":\"ok\"}\n"

	assert.Equal(t, []string{"{\"content\": oops", "ok"}, collect(t, stream))
}

func TestExtractDelta(t *testing.T) {
	tt := []struct {
		name    string
		payload string

		exp string
	}{
		{
			name:    "string root",
			payload: `"plain"`,
			exp:     "plain",
		},
		{
			name:    "content field",
			payload: `{"content":"a"}`,
			exp:     "a",
		},
		{
			name:    "priority order",
			payload: `{"token":"t","text":"x"}`,
			exp:     "x",
		},
		{
			name:    "message field",
			payload: `{"message":"m"}`,
			exp:     "m",
		},
		{
			name:    "answer field",
			payload: `{"answer":"a"}`,
			exp:     "a",
		},
		{
			name:    "nested data",
			payload: `{"data":{"token":"t"}}`,
			exp:     "t",
		},
		{
			name:    "numeric primitive",
			payload: `{"token":42}`,
			exp:     "42",
		},
		{
			name:    "no known field",
			payload: `{"foo":"bar"}`,
			exp:     `{"foo":"bar"}`,
		},
		{
			name:    "array root",
			payload: `[1,2]`,
			exp:     `[1,2]`,
		},
		{
			name:    "not json",
			payload: `hello`,
			exp:     `hello`,
		},
	}

	for i := range tt {
		tc := tt[i]

		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.exp, extractDelta(tc.payload))
		})
	}
}

func TestMerge(t *testing.T) {
	assert.Equal(t, "abc", merge("", "abc"))
	assert.Equal(t, "abcdef", merge("abc", "def"))
	assert.Equal(t, "abcdef", merge("abc", "abcdef"))
	assert.Equal(t, "abc", merge("abc", "abc"))
}
