package examples

import (
	stderrors "errors"
	"strings"
	"testing"

	"github.com/mcncl/jsonfmt/internal/errors"
	"github.com/mcncl/jsonfmt/internal/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNames(t *testing.T) {
	assert.Equal(t, []string{"big", "greeting", "nested", "small"}, Names())
}

func TestGet_AllExamplesAreValidJSON(t *testing.T) {
	for _, name := range Names() {
		t.Run(name, func(t *testing.T) {
			text, err := Get(name)
			require.NoError(t, err)
			res := parser.Parse(text)
			assert.True(t, res.OK(), res.Message())
		})
	}
}

func TestGet_Big(t *testing.T) {
	text, err := Get("big")
	require.NoError(t, err)

	res := parser.Parse(text)
	require.True(t, res.OK(), res.Message())

	created, ok := res.Value().Get("created")
	require.True(t, ok)
	assert.Equal(t, BigCreated, created.Str)

	items, ok := res.Value().Get("items")
	require.True(t, ok)
	require.Len(t, items.Items, 30)

	last := items.Items[29]
	name, _ := last.Get("name")
	assert.Equal(t, "item-30", name.Str)
	even, _ := last.Get("even")
	assert.True(t, even.Bool)

	assert.True(t, strings.HasPrefix(text, "{\n  \"created\""))

	again, err := Get("big")
	require.NoError(t, err)
	assert.Equal(t, text, again)
}

func TestGet_Unknown(t *testing.T) {
	_, err := Get("huge")
	require.Error(t, err)
	assert.True(t, stderrors.Is(err, errors.ErrUnknownExample))
	assert.Contains(t, err.Error(), `"huge"`)
	assert.Contains(t, err.Error(), "small")
}
