// Package examples holds the built-in sample documents that can be loaded
// instead of reading input.
package examples

import (
	"encoding/json"
	"fmt"
	"slices"
	"strconv"

	"github.com/samber/lo"

	"github.com/mcncl/jsonfmt/internal/errors"
	"github.com/mcncl/jsonfmt/internal/models"
	"github.com/mcncl/jsonfmt/internal/serializer"
)

// BigCreated is the fixed timestamp stamped on the "big" example so its
// output is reproducible.
const BigCreated = "2024-01-01T00:00:00.000Z"

const bigItemCount = 30

var presets = map[string]func() string{
	"small": func() string {
		return `{"name":"Jane","age":28,"tags":["a","b"]}`
	},
	"nested": func() string {
		return `{"users":[{"id":1,"name":"A"},{"id":2,"name":"B","meta":{"active":true}}],"count":2}`
	},
	"big": big,
	"greeting": func() string {
		return `{
  "greeting": "Hello",
  "items": [
    { "id": 1, "name": "apples" },
    { "id": 2, "name": "oranges" }
  ]
}`
	},
}

// Names returns the available example names in sorted order
func Names() []string {
	names := lo.Keys(presets)
	slices.Sort(names)
	return names
}

// Get returns the text of the named example
func Get(name string) (string, error) {
	build, ok := presets[name]
	if !ok {
		return "", fmt.Errorf("%w %q (available: %v)", errors.ErrUnknownExample, name, Names())
	}
	return build(), nil
}

// big builds a document with a timestamp and thirty small records
func big() string {
	items := lo.Times(bigItemCount, func(i int) models.Value {
		id := i + 1
		return models.Object(
			models.Member{Key: "id", Value: models.Number(json.Number(strconv.Itoa(id)))},
			models.Member{Key: "name", Value: models.String(fmt.Sprintf("item-%d", id))},
			models.Member{Key: "even", Value: models.Bool(id%2 == 0)},
		)
	})
	doc := models.Object(
		models.Member{Key: "created", Value: models.String(BigCreated)},
		models.Member{Key: "items", Value: models.Array(items...)},
	)
	// Values built here are always representable
	out, _ := serializer.Pretty(doc, models.Spaces(2))
	return out
}
