// Package sorter canonicalizes object key order in JSON values.
package sorter

import (
	"slices"
	"strings"

	"github.com/samber/lo"

	"github.com/mcncl/jsonfmt/internal/models"
)

// DeepSort returns a copy of v with every object's members ordered by key,
// at every nesting level. Keys compare by code point (byte order of their
// UTF-8 encoding), not by locale. Parsing never yields repeated keys; in a
// built object that repeats one, the members keep their relative order.
// Arrays keep their element order. v is not modified.
func DeepSort(v models.Value) models.Value {
	switch v.Kind {
	case models.KindArray:
		return models.Array(lo.Map(v.Items, func(item models.Value, _ int) models.Value {
			return DeepSort(item)
		})...)
	case models.KindObject:
		members := lo.Map(v.Members, func(m models.Member, _ int) models.Member {
			return models.Member{Key: m.Key, Value: DeepSort(m.Value)}
		})
		slices.SortStableFunc(members, func(a, b models.Member) int {
			return strings.Compare(a.Key, b.Key)
		})
		return models.Object(members...)
	default:
		return v
	}
}

// IsSorted reports whether every object in v, at any depth, has its keys in
// non-decreasing code point order.
func IsSorted(v models.Value) bool {
	switch v.Kind {
	case models.KindArray:
		return lo.EveryBy(v.Items, IsSorted)
	case models.KindObject:
		keys := v.Keys()
		if !slices.IsSorted(keys) {
			return false
		}
		return lo.EveryBy(v.Members, func(m models.Member) bool {
			return IsSorted(m.Value)
		})
	default:
		return true
	}
}
