package listdata

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"golang.org/x/text/collate"

	"github.com/listkit/listkit/internal/pager"
	"github.com/listkit/listkit/internal/sortspec"
)

// ErrMissingValueFunc is returned when sorting or key-field lookup is
// requested without a column value function.
var ErrMissingValueFunc = errors.New("column value function is required")

// ValueFunc extracts the value of a named column from an item.
type ValueFunc[T any] func(item T, column string) any

// Query carries the request-level inputs for one page evaluation.
type Query struct {
	// Sort is the raw sort parameter, e.g. "age,-name".
	Sort string

	// Page is the requested zero-based page.
	Page int

	// Limit is the requested page size (0 means the calculator default).
	Limit int

	// Desc requests descending page order for pager navigation
	// (newest-first UIs). It does not affect item order.
	Desc bool
}

// Page is one served page of a collection.
type Page[T any] struct {
	// Items are the items of the current page, in sorted order.
	Items []T

	// Keys are per-item identifiers parallel to Items.
	Keys []string

	// TotalCount is the pre-pagination collection length.
	TotalCount int

	// Order is the attribute-level sort order applied, for UI toggling.
	Order []sortspec.Entry

	// State is the pagination state, nil when pagination is disabled.
	State *pager.State
}

// Provider serves sorted, paginated pages of an in-memory collection.
//
// Each evaluation is pure: GetPage never mutates the source collection, and
// identical inputs yield identical pages. A Provider itself carries only
// configuration and is safe for concurrent use.
type Provider[T any] struct {
	// Spec parses and resolves the sort parameter. Nil disables sorting.
	Spec *sortspec.Spec

	// Calc computes pagination. Nil disables pagination: the full sorted
	// collection is returned.
	Calc *pager.Calculator

	// Value extracts column values for sorting and key-field lookup.
	// Required when Spec is set or KeyField is used.
	Value ValueFunc[T]

	// KeyFunc derives an item's key. Takes precedence over KeyField.
	KeyFunc func(item T) string

	// KeyField is the column whose value identifies an item. When neither
	// KeyFunc nor KeyField applies, the item's position in the sorted
	// collection is used, which stays stable across repagination.
	KeyField string

	// Collator orders strings when set; otherwise byte order is used.
	Collator *collate.Collator
}

// GetPage sorts, slices and keys one page of items.
func (p *Provider[T]) GetPage(items []T, q Query) (Page[T], error) {
	var order []sortspec.Entry
	sorted := items

	if p.Spec != nil {
		order = p.Spec.CurrentOrder(q.Sort)
		cols := p.Spec.ResolveColumns(order)
		if len(cols) > 0 {
			if p.Value == nil {
				return Page[T]{}, fmt.Errorf("%w: cannot sort by %q", ErrMissingValueFunc, q.Sort)
			}
			sorted = p.sortItems(items, cols)
		}
	}

	total := len(sorted)
	pageItems := sorted
	start := 0

	var state *pager.State
	if p.Calc != nil {
		st, err := p.Calc.Compute(total, q.Page, q.Limit, q.Desc)
		if err != nil {
			return Page[T]{}, err
		}
		state = &st

		start = min(st.Offset, total)
		end := min(st.Offset+st.Limit, total)
		pageItems = sorted[start:end]
	}

	keys, err := p.keys(pageItems, start)
	if err != nil {
		return Page[T]{}, err
	}

	return Page[T]{
		Items:      pageItems,
		Keys:       keys,
		TotalCount: total,
		Order:      order,
		State:      state,
	}, nil
}

// sortItems stably sorts a copy of items by the resolved columns, comparing
// column by column and short-circuiting on the first unequal key. Ties keep
// their original relative order, so repagination of the same sort is
// deterministic.
func (p *Provider[T]) sortItems(items []T, cols []sortspec.ColumnOrder) []T {
	sorted := make([]T, len(items))
	copy(sorted, items)

	sort.SliceStable(sorted, func(i, j int) bool {
		for _, co := range cols {
			cmp := p.compare(p.Value(sorted[i], co.Column), p.Value(sorted[j], co.Column))
			if cmp == 0 {
				continue
			}
			if co.Direction == sortspec.Desc {
				return cmp > 0
			}
			return cmp < 0
		}
		return false
	})

	return sorted
}

// keys derives the key of every page item. start is the page's position in
// the unsliced sorted collection.
func (p *Provider[T]) keys(items []T, start int) ([]string, error) {
	keys := make([]string, len(items))
	for i, item := range items {
		switch {
		case p.KeyFunc != nil:
			keys[i] = p.KeyFunc(item)
		case p.KeyField != "":
			if p.Value == nil {
				return nil, fmt.Errorf("%w: cannot read key field %q", ErrMissingValueFunc, p.KeyField)
			}
			if v := p.Value(item, p.KeyField); v != nil {
				keys[i] = fmt.Sprint(v)
				continue
			}
			keys[i] = positionKey(start + i)
		default:
			keys[i] = positionKey(start + i)
		}
	}
	return keys, nil
}

func positionKey(pos int) string {
	return fmt.Sprintf("%d", pos)
}

// compare orders two column values: -1, 0 or 1. Nil sorts before any value.
// Numeric types compare numerically, strings through the collator when one
// is configured, and anything else by its string form.
func (p *Provider[T]) compare(a, b any) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	}

	if af, aok := toFloat(a); aok {
		if bf, bok := toFloat(b); bok {
			return compareOrdered(af, bf)
		}
	}

	if as, aok := a.(string); aok {
		if bs, bok := b.(string); bok {
			return p.compareStrings(as, bs)
		}
	}

	if ab, aok := a.(bool); aok {
		if bb, bok := b.(bool); bok {
			switch {
			case ab == bb:
				return 0
			case bb:
				return -1
			default:
				return 1
			}
		}
	}

	if at, aok := a.(time.Time); aok {
		if bt, bok := b.(time.Time); bok {
			return at.Compare(bt)
		}
	}

	return p.compareStrings(fmt.Sprint(a), fmt.Sprint(b))
}

func (p *Provider[T]) compareStrings(a, b string) int {
	if p.Collator != nil {
		return p.Collator.CompareString(a, b)
	}
	return compareOrdered(a, b)
}

func compareOrdered[V interface{ ~string | ~float64 }](a, b V) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// toFloat widens the numeric types JSON and YAML decoding produce.
func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}
