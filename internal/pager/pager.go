package pager

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
)

// Default calculator settings.
const (
	DefaultPageLimit  = 20
	DefaultMaxLimit   = 100
	DefaultWindow     = 10
	DefaultPageParam  = "page"
	DefaultLimitParam = "limit"
)

// Common validation errors.
var (
	ErrNegativeTotal   = errors.New("total count cannot be negative")
	ErrInvalidMaxLimit = errors.New("max limit must be positive")
)

// Config configures a Calculator.
type Config struct {
	// DefaultLimit substitutes a non-positive requested limit.
	DefaultLimit int

	// MaxLimit caps the requested limit. Must be positive.
	MaxLimit int

	// Window is the maximum number of page numbers exposed for pager
	// widgets.
	Window int

	// PageParam and LimitParam are the request parameter names used when
	// rendering URL parameter pairs.
	PageParam  string
	LimitParam string
}

// DefaultConfig returns the stock calculator configuration.
func DefaultConfig() Config {
	return Config{
		DefaultLimit: DefaultPageLimit,
		MaxLimit:     DefaultMaxLimit,
		Window:       DefaultWindow,
		PageParam:    DefaultPageParam,
		LimitParam:   DefaultLimitParam,
	}
}

// State is the fixed result of one pagination computation. All fields are
// pure functions of the Compute inputs.
type State struct {
	// TotalCount is the number of items across all pages.
	TotalCount int

	// Limit is the effective page size after defaulting and clamping.
	Limit int

	// PageCount is the total number of pages (0 for an empty collection).
	PageCount int

	// PageCurrent is the requested page clamped into [0, PageCount-1].
	PageCurrent int

	// Offset is the zero-based index of the first item on the page.
	Offset int

	// WindowFrom and WindowTo are the inclusive bounds of the visible
	// page-number window. WindowTo is -1 when there are no pages.
	WindowFrom int
	WindowTo   int

	// PageFirst, PagePrev, PageNext and PageLast are navigation targets.
	// PageLast is -1 when there are no pages. With descending page order
	// they are computed against the reversed page index space.
	PageFirst int
	PagePrev  int
	PageNext  int
	PageLast  int

	// CountMore is the number of items beyond the current page.
	CountMore int
}

// Calculator computes pagination state and canonical URL parameters.
// A Calculator is immutable after New and safe for concurrent use.
type Calculator struct {
	defaultLimit int
	maxLimit     int
	window       int
	pageParam    string
	limitParam   string
}

// New validates cfg and returns a Calculator. A non-positive MaxLimit is
// rejected; other zero fields fall back to package defaults.
func New(cfg Config) (*Calculator, error) {
	if cfg.MaxLimit <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidMaxLimit, cfg.MaxLimit)
	}

	c := &Calculator{
		defaultLimit: cfg.DefaultLimit,
		maxLimit:     cfg.MaxLimit,
		window:       cfg.Window,
		pageParam:    cfg.PageParam,
		limitParam:   cfg.LimitParam,
	}
	if c.defaultLimit <= 0 {
		c.defaultLimit = DefaultPageLimit
	}
	if c.defaultLimit > c.maxLimit {
		c.defaultLimit = c.maxLimit
	}
	if c.window <= 0 {
		c.window = DefaultWindow
	}
	if c.pageParam == "" {
		c.pageParam = DefaultPageParam
	}
	if c.limitParam == "" {
		c.limitParam = DefaultLimitParam
	}

	return c, nil
}

// DefaultLimit returns the configured default page size.
func (c *Calculator) DefaultLimit() int {
	return c.defaultLimit
}

// Compute derives the full pagination state for a collection of totalCount
// items, a requested zero-based page, and a requested limit.
//
// A non-positive limit falls back to the default limit; the result is capped
// at the configured maximum. The requested page is clamped into the valid
// page range rather than rejected, keeping pagination resilient to malformed
// client input. With desc set, the page window and the first/prev/next/last
// targets are computed against the reversed page index space so that page 0
// is presented last (newest-first pagers); offset, limit, and the current
// page are unaffected.
func (c *Calculator) Compute(totalCount, page, limit int, desc bool) (State, error) {
	if totalCount < 0 {
		return State{}, fmt.Errorf("%w: got %d", ErrNegativeTotal, totalCount)
	}

	if limit <= 0 {
		limit = c.defaultLimit
	}
	if limit > c.maxLimit {
		limit = c.maxLimit
	}

	pageCount := 0
	if totalCount > 0 {
		pageCount = (totalCount + limit - 1) / limit
	}

	current := page
	if current < 0 {
		current = 0
	}
	if current > pageCount-1 {
		current = pageCount - 1
	}
	if pageCount == 0 {
		current = 0
	}

	offset := current * limit
	st := State{
		TotalCount:  totalCount,
		Limit:       limit,
		PageCount:   pageCount,
		PageCurrent: current,
		Offset:      offset,
		CountMore:   max(totalCount-(offset+limit), 0),
	}

	if pageCount == 0 {
		st.WindowFrom, st.WindowTo = 0, -1
		st.PageFirst, st.PageLast = 0, -1
		st.PagePrev, st.PageNext = 0, 0
		return st, nil
	}

	last := pageCount - 1
	if desc {
		// Work in reversed coordinates and mirror the results back.
		reversed := last - current
		from, to := windowBounds(reversed, pageCount, c.window)
		st.WindowFrom, st.WindowTo = last-to, last-from
		st.PageFirst, st.PageLast = last, 0
		st.PagePrev = min(current+1, last)
		st.PageNext = max(current-1, 0)
		return st, nil
	}

	st.WindowFrom, st.WindowTo = windowBounds(current, pageCount, c.window)
	st.PageFirst, st.PageLast = 0, last
	st.PagePrev = max(current-1, 0)
	st.PageNext = min(current+1, last)
	return st, nil
}

// windowBounds returns the inclusive bounds of a window of up to size pages
// around current, clamped to [0, pageCount-1]. When the window cannot be
// centered exactly, the extra pages go after the current page.
func windowBounds(current, pageCount, size int) (int, int) {
	if size > pageCount {
		size = pageCount
	}

	from := current - (size-1)/2
	if from < 0 {
		from = 0
	}
	to := from + size - 1
	if to > pageCount-1 {
		to = pageCount - 1
		from = to - size + 1
	}

	return from, to
}

// PageParams renders the parameter pair addressing a page. Default values
// are omitted to keep URLs canonical: page 0 and the default limit produce
// no parameters.
func (c *Calculator) PageParams(page, limit int) url.Values {
	v := url.Values{}
	if page > 0 {
		v.Set(c.pageParam, strconv.Itoa(page))
	}
	if limit > 0 && limit != c.defaultLimit {
		v.Set(c.limitParam, strconv.Itoa(limit))
	}
	return v
}

// BuildFunc merges parameter pairs into a final URL string. URL encoding and
// base-path handling belong to the caller's URL layer.
type BuildFunc func(params url.Values) string

// PathBuilder returns a BuildFunc that appends encoded parameters to a fixed
// base path.
func PathBuilder(base string) BuildFunc {
	return func(params url.Values) string {
		if len(params) == 0 {
			return base
		}
		return base + "?" + params.Encode()
	}
}

// Link names produced by Links.
const (
	LinkSelf  = "self"
	LinkFirst = "first"
	LinkPrev  = "prev"
	LinkNext  = "next"
	LinkLast  = "last"
)

// Links renders the navigation link set for a computed state: self, first,
// prev, next and last, each built from its page's parameter pair.
func (c *Calculator) Links(st State, build BuildFunc) map[string]string {
	pages := map[string]int{
		LinkSelf:  st.PageCurrent,
		LinkFirst: st.PageFirst,
		LinkPrev:  st.PagePrev,
		LinkNext:  st.PageNext,
		LinkLast:  st.PageLast,
	}

	links := make(map[string]string, len(pages))
	for name, page := range pages {
		if page < 0 {
			page = 0
		}
		links[name] = build(c.PageParams(page, st.Limit))
	}
	return links
}
