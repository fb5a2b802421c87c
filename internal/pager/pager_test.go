package pager

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCalculator(t *testing.T, cfg Config) *Calculator {
	t.Helper()
	c, err := New(cfg)
	require.NoError(t, err)
	return c
}

func TestNew_Validation(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{name: "default config", cfg: DefaultConfig()},
		{name: "zero max limit", cfg: Config{MaxLimit: 0}, wantErr: true},
		{name: "negative max limit", cfg: Config{MaxLimit: -5}, wantErr: true},
		{name: "max limit only", cfg: Config{MaxLimit: 50}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := New(tt.cfg)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidMaxLimit)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, c)
		})
	}
}

func TestNew_DefaultLimitCappedByMax(t *testing.T) {
	c := newCalculator(t, Config{MaxLimit: 10, DefaultLimit: 50})
	assert.Equal(t, 10, c.DefaultLimit())
}

func TestCompute(t *testing.T) {
	c := newCalculator(t, DefaultConfig())

	tests := []struct {
		name       string
		totalCount int
		page       int
		limit      int
		want       State
	}{
		{
			name:       "middle page",
			totalCount: 100,
			page:       2,
			limit:      10,
			want: State{
				TotalCount: 100, Limit: 10, PageCount: 10, PageCurrent: 2,
				Offset: 20, WindowFrom: 0, WindowTo: 9,
				PageFirst: 0, PagePrev: 1, PageNext: 3, PageLast: 9,
				CountMore: 70,
			},
		},
		{
			name:       "first page by default",
			totalCount: 100,
			page:       0,
			limit:      10,
			want: State{
				TotalCount: 100, Limit: 10, PageCount: 10, PageCurrent: 0,
				Offset: 0, WindowFrom: 0, WindowTo: 9,
				PageFirst: 0, PagePrev: 0, PageNext: 1, PageLast: 9,
				CountMore: 90,
			},
		},
		{
			name:       "negative page clamped to zero",
			totalCount: 50,
			page:       -3,
			limit:      10,
			want: State{
				TotalCount: 50, Limit: 10, PageCount: 5, PageCurrent: 0,
				Offset: 0, WindowFrom: 0, WindowTo: 4,
				PageFirst: 0, PagePrev: 0, PageNext: 1, PageLast: 4,
				CountMore: 40,
			},
		},
		{
			name:       "page beyond range clamped to last",
			totalCount: 50,
			page:       99,
			limit:      10,
			want: State{
				TotalCount: 50, Limit: 10, PageCount: 5, PageCurrent: 4,
				Offset: 40, WindowFrom: 0, WindowTo: 4,
				PageFirst: 0, PagePrev: 3, PageNext: 4, PageLast: 4,
				CountMore: 0,
			},
		},
		{
			name:       "zero limit falls back to default",
			totalCount: 45,
			page:       1,
			limit:      0,
			want: State{
				TotalCount: 45, Limit: 20, PageCount: 3, PageCurrent: 1,
				Offset: 20, WindowFrom: 0, WindowTo: 2,
				PageFirst: 0, PagePrev: 0, PageNext: 2, PageLast: 2,
				CountMore: 5,
			},
		},
		{
			name:       "limit capped at max",
			totalCount: 500,
			page:       0,
			limit:      1000,
			want: State{
				TotalCount: 500, Limit: 100, PageCount: 5, PageCurrent: 0,
				Offset: 0, WindowFrom: 0, WindowTo: 4,
				PageFirst: 0, PagePrev: 0, PageNext: 1, PageLast: 4,
				CountMore: 400,
			},
		},
		{
			name:       "partial last page",
			totalCount: 95,
			page:       9,
			limit:      10,
			want: State{
				TotalCount: 95, Limit: 10, PageCount: 10, PageCurrent: 9,
				Offset: 90, WindowFrom: 0, WindowTo: 9,
				PageFirst: 0, PagePrev: 8, PageNext: 9, PageLast: 9,
				CountMore: 0,
			},
		},
		{
			name:       "empty collection",
			totalCount: 0,
			page:       3,
			limit:      10,
			want: State{
				TotalCount: 0, Limit: 10, PageCount: 0, PageCurrent: 0,
				Offset: 0, WindowFrom: 0, WindowTo: -1,
				PageFirst: 0, PagePrev: 0, PageNext: 0, PageLast: -1,
				CountMore: 0,
			},
		},
		{
			name:       "single short page",
			totalCount: 7,
			page:       0,
			limit:      10,
			want: State{
				TotalCount: 7, Limit: 10, PageCount: 1, PageCurrent: 0,
				Offset: 0, WindowFrom: 0, WindowTo: 0,
				PageFirst: 0, PagePrev: 0, PageNext: 0, PageLast: 0,
				CountMore: 0,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := c.Compute(tt.totalCount, tt.page, tt.limit, false)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCompute_NegativeTotal(t *testing.T) {
	c := newCalculator(t, DefaultConfig())

	_, err := c.Compute(-1, 0, 10, false)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNegativeTotal)
}

// Recomputing with identical inputs yields an identical state.
func TestCompute_Idempotent(t *testing.T) {
	c := newCalculator(t, DefaultConfig())

	first, err := c.Compute(123, 4, 7, false)
	require.NoError(t, err)
	second, err := c.Compute(123, 4, 7, false)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

// Offset and page invariants hold across a spread of inputs.
func TestCompute_Invariants(t *testing.T) {
	c := newCalculator(t, DefaultConfig())

	for _, total := range []int{0, 1, 9, 10, 11, 99, 1000} {
		for _, page := range []int{-2, 0, 1, 5, 500} {
			for _, limit := range []int{-1, 0, 1, 7, 10, 500} {
				st, err := c.Compute(total, page, limit, false)
				require.NoError(t, err)

				assert.Equal(t, st.PageCurrent*st.Limit, st.Offset)
				assert.GreaterOrEqual(t, st.PageCurrent, 0)
				assert.Less(t, st.PageCurrent, max(st.PageCount, 1))
				assert.GreaterOrEqual(t, st.CountMore, 0)
			}
		}
	}
}

// Window tie-break: when the window cannot be centered exactly, extra pages
// go after the current page.
func TestWindowBounds(t *testing.T) {
	tests := []struct {
		name      string
		current   int
		pageCount int
		window    int
		wantFrom  int
		wantTo    int
	}{
		{name: "centered odd window", current: 5, pageCount: 20, window: 5, wantFrom: 3, wantTo: 7},
		{name: "even window biases trailing", current: 5, pageCount: 20, window: 4, wantFrom: 4, wantTo: 7},
		{name: "clamped at start", current: 0, pageCount: 20, window: 5, wantFrom: 0, wantTo: 4},
		{name: "near start", current: 1, pageCount: 20, window: 5, wantFrom: 0, wantTo: 4},
		{name: "clamped at end", current: 19, pageCount: 20, window: 5, wantFrom: 15, wantTo: 19},
		{name: "near end", current: 18, pageCount: 20, window: 5, wantFrom: 15, wantTo: 19},
		{name: "window larger than pages", current: 1, pageCount: 3, window: 10, wantFrom: 0, wantTo: 2},
		{name: "window of one", current: 7, pageCount: 20, window: 1, wantFrom: 7, wantTo: 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			from, to := windowBounds(tt.current, tt.pageCount, tt.window)
			assert.Equal(t, tt.wantFrom, from)
			assert.Equal(t, tt.wantTo, to)
		})
	}
}

func TestCompute_DescendingPageOrder(t *testing.T) {
	c := newCalculator(t, Config{MaxLimit: 100, DefaultLimit: 10, Window: 5})

	t.Run("navigation mirrors page space", func(t *testing.T) {
		st, err := c.Compute(100, 2, 10, true)
		require.NoError(t, err)

		// Offset arithmetic is unaffected by presentation order.
		assert.Equal(t, 2, st.PageCurrent)
		assert.Equal(t, 20, st.Offset)

		assert.Equal(t, 9, st.PageFirst)
		assert.Equal(t, 0, st.PageLast)
		assert.Equal(t, 3, st.PagePrev)
		assert.Equal(t, 1, st.PageNext)
	})

	t.Run("window mirrors bias", func(t *testing.T) {
		// Reversed index of page 2 in 10 pages is 7; the asc window
		// around 7 is [5,9], mirrored back to [0,4].
		st, err := c.Compute(100, 2, 10, true)
		require.NoError(t, err)
		assert.Equal(t, 0, st.WindowFrom)
		assert.Equal(t, 4, st.WindowTo)
	})

	t.Run("first presented page", func(t *testing.T) {
		st, err := c.Compute(100, 9, 10, true)
		require.NoError(t, err)
		assert.Equal(t, 9, st.PagePrev)
		assert.Equal(t, 8, st.PageNext)
	})

	t.Run("empty collection", func(t *testing.T) {
		st, err := c.Compute(0, 0, 10, true)
		require.NoError(t, err)
		assert.Equal(t, -1, st.PageLast)
		assert.Equal(t, 0, st.PageFirst)
	})
}

func TestPageParams(t *testing.T) {
	c := newCalculator(t, DefaultConfig())

	tests := []struct {
		name  string
		page  int
		limit int
		want  url.Values
	}{
		{name: "defaults omitted", page: 0, limit: 20, want: url.Values{}},
		{name: "page only", page: 2, limit: 20, want: url.Values{"page": {"2"}}},
		{
			name: "non-default limit included",
			page: 0, limit: 50,
			want: url.Values{"limit": {"50"}},
		},
		{
			name: "page and limit",
			page: 3, limit: 50,
			want: url.Values{"page": {"3"}, "limit": {"50"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, c.PageParams(tt.page, tt.limit))
		})
	}
}

func TestPageParams_CustomNames(t *testing.T) {
	c := newCalculator(t, Config{MaxLimit: 100, PageParam: "p", LimitParam: "per_page"})

	got := c.PageParams(4, 25)
	assert.Equal(t, url.Values{"p": {"4"}, "per_page": {"25"}}, got)
}

func TestLinks(t *testing.T) {
	c := newCalculator(t, Config{MaxLimit: 100, DefaultLimit: 10})
	build := PathBuilder("/users")

	t.Run("first page defaults omitted", func(t *testing.T) {
		st, err := c.Compute(100, 0, 10, false)
		require.NoError(t, err)

		links := c.Links(st, build)
		assert.Equal(t, map[string]string{
			LinkSelf:  "/users",
			LinkFirst: "/users",
			LinkPrev:  "/users",
			LinkNext:  "/users?page=1",
			LinkLast:  "/users?page=9",
		}, links)
	})

	t.Run("middle page", func(t *testing.T) {
		st, err := c.Compute(100, 5, 10, false)
		require.NoError(t, err)

		links := c.Links(st, build)
		assert.Equal(t, "/users?page=5", links[LinkSelf])
		assert.Equal(t, "/users", links[LinkFirst])
		assert.Equal(t, "/users?page=4", links[LinkPrev])
		assert.Equal(t, "/users?page=6", links[LinkNext])
		assert.Equal(t, "/users?page=9", links[LinkLast])
	})

	t.Run("non-default limit carried through", func(t *testing.T) {
		st, err := c.Compute(100, 1, 25, false)
		require.NoError(t, err)

		links := c.Links(st, build)
		assert.Equal(t, "/users?limit=25&page=1", links[LinkSelf])
		assert.Equal(t, "/users?limit=25", links[LinkFirst])
	})

	t.Run("empty collection links to page zero", func(t *testing.T) {
		st, err := c.Compute(0, 0, 10, false)
		require.NoError(t, err)

		links := c.Links(st, build)
		assert.Equal(t, "/users", links[LinkLast])
	})
}
