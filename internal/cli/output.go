package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"text/tabwriter"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/listkit/listkit/internal/listdata"
	"github.com/listkit/listkit/internal/pager"
	"github.com/listkit/listkit/internal/records"
	"github.com/listkit/listkit/internal/sortspec"
)

// recordFields returns the field names of a record in lexical order.
func recordFields(rec records.Record) []string {
	fields := make([]string, 0, len(rec))
	for field := range rec {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	return fields
}

// renderTable writes the page as a tabulated listing followed by a pagination
// footer. Numbers in the footer are formatted for the configured locale.
func renderTable(w io.Writer, page listdata.Page[records.Record], columns []string, locale string) error {
	const tabPadding = 2
	tw := tabwriter.NewWriter(w, 0, 0, tabPadding, ' ', 0)

	fmt.Fprintln(tw, "Key\t"+joinHeader(columns))
	for i, rec := range page.Items {
		fmt.Fprintf(tw, "%s", page.Keys[i])
		for _, col := range columns {
			fmt.Fprintf(tw, "\t%v", cellValue(rec, col))
		}
		fmt.Fprintln(tw)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	printFooter(w, page, locale)
	return nil
}

func joinHeader(columns []string) string {
	header := ""
	for i, col := range columns {
		if i > 0 {
			header += "\t"
		}
		header += col
	}
	return header
}

func cellValue(rec records.Record, column string) any {
	if v := records.Value(rec, column); v != nil {
		return v
	}
	return "-"
}

// printFooter writes a one-line pagination summary under the table.
func printFooter(w io.Writer, page listdata.Page[records.Record], locale string) {
	tag := language.Und
	if locale != "" {
		if parsed, err := language.Parse(locale); err == nil {
			tag = parsed
		}
	}
	p := message.NewPrinter(tag)

	st := page.State
	if st == nil {
		p.Fprintf(w, "\n%d records\n", page.TotalCount)
		return
	}
	if st.PageCount == 0 {
		p.Fprintf(w, "\nNo records\n")
		return
	}

	p.Fprintf(w, "\nPage %d of %d (%d records, %d more)\n",
		st.PageCurrent+1, st.PageCount, st.TotalCount, st.CountMore)
	if order := sortOrderLabel(page.Order); order != "" {
		p.Fprintf(w, "Sorted by %s\n", order)
	}
}

func sortOrderLabel(order []sortspec.Entry) string {
	label := ""
	for i, e := range order {
		if i > 0 {
			label += ", "
		}
		label += string(e.Direction) + " " + e.Attribute
	}
	return label
}

// pageDocument is the JSON rendering of one page.
type pageDocument struct {
	Items      []records.Record  `json:"items"`
	Keys       []string          `json:"keys"`
	TotalCount int               `json:"totalCount"`
	Sort       string            `json:"sort,omitempty"`
	Pagination *paginationDoc    `json:"pagination,omitempty"`
	Links      map[string]string `json:"links,omitempty"`
}

// paginationDoc mirrors the pagination state with stable JSON field names.
type paginationDoc struct {
	TotalCount  int `json:"totalCount"`
	Limit       int `json:"limit"`
	PageCount   int `json:"pageCount"`
	PageCurrent int `json:"pageCurrent"`
	Offset      int `json:"offset"`
	WindowFrom  int `json:"windowFrom"`
	WindowTo    int `json:"windowTo"`
	PageFirst   int `json:"pageFirst"`
	PagePrev    int `json:"pagePrev"`
	PageNext    int `json:"pageNext"`
	PageLast    int `json:"pageLast"`
	CountMore   int `json:"countMore"`
}

func toPaginationDoc(st *pager.State) *paginationDoc {
	if st == nil {
		return nil
	}
	return &paginationDoc{
		TotalCount:  st.TotalCount,
		Limit:       st.Limit,
		PageCount:   st.PageCount,
		PageCurrent: st.PageCurrent,
		Offset:      st.Offset,
		WindowFrom:  st.WindowFrom,
		WindowTo:    st.WindowTo,
		PageFirst:   st.PageFirst,
		PagePrev:    st.PagePrev,
		PageNext:    st.PageNext,
		PageLast:    st.PageLast,
		CountMore:   st.CountMore,
	}
}

// renderJSON writes the page as one indented JSON document including the
// pagination state and navigation links.
func renderJSON(w io.Writer, page listdata.Page[records.Record], sortParam string, links map[string]string) error {
	doc := pageDocument{
		Items:      page.Items,
		Keys:       page.Keys,
		TotalCount: page.TotalCount,
		Sort:       sortParam,
		Pagination: toPaginationDoc(page.State),
		Links:      links,
	}
	if doc.Items == nil {
		doc.Items = []records.Record{}
	}
	if doc.Keys == nil {
		doc.Keys = []string{}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

// renderNDJSON writes one record per line, for piping into line-oriented
// tools.
func renderNDJSON(w io.Writer, page listdata.Page[records.Record]) error {
	enc := json.NewEncoder(w)
	for _, rec := range page.Items {
		if err := enc.Encode(rec); err != nil {
			return err
		}
	}
	return nil
}
