// Package pager computes pagination state for list UIs.
//
// Given a total item count, a requested zero-based page, and a page size, a
// Calculator produces a State: offset/limit for slicing, total page count, a
// bounded window of page numbers for pager widgets, first/prev/next/last
// navigation targets, and the count of items beyond the current page. It also
// renders canonical URL parameter pairs and navigation link sets; actual URL
// encoding and merging stays with the caller's URL builder.
package pager
