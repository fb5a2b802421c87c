// Package listdata serves pages of in-memory collections.
//
// A Provider composes a sortspec.Spec and a pager.Calculator: it stably
// sorts a copy of the source collection by the resolved sort columns, slices
// out the requested page, and derives a stable key for every item on it.
// Either collaborator can be left unset, turning that step into a
// pass-through.
package listdata
