// Package sortspec parses and encodes multi-attribute sort-order request
// parameters.
//
// A sort parameter is a separator-joined list of attribute tokens where a
// leading '-' marks descending order (e.g. "age,-name"). Tokens are validated
// against a configured attribute whitelist; each logical attribute expands to
// one or more physical sort columns, letting a single URL-level attribute
// drive a composite ordering (e.g. "name" sorting by first and last name)
// without leaking column names into the request layer.
package sortspec
