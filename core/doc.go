// Package core contains the domain types for the ruleboard catalog: rules,
// categories, submissions, and the client-side rule collection state.
//
// The flattened Rule shape exposed here is derived at the storage read
// boundary from the normalized rules/categories/rule_categories schema and is
// never stored directly.
package core
