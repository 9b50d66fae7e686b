// Package textutil provides Unicode-aware text helpers shared by the
// soundtrack matcher, the catalog genre filter, and CLI rendering.
//
// Matching is done on case-folded strings (golang.org/x/text/cases) so album
// titles such as "AMÉLIE (Original Soundtrack)" compare equal to the catalog
// title regardless of letter case.
package textutil
