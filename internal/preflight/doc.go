// Package preflight provides readiness checks for the filesystem paths and
// remote services moviebuff depends on.
//
// The CLI "moviebuff doctor" command runs RunAll and renders the results.
// Each remote check is gated by its config toggle; disabled features are
// skipped.
package preflight
