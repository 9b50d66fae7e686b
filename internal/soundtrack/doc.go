// Package soundtrack holds the soundtrack matching heuristic: the ordered
// query list sent to the music catalog and the rules that pick an album from
// each result set.
//
// The package performs no I/O. The music package drives the search loop and
// feeds each result set through Select.
package soundtrack
