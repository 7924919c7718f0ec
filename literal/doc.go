// Package literal renders Go values as SQL literal text.
//
// Values are dispatched on their runtime kind:
//
//	nil                 Null
//	integers            42
//	strings, times      '2020-01-01T00:00:00' (single quotes doubled)
//	slices, arrays      '{1,2,3}' or '{"a","b"}'
//	maps                '{"k":"v"}' (compact JSON)
//	anything else       the Dialect's own rule
//
// The declared column type refines the choice: a time.Time in a date
// column renders as a date, []byte in a text or json column renders as
// text, and a time.Duration renders as an interval unless the column is
// an integer.
package literal
