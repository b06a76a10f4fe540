// Package codec converts native values to and from runtime stack slots.
//
// A type's conversion strategy is resolved once, at registration time, by
// Compile. The result is keyed by a small closed set of categories: bool,
// signed and unsigned integers (named integer types, i.e. enumerations,
// included), floating point, text, and boxed user values. Each write
// produces exactly one stack slot; multi-value returns are out of scope.
//
// Numeric conversion is direct: precision loss or truncation on overflow is
// the runtime's behavior and is not corrected here. Text reads are borrows
// of the runtime's internal storage, valid only until the next stack
// mutation.
package codec
