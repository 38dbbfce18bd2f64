// Package decode turns a merged value tree into a typed configuration.
//
// Decoding walks the schema depth-first in declaration order and stops at
// the first failure:
//
//   - a required field that is absent (or null) with no default fails with
//     *errors.MissingFieldError
//   - a value that cannot convert to the declared type fails with
//     *errors.TypeMismatchError, naming the provider that supplied it
//   - in Strict mode, a key the schema does not declare fails with
//     *errors.UnknownFieldError; Lax mode ignores it
//
// # Coercion
//
// Environment variables and SQLite rows only produce strings, so strings
// convert to numbers, booleans and durations here. A string also fills a
// sequence of scalars as a comma-separated list. String fields accept
// numbers and booleans as their text. Durations take Go syntax ("1m30s")
// or a number of seconds.
//
// # Custom Types
//
// Types implementing Unmarshaler receive the raw node; types implementing
// encoding.TextUnmarshaler receive the scalar text. Errors they return are
// reported as type mismatches.
package decode
