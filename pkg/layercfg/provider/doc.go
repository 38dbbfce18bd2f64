// Package provider defines configuration sources.
//
// A Provider has a name and a Fetch method returning a value.Value mapping.
// The resolver asks each provider of an ordered list for its fragment and
// folds the fragments with value.Merge, later providers winning.
//
// # Built-in Providers
//
//   - Defaults / DefaultsMap: a literal tree, named "defaults"
//   - File / Bytes: a YAML or JSON document, named "file:<path>" or by buffer name
//   - Env: prefixed environment variables, named "environment"
//   - Override / OverrideMap: a literal tree for tests, named "test-override"
//   - SQLite: dotted key/value rows from a local database, named "sqlite:<path>"
//   - Func: any function, under any name
//
// # Errors
//
// Providers fail with *SourceError, classified as KindNotFound,
// KindParseFailure or KindPermissionDenied. Match with errors.Is against
// ErrNotFound, ErrParseFailure and ErrPermissionDenied:
//
//	if errors.Is(err, provider.ErrNotFound) {
//	    // mandatory file is missing
//	}
//
// # Formats
//
// Documents are parsed by format. "yaml" (.yaml, .yml) and "json" (.json)
// are built in; RegisterFormat adds more.
//
// # Environment
//
// Env strips the prefix, splits the rest on the separator ("__" by default)
// and lowercases each segment:
//
//	APP_SERVER__PORT=8080  ->  server.port: "8080"
//
// Values stay strings. Tests inject entries with WithEnviron instead of
// touching the process environment.
package provider
