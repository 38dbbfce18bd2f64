// Package layercfg resolves a typed configuration from layered providers.
//
// A resolution is a linear pipeline with three stages:
//
//  1. Gathering: each provider is fetched in order, lowest precedence first
//  2. Merging: each fragment is folded into the tree with value.Merge
//  3. Decoding: the tree is validated against the schema and decoded
//
// The first failure ends the pipeline and is returned with the provider
// name and dotted key path that caused it. Nothing is retried.
//
// # Quick Start
//
//	type Config struct {
//	    Server struct {
//	        Host string `default:"0.0.0.0"`
//	        Port int    `default:"8080"`
//	    }
//	    DatabaseURL string `secret:"true"`
//	}
//
//	cfg, err := layercfg.Resolve[Config](ctx, []provider.Provider{
//	    provider.File("/etc/app/config.yaml", provider.Optional()),
//	    provider.Env("APP_"),
//	}, layercfg.Strict)
//
// # Merge Rules
//
// Mappings merge key by key. Sequences and scalars from a later provider
// replace earlier ones. An explicit null replaces too, and then counts as
// absent during decoding.
//
// # Strictness
//
// Every call names its mode. Strict rejects keys the schema does not
// declare; Lax ignores them.
//
// # Startup Loader
//
// ParseConfig and TryParseConfig load config.yml, config.yaml and
// prefixed environment variables from the working directory, in that
// precedence order. ParseConfig prints the failure and exits:
//
//	cfg := layercfg.ParseConfig[Config]("APP__", layercfg.Strict)
//
// # Observability
//
// WithLogger, WithTracing and WithMetrics enable slog logging and
// OpenTelemetry spans and metrics. All are off by default.
//
// # Errors
//
// Failures are the typed errors of package errors. Classify with
// errors.ReasonOf:
//
//	switch cfgerr.ReasonOf(err) {
//	case cfgerr.ReasonProviderFailed:
//	case cfgerr.ReasonMissingField:
//	}
package layercfg
