package layercfg

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/randalmurphal/layercfg/pkg/layercfg/observability"
	"github.com/randalmurphal/layercfg/pkg/layercfg/provider"
)

// Config file names searched by the startup loader, lowest precedence first.
const (
	ConfigFileYML  = "config.yml"
	ConfigFileYAML = "config.yaml"
)

const (
	ansiRed    = "\x1b[1;31m"
	ansiGreen  = "\x1b[1;32m"
	ansiYellow = "\x1b[1;33m"
	ansiReset  = "\x1b[0m"
)

// exit is replaced in tests.
var exit = os.Exit

// StartupProviders returns the providers used by TryParseConfig:
//
//	file:<dir>/config.yml   (optional)
//	file:<dir>/config.yaml  (optional)
//	environment             (envPrefix, nested keys split on "__")
//
// so the precedence is environment > config.yaml > config.yml. dir is
// the working directory unless WithWorkDir is given. When the working
// directory cannot be determined the files are skipped with a warning.
func StartupProviders(envPrefix string, opts ...Option) []provider.Provider {
	cfg := newResolveConfig(opts)
	return startupProviders(envPrefix, &cfg)
}

func startupProviders(envPrefix string, cfg *resolveConfig) []provider.Provider {
	var providers []provider.Provider

	dir, err := workDir(cfg)
	if err != nil {
		if cfg.logger != nil {
			observability.LogStartupWarning(cfg.logger, "could not access current working directory; configuration files will be ignored", err)
		} else {
			fmt.Fprintf(cfg.stderr, "%swarning%s: could not access current working directory; configuration files will be ignored\n", ansiYellow, ansiReset)
		}
	} else {
		providers = append(providers,
			provider.File(filepath.Join(dir, ConfigFileYML), provider.Optional()),
			provider.File(filepath.Join(dir, ConfigFileYAML), provider.Optional()),
		)
	}

	return append(providers, provider.Env(envPrefix,
		provider.WithSeparator(provider.DefaultSeparator),
		provider.WithEnviron(cfg.environ),
	))
}

func workDir(cfg *resolveConfig) (string, error) {
	if cfg.workDir != "" {
		return cfg.workDir, nil
	}
	return os.Getwd()
}

// TryParseConfig resolves T from config.yml, config.yaml and environment
// variables starting with envPrefix. See StartupProviders for the order.
//
// Unlike ParseConfig it returns the error instead of exiting.
func TryParseConfig[T any](ctx context.Context, envPrefix string, mode Mode, opts ...Option) (*T, error) {
	cfg := newResolveConfig(opts)
	return Resolve[T](ctx, startupProviders(envPrefix, &cfg), mode, opts...)
}

// ParseConfig is TryParseConfig for process startup. On failure it prints
// the error with PrintErrors to standard error and exits with status 1,
// so it must run before anything that needs cleanup on exit.
func ParseConfig[T any](envPrefix string, mode Mode, opts ...Option) *T {
	cfg, err := TryParseConfig[T](context.Background(), envPrefix, mode, opts...)
	if err != nil {
		rc := newResolveConfig(opts)
		PrintErrors(rc.stderr, envPrefix, err, opts...)
		exit(1)
		return nil
	}
	return cfg
}

// PrintErrors writes a user-oriented report of a failed resolution:
//
//	error: invalid configuration:
//	- server.port: invalid type: found string, expected integer (from environment)
//
//	note: neither `./config.yaml` nor `./config.yml` could be found; ...
//
// Notes are heuristics: one when no config file exists in the working
// directory, one when an environment variable starts with envPrefix and
// may therefore hold a typo.
func PrintErrors(w io.Writer, envPrefix string, err error, opts ...Option) {
	cfg := newResolveConfig(opts)

	fmt.Fprintf(w, "%serror%s: invalid configuration:\n", ansiRed, ansiReset)
	for _, e := range flatten(err) {
		fmt.Fprintf(w, "- %v\n", e)
	}

	note := func(msg string) {
		fmt.Fprintf(w, "\n%snote%s: %s\n", ansiGreen, ansiReset, msg)
	}

	if !configFileExists(&cfg) {
		note("neither `./config.yaml` nor `./config.yml` could be found; ensure that you have read permissions and that the filename is correct")
	}
	if envPrefix != "" && envVarWithPrefix(&cfg, envPrefix) {
		note(fmt.Sprintf("an environment variable starting with `%s` was found; check any variable names for typos", envPrefix))
	}
}

// flatten lists the errors joined in err, or err itself.
func flatten(err error) []error {
	if err == nil {
		return nil
	}
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		var out []error
		for _, e := range joined.Unwrap() {
			out = append(out, flatten(e)...)
		}
		return out
	}
	return []error{err}
}

func configFileExists(cfg *resolveConfig) bool {
	dir, err := workDir(cfg)
	if err != nil {
		return false
	}
	for _, name := range []string{ConfigFileYML, ConfigFileYAML} {
		if _, err := os.Stat(filepath.Join(dir, name)); err == nil {
			return true
		}
	}
	return false
}

func envVarWithPrefix(cfg *resolveConfig, prefix string) bool {
	for _, kv := range cfg.environ() {
		if strings.HasPrefix(kv, prefix) {
			return true
		}
	}
	return false
}
