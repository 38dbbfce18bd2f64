package layercfg

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/randalmurphal/layercfg/pkg/layercfg/decode"
	cfgerr "github.com/randalmurphal/layercfg/pkg/layercfg/errors"
	"github.com/randalmurphal/layercfg/pkg/layercfg/observability"
	"github.com/randalmurphal/layercfg/pkg/layercfg/provider"
	"github.com/randalmurphal/layercfg/pkg/layercfg/schema"
	"github.com/randalmurphal/layercfg/pkg/layercfg/value"
)

// Mode selects strict or lax handling of undeclared keys.
type Mode = decode.Mode

// Decoding modes.
const (
	Strict = decode.Strict
	Lax    = decode.Lax
)

// Resolve fetches every provider in order, merges the fragments and
// decodes the result into a new T.
//
// Providers are listed lowest precedence first. The first provider that
// fails stops the resolution with a *errors.ProviderError; later
// providers are never fetched. A done ctx stops it with a
// *errors.CancelledError. Decoding failures are the first
// *errors.MissingFieldError, *errors.TypeMismatchError or, in Strict
// mode, *errors.UnknownFieldError found in declaration order.
//
// Example:
//
//	cfg, err := layercfg.Resolve[Config](ctx, []provider.Provider{
//	    provider.DefaultsMap(map[string]any{"port": 8080}),
//	    provider.File("/etc/app.yaml", provider.Optional()),
//	    provider.Env("APP_"),
//	}, layercfg.Strict)
func Resolve[T any](ctx context.Context, providers []provider.Provider, mode Mode, opts ...Option) (*T, error) {
	sch, err := schema.Of[T]()
	if err != nil {
		return nil, err
	}
	return ResolveWith[T](ctx, sch, providers, mode, opts...)
}

// ResolveWith is Resolve with a caller-supplied schema for T.
func ResolveWith[T any](ctx context.Context, sch *schema.Schema, providers []provider.Provider, mode Mode, opts ...Option) (result *T, err error) {
	if !mode.Valid() {
		return nil, fmt.Errorf("%w: %d", decode.ErrInvalidMode, int(mode))
	}
	cfg := newResolveConfig(opts)
	id := cfg.resolutionID
	if id == "" {
		id = uuid.NewString()
	}
	logger := observability.EnrichLogger(cfg.logger, id, "")

	observability.LogResolveStart(logger, id, len(providers), mode.String())
	ctx, span := cfg.spans.StartResolveSpan(ctx, id, len(providers), mode.String())
	start := time.Now()
	elapsedMs := observability.TimedOperation()
	leaves := 0

	defer func() {
		duration := time.Since(start)
		durationMs := elapsedMs()
		cfg.spans.EndSpanWithError(span, err)

		reason := ""
		if err != nil {
			reason = cfgerr.ReasonOf(err).String()
			observability.LogResolveError(logger, id, err, reason, durationMs)
		} else {
			observability.LogResolveComplete(logger, id, durationMs, leaves)
		}
		cfg.metrics.RecordResolution(ctx, reason, duration)
	}()

	tree, err := merge(ctx, providers, &cfg, logger)
	if err != nil {
		return nil, err
	}
	leaves = countLeaves(tree)
	cfg.metrics.RecordTreeLeaves(ctx, int64(leaves))
	cfg.spans.AddSpanEvent(ctx, "merged", attribute.Int("leaves", leaves))

	return decode.Decode[T](tree, sch, mode)
}

// Merge fetches every provider in order and folds the fragments into one
// tree, without decoding. Errors are those of Resolve's gathering stage.
// Every node of the result records the provider that supplied it.
func Merge(ctx context.Context, providers []provider.Provider, opts ...Option) (value.Value, error) {
	cfg := newResolveConfig(opts)
	logger := cfg.logger
	if cfg.resolutionID != "" {
		logger = observability.EnrichLogger(logger, cfg.resolutionID, "")
	}
	return merge(ctx, providers, &cfg, logger)
}

func merge(ctx context.Context, providers []provider.Provider, cfg *resolveConfig, logger *slog.Logger) (value.Value, error) {
	acc := value.EmptyMapping()
	for i, p := range providers {
		name := p.Name()
		if err := ctx.Err(); err != nil {
			return value.Value{}, &cfgerr.CancelledError{Provider: name, Cause: err}
		}

		fctx, span := cfg.spans.StartProviderSpan(ctx, name, i)
		start := time.Now()
		frag, err := p.Fetch(fctx)
		duration := time.Since(start)
		if err == nil {
			err = checkFragment(name, frag)
		}
		if err != nil || ctx.Err() != nil {
			err = fetchError(ctx, name, err)
			cfg.metrics.RecordProviderFetch(ctx, name, duration, err)
			cfg.spans.EndSpanWithError(span, err)
			observability.LogProviderError(logger, name, err)
			return value.Value{}, err
		}
		cfg.metrics.RecordProviderFetch(ctx, name, duration, nil)

		if frag.IsNull() {
			frag = value.EmptyMapping()
		}
		frag = frag.WithSource(name)
		acc = value.Merge(acc, frag)

		observability.LogProviderFetched(logger, name, float64(duration.Microseconds())/1000, countLeaves(frag))
		cfg.spans.EndSpanWithError(span, nil)
	}
	return acc, nil
}

// checkFragment rejects fragments that are not mappings. Null counts as
// an empty mapping.
func checkFragment(name string, frag value.Value) error {
	switch frag.Kind() {
	case value.KindMapping, value.KindNull:
		return nil
	}
	return provider.ParseFailure(name, fmt.Errorf("fragment must be a mapping, found %s", frag.Kind()))
}

// fetchError wraps a failed fetch. A done context wins over whatever the
// provider returned, and a fetch that finished after cancellation is
// discarded.
func fetchError(ctx context.Context, name string, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return &cfgerr.CancelledError{Provider: name, Cause: ctxErr}
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return &cfgerr.CancelledError{Provider: name, Cause: err}
	}
	return &cfgerr.ProviderError{Provider: name, Err: err}
}

func countLeaves(v value.Value) int {
	n := 0
	v.Walk(func([]string, value.Value) bool {
		n++
		return true
	})
	return n
}
