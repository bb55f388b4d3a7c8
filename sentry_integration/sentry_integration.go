package sentry_integration

import (
	"context"
	"time"

	"github.com/getsentry/sentry-go"

	"github.com/geobrowser/geo-stream/config"
)

// Init configures the global hub. It does nothing when SENTRY_DSN is unset,
// which leaves every capture below a no-op.
func Init(cfg *config.Config) error {
	sentryCfg := cfg.GetSentryConfig()
	if sentryCfg == nil {
		return nil
	}
	return sentry.Init(sentry.ClientOptions{
		Dsn:              sentryCfg.DSN,
		SampleRate:       sentryCfg.SampleRate,
		TracesSampleRate: sentryCfg.TracesSampleRate,
		EnableTracing:    sentryCfg.TracesSampleRate > 0,
		Environment:      sentryCfg.Environment,
		Release:          config.Version,
		Tags:             map[string]string{"chain_id": cfg.GetChainId()},
	})
}

// Flush waits up to timeout for buffered events to be sent.
func Flush(timeout time.Duration) bool {
	return sentry.Flush(timeout)
}

func CaptureCurrentHubException(err error, level sentry.Level) {
	CaptureException(sentry.CurrentHub(), err, level)
}

func CaptureException(hub *sentry.Hub, err error, level sentry.Level) {
	hub.WithScope(func(scope *sentry.Scope) {
		scope.SetLevel(level)
		hub.CaptureException(err)
	})
}

// CaptureBlockException reports err tagged with the block it happened on.
func CaptureBlockException(err error, blockNumber uint64, stage string) {
	hub := sentry.CurrentHub()
	hub.WithScope(func(scope *sentry.Scope) {
		scope.SetLevel(sentry.LevelError)
		scope.SetTag("stage", stage)
		scope.SetContext("block", sentry.Context{"number": blockNumber})
		hub.CaptureException(err)
	})
}

func StartSentryTransaction(ctx context.Context, operation, description string) (*sentry.Span, context.Context) {
	transaction := sentry.StartTransaction(ctx, operation)
	transaction.Description = description
	return transaction, transaction.Context()
}

func StartSentrySpan(ctx context.Context, operation, description string) (*sentry.Span, context.Context) {
	span := sentry.StartSpan(ctx, operation)
	span.Description = description
	return span, span.Context()
}
