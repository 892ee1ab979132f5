// Package dispatch orchestrates one image transformation: prompt
// normalization, the relay call with bounded warm-up retries, and the local
// filter fallback when the provider stays cold.
package dispatch

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/rs/zerolog"

	"stylerelay/internal/dataurl"
	"stylerelay/internal/domain"
	"stylerelay/internal/fallback"
	"stylerelay/internal/infra"
	"stylerelay/internal/prompt"
)

// RelayTransformer is the slice of the relay client the dispatcher needs.
type RelayTransformer interface {
	Transform(ctx context.Context, imageDataURL, promptText string) (string, error)
}

// Source tags where the final image came from.
type Source string

const (
	// SourceRemote marks a genuine provider result.
	SourceRemote Source = "ai"
	// SourceFallback marks the local, non-AI approximation.
	SourceFallback Source = "fallback"
)

// Result is the final outcome of a dispatch.
type Result struct {
	ImageURL string
	Category prompt.Category
	Source   Source
	Attempts int
}

// Progress is reported before each retry wait so callers can surface it.
type Progress struct {
	Attempt     int
	MaxAttempts int
	Wait        time.Duration
	Reason      string
}

// Options configures a Dispatcher. Relay is required; everything else has
// defaults.
type Options struct {
	Relay      RelayTransformer
	MaxRetries int
	BaseWait   time.Duration
	Sleep      func(ctx context.Context, d time.Duration) error
	OnProgress func(Progress)
	Logger     *infra.Logger
}

// Dispatcher runs transformations. It holds no per-request state, so one
// instance serves concurrent dispatches.
type Dispatcher struct {
	relay      RelayTransformer
	maxRetries int
	baseWait   time.Duration
	sleep      func(ctx context.Context, d time.Duration) error
	onProgress func(Progress)
	logger     *infra.Logger
}

// New constructs a Dispatcher. Defaults: two retries on warm-up conditions
// with 30s and 60s waits.
func New(opts Options) (*Dispatcher, error) {
	if opts.Relay == nil {
		return nil, errors.New("dispatch: relay client is required")
	}
	maxRetries := opts.MaxRetries
	if maxRetries <= 0 {
		maxRetries = 2
	}
	baseWait := opts.BaseWait
	if baseWait <= 0 {
		baseWait = 30 * time.Second
	}
	sleep := opts.Sleep
	if sleep == nil {
		sleep = waitCtx
	}
	onProgress := opts.OnProgress
	if onProgress == nil {
		onProgress = func(Progress) {}
	}
	var logger *infra.Logger
	if opts.Logger != nil {
		logger = opts.Logger
	} else {
		discard := zerolog.New(io.Discard)
		l := infra.Logger(discard)
		logger = &l
	}
	return &Dispatcher{
		relay:      opts.Relay,
		maxRetries: maxRetries,
		baseWait:   baseWait,
		sleep:      sleep,
		onProgress: onProgress,
		logger:     logger,
	}, nil
}

// Dispatch transforms source according to the user's free-text prompt. At
// most maxRetries+1 remote attempts are made; warm-up style failures wait
// (attempt+1)*baseWait between attempts, any other failure propagates
// immediately. When the provider never comes up the local filter fallback
// produces the result, tagged SourceFallback.
func (d *Dispatcher) Dispatch(ctx context.Context, source []byte, userPrompt string) (*Result, error) {
	normalized := prompt.Normalize(userPrompt)
	if !normalized.Valid {
		return nil, domain.NewError(domain.KindInvalidPrompt, "prompt is too short").
			WithSuggestion(`Describe the transformation in a few words, e.g. "convert to Ghibli anime style" or "make it look like a vintage photograph".`)
	}

	imageDataURL := dataurl.Encode(source, "")
	maxAttempts := d.maxRetries + 1

	for attempt := 0; ; attempt++ {
		resultURL, err := d.relay.Transform(ctx, imageDataURL, normalized.Instruction)
		if err == nil {
			return &Result{
				ImageURL: resultURL,
				Category: normalized.Category,
				Source:   SourceRemote,
				Attempts: attempt + 1,
			}, nil
		}
		if !domain.IsRetryable(err) {
			return nil, err
		}
		if attempt >= d.maxRetries {
			d.logger.Info().
				Str("category", string(normalized.Category)).
				Int("attempts", attempt+1).
				Msg("dispatch: provider unavailable, using local fallback")
			return d.fallbackResult(source, normalized, attempt+1)
		}

		wait := time.Duration(attempt+1) * d.baseWait
		d.onProgress(Progress{
			Attempt:     attempt + 1,
			MaxAttempts: maxAttempts,
			Wait:        wait,
			Reason:      err.Error(),
		})
		if sleepErr := d.sleep(ctx, wait); sleepErr != nil {
			return nil, sleepErr
		}
	}
}

func (d *Dispatcher) fallbackResult(source []byte, normalized prompt.Normalized, attempts int) (*Result, error) {
	filtered, err := fallback.Transform(source, string(normalized.Category))
	if err != nil {
		return nil, err
	}
	return &Result{
		ImageURL: dataurl.Encode(filtered, "image/png"),
		Category: normalized.Category,
		Source:   SourceFallback,
		Attempts: attempts,
	}, nil
}

// waitCtx blocks for d or until ctx is cancelled, whichever comes first.
func waitCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
