package get

import (
	"context"
	"fmt"
	"github.com/go-chi/render"
	"log/slog"
	"net/http"
	"pichu-go/internal/rates"
	"time"
)

type RateResolver interface {
	Resolve(ctx context.Context) rates.Resolution
}

// CachePolicy is the shared-cache directive attached to rates fetched from the
// remote sheet.
type CachePolicy struct {
	MaxAge               time.Duration
	StaleWhileRevalidate time.Duration
}

func (p CachePolicy) Header() string {
	if p.MaxAge <= 0 {
		return ""
	}
	if p.StaleWhileRevalidate <= 0 {
		return fmt.Sprintf("s-maxage=%d", int(p.MaxAge.Seconds()))
	}
	return fmt.Sprintf("s-maxage=%d, stale-while-revalidate=%d",
		int(p.MaxAge.Seconds()), int(p.StaleWhileRevalidate.Seconds()))
}

// GetRates always answers 200 with a complete rate table. Only remote results
// carry a cache directive. A positive timeout bounds the resolve.
func GetRates(log *slog.Logger, resolver RateResolver, cache CachePolicy, timeout time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.rates.GetRates"

		ctx, cancel := resolveContext(r.Context(), timeout)
		defer cancel()

		res := resolver.Resolve(ctx)

		if res.Remote() {
			if h := cache.Header(); h != "" {
				w.Header().Set("Cache-Control", h)
			}
		} else if res.Error != "" {
			log.With(slog.String("op", op)).Warn("serving default rates", slog.String("error", res.Error))
		}

		render.JSON(w, r, res.Config)
	}
}

// InspectRates exposes the whole resolution, including skipped rows and the
// fetch error, for debugging a degraded sheet.
func InspectRates(log *slog.Logger, resolver RateResolver, timeout time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.rates.InspectRates"

		ctx, cancel := resolveContext(r.Context(), timeout)
		defer cancel()

		res := resolver.Resolve(ctx)

		log.With(slog.String("op", op)).Debug("rates inspected",
			slog.String("source", string(res.Source)),
			slog.Int("skipped", len(res.Skipped)),
		)

		w.Header().Set("Cache-Control", "no-store")
		render.JSON(w, r, res)
	}
}

func resolveContext(parent context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(parent)
	}
	return context.WithTimeout(parent, timeout)
}
