package calculate

import (
	"context"
	"encoding/json"
	"errors"
	"github.com/go-chi/render"
	"log/slog"
	"net/http"
	"pichu-go/internal/rates"
	"pichu-go/internal/service/calculator"
	"time"
)

type RateResolver interface {
	Resolve(ctx context.Context) rates.Resolution
}

type Request struct {
	Mode          string   `json:"mode"`
	Price         float64  `json:"price"`
	LocalShipping *float64 `json:"local_shipping"`
	PeopleCount   float64  `json:"people_count"`
	// Rates previously fetched from /api/rates. Resolved server-side when absent.
	Rates *rates.RateConfig `json:"rates,omitempty"`
}

type Resp struct {
	Mode         calculator.Mode `json:"mode"`
	Participants int64           `json:"participants"`
	calculator.Result
}

// Calculate prices one item. Rates come from the request when present,
// otherwise from resolver, bounded by timeout when it is positive.
func Calculate(log *slog.Logger, resolver RateResolver, timeout time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.calculate.Calculate"

		var req Request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid JSON", http.StatusBadRequest)
			return
		}

		mode, err := calculator.ParseMode(req.Mode)
		if err != nil {
			log.With(slog.String("op", op), slog.String("mode", req.Mode)).Warn("unsupported mode requested")
			http.Error(w, "unsupported mode, expected KR or CH", http.StatusBadRequest)
			return
		}

		var cfg rates.RateConfig
		if req.Rates != nil {
			cfg = *req.Rates
		} else {
			ctx := r.Context()
			if timeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, timeout)
				defer cancel()
			}

			cfg = resolver.Resolve(ctx).Config
		}

		result, err := calculator.Calculate(calculator.Input{
			Mode:          mode,
			Price:         req.Price,
			LocalShipping: req.LocalShipping,
			PeopleCount:   req.PeopleCount,
		}, cfg)
		if err != nil {
			status := http.StatusInternalServerError
			if errors.Is(err, calculator.ErrInvalidMode) {
				status = http.StatusBadRequest
			}
			log.With(slog.String("op", op), slog.String("error", err.Error())).Error("failed to calculate")
			http.Error(w, http.StatusText(status), status)
			return
		}

		render.JSON(w, r, Resp{
			Mode:         mode,
			Participants: calculator.Participants(req.PeopleCount),
			Result:       result,
		})
	}
}
