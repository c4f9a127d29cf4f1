package rates

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

type Source string

const (
	SourceRemote  Source = "remote"
	SourceDefault Source = "default"
)

// maxSheetSize is the largest body accepted from the sheet. A bigger body is a
// fetch failure rather than a truncated table.
const maxSheetSize = 4 << 20

// Resolution is the outcome of one resolver run. Config is always usable.
type Resolution struct {
	Config    RateConfig   `json:"config"`
	Source    Source       `json:"source"`
	Format    Format       `json:"format,omitempty"`
	FetchedAt time.Time    `json:"fetched_at"`
	Skipped   []SkippedRow `json:"skipped,omitempty"`
	Error     string       `json:"error,omitempty"`
}

// Remote reports whether Config came from the sheet.
func (r Resolution) Remote() bool {
	return r.Source == SourceRemote
}

type Resolver struct {
	log    *slog.Logger
	client *http.Client
	url    string
	now    func() time.Time
}

// NewResolver builds a resolver for the sheet at url. An empty url makes every
// Resolve return the defaults. A nil client gets one with the given timeout.
func NewResolver(log *slog.Logger, url string, client *http.Client, timeout time.Duration) *Resolver {
	if client == nil {
		client = &http.Client{Timeout: timeout}
	}
	return &Resolver{
		log:    log,
		client: client,
		url:    url,
		now:    time.Now,
	}
}

// Resolve never fails: fetch and parse problems are logged and the compiled-in
// default is returned instead.
func (r *Resolver) Resolve(ctx context.Context) Resolution {
	const op = "rates.Resolver.Resolve"

	log := r.log.With(slog.String("op", op))

	res := Resolution{
		Config:    Default(),
		Source:    SourceDefault,
		FetchedAt: r.now(),
	}

	if r.url == "" {
		return res
	}

	rows, format, err := r.fetch(ctx)
	if err != nil {
		log.Error("failed to fetch rate sheet, serving defaults", slog.String("error", err.Error()))
		res.Error = err.Error()
		return res
	}

	cfg, skipped := Merge(rows)
	for _, s := range skipped {
		log.Debug("skipped rate sheet row",
			slog.Int("line", s.Line),
			slog.String("raw", s.Raw),
			slog.String("reason", s.Reason),
		)
	}

	res.Config = cfg
	res.Source = SourceRemote
	res.Format = format
	res.Skipped = skipped

	return res
}

func (r *Resolver) fetch(ctx context.Context) ([][]string, Format, error) {
	const op = "rates.Resolver.fetch"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.url, nil)
	if err != nil {
		return nil, "", fmt.Errorf("%s: build request: %w", op, err)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, "", fmt.Errorf("%s: unexpected status %d", op, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxSheetSize+1))
	if err != nil {
		return nil, "", fmt.Errorf("%s: read body: %w", op, err)
	}
	if len(body) > maxSheetSize {
		return nil, "", fmt.Errorf("%s: sheet larger than %d bytes", op, maxSheetSize)
	}

	format := DetectFormat(r.url, resp.Header.Get("Content-Type"))
	if format == FormatXLSX {
		rows, err := ReadXLSX(body)
		if err != nil {
			return nil, "", fmt.Errorf("%s: %w", op, err)
		}
		return rows, format, nil
	}

	return SplitCSV(body), format, nil
}
