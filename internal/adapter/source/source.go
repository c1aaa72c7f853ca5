// Package source fetches the raw anomaly table from a file or an http(s) URL.
package source

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/couchcryptid/climate-spiral/internal/domain"
)

// maxBodyBytes bounds a remote source. The full GISTEMP table is ~15 KB.
const maxBodyBytes = 8 << 20

// Loader reads source text. Failures are returned to the caller; nothing is
// retried.
type Loader struct {
	httpClient *http.Client
	logger     *slog.Logger
}

// NewLoader creates a Loader whose remote fetches time out after timeout.
func NewLoader(timeout time.Duration, logger *slog.Logger) *Loader {
	return &Loader{
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// Fetch returns the text at location, which is either a local path or an
// http(s) URL.
func (l *Loader) Fetch(ctx context.Context, location string) (string, error) {
	if isRemote(location) {
		return l.fetchRemote(ctx, location)
	}

	data, err := os.ReadFile(location)
	if err != nil {
		return "", fmt.Errorf("read source %s: %w", location, err)
	}
	return string(data), nil
}

// LoadSeries fetches location and normalizes it into a Series.
func (l *Loader) LoadSeries(ctx context.Context, location string, opts domain.SourceOptions) (domain.Series, error) {
	start := time.Now()

	text, err := l.Fetch(ctx, location)
	if err != nil {
		return domain.Series{}, err
	}
	series := domain.ParseSeries(text, opts)

	l.logger.Info("series loaded",
		"source", location,
		"observations", series.Len(),
		"duration", time.Since(start),
	)
	return series, nil
}

func (l *Loader) fetchRemote(ctx context.Context, location string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, location, nil)
	if err != nil {
		return "", fmt.Errorf("create source request: %w", err)
	}

	resp, err := l.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch source: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetch source: unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return "", fmt.Errorf("read source body: %w", err)
	}
	return string(body), nil
}

func isRemote(location string) bool {
	return strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://")
}
