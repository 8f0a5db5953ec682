// Package generate builds batches of synthetic usage records.
package generate

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/syntheon/batchforge/pkg/core"
)

// Bounds for the generated numeric and temporal fields.
const (
	minAge = 18
	maxAge = 90

	accessWindowYears = 2

	minSessionSeconds = 30
	maxSessionSeconds = 7200

	minDownloadMbps = 10
	maxDownloadMbps = 150

	minUploadMbps = 5
	maxUploadMbps = 100

	personalNumberDigits = 10

	// How often the generation loop polls for cancellation.
	cancelCheckInterval = 1024
)

// Generator produces batches of synthetic records from an injected provider.
type Generator struct {
	provider core.RecordProvider
	logger   *zap.Logger
}

// New constructs a generator backed by the given provider.
func New(provider core.RecordProvider, logger *zap.Logger) *Generator {
	return &Generator{provider: provider, logger: logger}
}

// CreateData generates exactly n records, each drawn independently from the
// provider. n must not be negative. Generation fails only on context
// cancellation, which is polled periodically during long runs.
func (g *Generator) CreateData(ctx context.Context, n int) (core.Batch, error) {
	if n < 0 {
		return nil, fmt.Errorf("record count must not be negative, got %d", n)
	}

	now := time.Now()
	windowStart := now.AddDate(-accessWindowYears, 0, 0)

	batch := make(core.Batch, 0, n)
	for i := 0; i < n; i++ {
		if i%cancelCheckInterval == 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			default:
			}
		}
		batch = append(batch, g.record(windowStart, now))
	}

	g.logger.Debug("Batch generated", zap.Int("records", len(batch)))
	return batch, nil
}

// record draws one record. Numeric fields are uniform over their ranges and
// the consumed traffic is derived from them.
func (g *Generator) record(windowStart, now time.Time) core.Record {
	duration := g.provider.IntBetween(minSessionSeconds, maxSessionSeconds)
	download := g.provider.IntBetween(minDownloadMbps, maxDownloadMbps)
	upload := g.provider.IntBetween(minUploadMbps, maxUploadMbps)

	return core.Record{
		PersonName:      g.provider.PersonName(),
		UserName:        g.provider.Username(),
		Email:           g.provider.Email(),
		Phone:           g.provider.Phone(),
		Address:         g.provider.Address(),
		MACAddress:      g.provider.MACAddress(),
		IPAddress:       g.provider.IPv4(),
		IBAN:            g.provider.IBAN(),
		BirthDate:       g.provider.BirthDate(minAge, maxAge),
		AccessedAt:      g.provider.AccessTime(windowStart, now),
		SessionDuration: duration,
		DownloadSpeed:   download,
		UploadSpeed:     upload,
		ConsumedTraffic: core.DeriveTraffic(download, upload, duration),
		PersonalNumber:  g.provider.Digits(personalNumberDigits),
	}
}
