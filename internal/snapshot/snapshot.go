// Package snapshot flattens a render surface into a PNG data URI, the only
// artifact a sketch hands to its host.
package snapshot

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"image/png"
	"log/slog"
	"strings"
	"sync"
	"time"
)

const dataURIPrefix = "data:image/png;base64,"

// DefaultSettle is how long a capture waits for pending paints to land.
const DefaultSettle = 100 * time.Millisecond

var (
	ErrCapture        = errors.New("snapshot capture failed")
	ErrInvalidDataURI = errors.New("invalid png data uri")
)

// Source is anything that can paint itself offscreen.
type Source interface {
	Rasterize() (image.Image, error)
}

// Capturer takes snapshots and retains the most recent one. Captures may
// overlap; each runs to completion and the latest request wins.
type Capturer struct {
	settle time.Duration
	logger *slog.Logger

	mu        sync.Mutex
	issued    uint64
	latestSeq uint64
	latest    string
}

// NewCapturer returns a capturer seeded with a prior snapshot, which may be
// empty.
func NewCapturer(settle time.Duration, logger *slog.Logger, prior string) *Capturer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Capturer{settle: settle, logger: logger, latest: prior}
}

// Capture waits the settle delay, rasterizes src and returns the image as a
// data URI. On failure the retained snapshot is left as it was.
func (c *Capturer) Capture(ctx context.Context, src Source) (string, error) {
	c.mu.Lock()
	c.issued++
	seq := c.issued
	c.mu.Unlock()

	uri, err := c.capture(ctx, src)
	if err != nil {
		c.logger.Error("snapshot capture failed", "seq", seq, "error", err)
		return "", err
	}

	c.mu.Lock()
	if seq > c.latestSeq {
		c.latestSeq = seq
		c.latest = uri
	}
	c.mu.Unlock()

	c.logger.Debug("snapshot captured", "seq", seq, "bytes", len(uri))
	return uri, nil
}

func (c *Capturer) capture(ctx context.Context, src Source) (string, error) {
	if c.settle > 0 {
		timer := time.NewTimer(c.settle)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return "", fmt.Errorf("%w: %w", ErrCapture, ctx.Err())
		case <-timer.C:
		}
	} else if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("%w: %w", ErrCapture, err)
	}

	img, err := src.Rasterize()
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrCapture, err)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", fmt.Errorf("%w: encode png: %w", ErrCapture, err)
	}
	return EncodeDataURI(buf.Bytes()), nil
}

// Latest returns the retained snapshot, or an empty string.
func (c *Capturer) Latest() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.latest
}

func EncodeDataURI(pngData []byte) string {
	return dataURIPrefix + base64.StdEncoding.EncodeToString(pngData)
}

// DecodeDataURI returns the PNG bytes carried by a data URI.
func DecodeDataURI(uri string) ([]byte, error) {
	payload, ok := strings.CutPrefix(uri, dataURIPrefix)
	if !ok {
		return nil, ErrInvalidDataURI
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidDataURI, err)
	}
	if _, err := png.DecodeConfig(bytes.NewReader(data)); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidDataURI, err)
	}
	return data, nil
}
