// Package prim downloads Estimated Timetable snapshots from the IDFM PRIM marketplace.
package prim

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog/log"
	"github.com/travigo/rerdelay/pkg/config"
	"github.com/travigo/rerdelay/pkg/metrics"
)

const maxErrorBodyLength = 256

type Client struct {
	URL    string
	APIKey string

	HTTPClient *http.Client
	Schedule   []time.Duration
}

func NewClient(settings config.Settings) *Client {
	return &Client{
		URL:    settings.EstimatedTimetableURL,
		APIKey: settings.PrimAPIKey,
		HTTPClient: &http.Client{
			Timeout: settings.FetchTimeout(),
		},
		Schedule: DefaultSchedule,
	}
}

// FetchEstimatedTimetable performs the authenticated GET, retrying transport errors
// and non 2xx responses over the configured schedule
func (c *Client) FetchEstimatedTimetable(ctx context.Context) ([]byte, error) {
	startTime := time.Now()
	defer func() {
		metrics.FetchDuration.Observe(time.Since(startTime).Seconds())
	}()

	if len(c.Schedule) > 0 && c.Schedule[0] > 0 {
		select {
		case <-time.After(c.Schedule[0]):
		case <-ctx.Done():
			return nil, &FetchError{URL: c.URL, Err: ctx.Err()}
		}
	}

	attempts := 0
	var body []byte

	operation := func() error {
		attempts++
		metrics.FetchAttempts.Inc()

		var err error
		body, err = c.get(ctx)
		return err
	}

	notify := func(err error, wait time.Duration) {
		log.Warn().
			Err(err).
			Int("attempt", attempts).
			Str("retry_in", wait.String()).
			Msg("Estimated timetable request failed")
	}

	retryBackoff := backoff.WithContext(newScheduleBackOff(c.Schedule), ctx)
	if err := backoff.RetryNotify(operation, retryBackoff, notify); err != nil {
		return nil, &FetchError{URL: c.URL, Attempts: attempts, Err: err}
	}

	log.Debug().
		Int("bytes", len(body)).
		Int("attempts", attempts).
		Str("latency", time.Since(startTime).String()).
		Msg("Fetched estimated timetable")

	return body, nil
}

func (c *Client) get(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.URL, nil)
	if err != nil {
		return nil, backoff.Permanent(err)
	}
	req.Header.Set("apiKey", c.APIKey)
	req.Header.Set("Accept", "application/json")

	httpClient := c.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		text := strings.TrimSpace(string(body))
		if len(text) > maxErrorBodyLength {
			text = text[:maxErrorBodyLength]
		}
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: text}
	}

	return body, nil
}
