package sonarr

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/cenkalti/backoff/v5"

	"seasonsweep/internal/logging"
	"seasonsweep/internal/services"
)

// DeleteEpisodeFile removes a file through Sonarr. A file that is already
// gone counts as deleted. Transient failures are retried with exponential
// backoff up to the configured attempt count.
func (c *Client) DeleteEpisodeFile(ctx context.Context, fileID int) error {
	path := "episodefile/" + strconv.Itoa(fileID)
	attempts := 0
	operation := func() (struct{}, error) {
		attempts++
		err := c.do(ctx, "delete episode file", http.MethodDelete, path, nil, nil, nil)
		switch {
		case err == nil:
			return struct{}{}, nil
		case errors.Is(err, services.ErrNotFound):
			return struct{}{}, nil
		case errors.Is(err, context.Canceled):
			return struct{}{}, backoff.Permanent(err)
		case services.IsRetryable(err):
			return struct{}{}, err
		default:
			return struct{}{}, backoff.Permanent(err)
		}
	}

	policy := &backoff.ExponentialBackOff{
		InitialInterval:     c.retry.InitialInterval,
		RandomizationFactor: 0,
		Multiplier:          2,
		MaxInterval:         c.retry.MaxInterval,
	}
	_, err := backoff.Retry(ctx, operation,
		backoff.WithBackOff(policy),
		backoff.WithMaxTries(uint(c.retry.MaxAttempts)),
		backoff.WithMaxElapsedTime(0),
		backoff.WithNotify(func(err error, wait time.Duration) {
			c.logger.Debug("retrying episode file delete",
				logging.Int(logging.FieldFileID, fileID),
				logging.Int("attempt", attempts),
				logging.Duration("wait", wait),
				logging.Error(err),
			)
		}),
	)
	if err != nil {
		if services.IsRetryable(err) {
			return fmt.Errorf("delete episode file %d after %d attempts: %w", fileID, attempts, err)
		}
		return fmt.Errorf("delete episode file %d: %w", fileID, err)
	}
	return nil
}
