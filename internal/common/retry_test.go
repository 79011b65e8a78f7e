package common

import (
	"context"
	"database/sql/driver"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
)

func TestIsRetryable(t *testing.T) {
	assert.True(t, IsRetryable(driver.ErrBadConn))
	assert.True(t, IsRetryable(mysql.ErrInvalidConn))
	assert.True(t, IsRetryable(&net.OpError{Op: "dial", Err: errors.New("connection refused")}))
	assert.False(t, IsRetryable(errors.New("syntax error")))
	assert.False(t, IsRetryable(nil))
}

func TestWithRetryEventuallySucceeds(t *testing.T) {
	calls := 0
	err := WithRetry(context.Background(), 3, time.Millisecond, func(ctx context.Context) error {
		calls++
		if calls < 3 {
			return driver.ErrBadConn
		}
		return nil
	})

	assert.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestWithRetryStopsOnPermanentError(t *testing.T) {
	calls := 0
	permanent := errors.New("access denied")
	err := WithRetry(context.Background(), 5, time.Millisecond, func(ctx context.Context) error {
		calls++
		return permanent
	})

	assert.Equal(t, permanent, err)
	assert.Equal(t, 1, calls)
}

func TestWithRetryGivesUp(t *testing.T) {
	calls := 0
	err := WithRetry(context.Background(), 2, time.Millisecond, func(ctx context.Context) error {
		calls++
		return driver.ErrBadConn
	})

	assert.ErrorIs(t, err, driver.ErrBadConn)
	assert.Equal(t, 2, calls)
}

func TestWithRetryHonoursContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := WithRetry(ctx, 3, time.Hour, func(ctx context.Context) error {
		return driver.ErrBadConn
	})
	assert.ErrorIs(t, err, context.Canceled)
}
