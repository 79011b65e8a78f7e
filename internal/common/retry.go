package common

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"net"
	"time"

	"github.com/go-sql-driver/mysql"
)

// IsRetryable 判断是否为连接层面的临时错误
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, driver.ErrBadConn) || errors.Is(err, sql.ErrConnDone) || errors.Is(err, mysql.ErrInvalidConn) {
		return true
	}
	var opErr *net.OpError
	return errors.As(err, &opErr)
}

// WithRetry 最多执行 attempts 次，每次失败后等待 backoff*i；不可重试的错误立即返回
func WithRetry(ctx context.Context, attempts int, backoff time.Duration, operation func(ctx context.Context) error) error {
	var err error
	for i := 1; i <= attempts; i++ {
		if err = operation(ctx); err == nil {
			return nil
		}
		if !IsRetryable(err) || i == attempts {
			return err
		}

		timer := time.NewTimer(backoff * time.Duration(i))
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
	return err
}
