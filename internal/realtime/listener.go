package realtime

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// Channel is the NOTIFY channel the row change trigger writes to.
const Channel = "row_changes"

type Listener struct {
	pool    *pgxpool.Pool
	hub     *Hub
	log     *zap.Logger
	backoff time.Duration
}

func NewListener(pool *pgxpool.Pool, hub *Hub, log *zap.Logger) *Listener {
	if log == nil {
		log = zap.NewNop()
	}
	return &Listener{pool: pool, hub: hub, log: log, backoff: time.Second}
}

// Run listens until ctx is cancelled, reconnecting after connection errors.
func (l *Listener) Run(ctx context.Context) error {
	for {
		err := l.listen(ctx)
		if ctx.Err() != nil {
			return nil
		}
		l.log.Warn("realtime listener interrupted", zap.Error(err), zap.Duration("retry_in", l.backoff))

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(l.backoff):
		}
	}
}

func (l *Listener) listen(ctx context.Context) error {
	conn, err := l.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	if _, err := conn.Exec(ctx, "LISTEN "+Channel); err != nil {
		return fmt.Errorf("listen: %w", err)
	}
	l.log.Info("realtime listener started", zap.String("channel", Channel))

	for {
		n, err := conn.Conn().WaitForNotification(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return err
			}
			// The connection may be unusable; do not return it to the pool.
			conn.Conn().Close(context.Background())
			return fmt.Errorf("wait for notification: %w", err)
		}

		ev, err := ParseEvent([]byte(n.Payload))
		if err != nil {
			l.log.Warn("skip malformed row change", zap.Error(err))
			continue
		}
		l.hub.Publish(ev)
	}
}
