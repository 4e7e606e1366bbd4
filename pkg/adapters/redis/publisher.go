package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/aretw0/cadence/internal/logging"
	"github.com/aretw0/cadence/pkg/domain"
	"github.com/cenkalti/backoff/v4"
	backend "github.com/redis/go-redis/v9"
)

// Publisher implements ports.Publisher using Redis.
//
// Flag values are kept in a hash at <prefix>flags and the tick number at
// <prefix>tick. Every write is also published as a JSON diff on the channel.
//
// Publish never touches the network: it leaves the snapshot in a one-slot
// mailbox, replacing any snapshot not yet written, and Run writes it. Writes
// diff against the last snapshot that reached Redis, so a dropped snapshot
// still leaves the hash complete.
type Publisher struct {
	client   *backend.Client
	prefix   string
	channel  string
	logger   *slog.Logger
	newRetry func() backoff.BackOff

	pending chan *domain.Snapshot

	mu      sync.Mutex
	written *domain.Snapshot
}

type Option func(*Publisher)

// WithPrefix sets the key prefix.
func WithPrefix(prefix string) Option {
	return func(p *Publisher) {
		p.prefix = prefix
	}
}

// WithChannel sets the pub/sub channel for diffs.
func WithChannel(channel string) Option {
	return func(p *Publisher) {
		p.channel = channel
	}
}

// WithLogger sets the logger used to report retries.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Publisher) {
		p.logger = logger
	}
}

// WithBackoff sets the retry policy. newRetry must return a fresh BackOff on
// every call.
func WithBackoff(newRetry func() backoff.BackOff) Option {
	return func(p *Publisher) {
		p.newRetry = newRetry
	}
}

// DefaultBackoff retries with exponential backoff and gives up after 200ms.
func DefaultBackoff() backoff.BackOff {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 5 * time.Millisecond
	bo.MaxInterval = 50 * time.Millisecond
	bo.MaxElapsedTime = 200 * time.Millisecond
	return bo
}

// New creates a new Redis publisher with options. The client fails fast so
// retries stay under the publisher's backoff policy.
func New(address, password string, db int, opts ...Option) *Publisher {
	rdb := backend.NewClient(&backend.Options{
		Addr:         address,
		Password:     password,
		DB:           db,
		DialTimeout:  250 * time.Millisecond,
		ReadTimeout:  250 * time.Millisecond,
		WriteTimeout: 250 * time.Millisecond,
		MaxRetries:   -1,
	})
	return NewFromClient(rdb, opts...)
}

// NewFromClient creates a new Redis publisher from an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *Publisher {
	p := &Publisher{
		client:   client,
		prefix:   "cadence:",
		channel:  "cadence:flags",
		logger:   logging.NewNop(),
		newRetry: DefaultBackoff,
		pending:  make(chan *domain.Snapshot, 1),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Publisher) flagsKey() string { return p.prefix + "flags" }
func (p *Publisher) tickKey() string  { return p.prefix + "tick" }

// Publish queues snap for Run and returns at once. diff is ignored: the
// writer computes its own against what Redis already holds.
func (p *Publisher) Publish(_ context.Context, snap *domain.Snapshot, _ *domain.SnapshotDiff) error {
	if snap == nil {
		return nil
	}
	for {
		select {
		case p.pending <- snap:
			return nil
		default:
		}
		// Full: drop the older snapshot so the latest wins.
		select {
		case <-p.pending:
		default:
		}
	}
}

// Run writes queued snapshots until ctx is cancelled. Failed writes are
// logged; the next snapshot retries from the last one Redis accepted.
func (p *Publisher) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case snap := <-p.pending:
			if err := p.Write(ctx, snap); err != nil && ctx.Err() == nil {
				p.logger.Warn("redis publish failed", "tick", snap.Tick, "err", err)
			}
		}
	}
}

// Write stores snap synchronously, retrying under the backoff policy. The
// first successful write stores every flag.
func (p *Publisher) Write(ctx context.Context, snap *domain.Snapshot) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	changed := domain.Diff(p.written, snap)
	if changed.IsEmpty() {
		return nil
	}

	payload, err := json.Marshal(changed)
	if err != nil {
		return fmt.Errorf("failed to marshal diff: %w", err)
	}
	fields := make(map[string]any, len(changed.Changed))
	for name, v := range changed.Changed {
		fields[name] = encode(v)
	}

	attempt := 0
	op := func() error {
		attempt++
		pipe := p.client.TxPipeline()
		pipe.HSet(ctx, p.flagsKey(), fields)
		pipe.Set(ctx, p.tickKey(), snap.Tick, 0)
		pipe.Publish(ctx, p.channel, payload)
		if _, err := pipe.Exec(ctx); err != nil {
			if ctx.Err() != nil {
				return backoff.Permanent(err)
			}
			p.logger.Debug("redis write failed, retrying", "tick", snap.Tick, "attempt", attempt, "err", err)
			return err
		}
		return nil
	}
	if err := backoff.Retry(op, backoff.WithContext(p.newRetry(), ctx)); err != nil {
		return fmt.Errorf("failed to publish to redis: %w", err)
	}
	p.written = snap
	return nil
}

// Latest reads the published flag values back.
func (p *Publisher) Latest(ctx context.Context) (map[string]bool, error) {
	raw, err := p.client.HGetAll(ctx, p.flagsKey()).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read flags: %w", err)
	}
	out := make(map[string]bool, len(raw))
	for name, s := range raw {
		v, err := strconv.ParseBool(s)
		if err != nil {
			return nil, fmt.Errorf("flag %s: %w", name, err)
		}
		out[name] = v
	}
	return out, nil
}

// Subscribe returns a subscription to the diff channel. The caller closes it.
func (p *Publisher) Subscribe(ctx context.Context) *backend.PubSub {
	return p.client.Subscribe(ctx, p.channel)
}

// Close closes the underlying client.
func (p *Publisher) Close() error {
	return p.client.Close()
}

func encode(v bool) string {
	if v {
		return "1"
	}
	return "0"
}
