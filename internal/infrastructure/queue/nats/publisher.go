// Package nats publishes document-upload events for downstream consumers
// (study analytics, cache warmers). Publishing is an integration hook only:
// the upload flow never fails on a publish error.
package nats

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/avelkov/study-tutor-backend/internal/infrastructure/resilience"
)

type Publisher struct {
	conn     *nats.Conn
	subject  string
	executor *resilience.Executor
}

type Options struct {
	ConnectTimeout time.Duration
	ReconnectWait  time.Duration
	MaxReconnects  int
	// Resilience enables retries and the circuit breaker around publishes.
	// Nil means one attempt per event.
	Resilience *resilience.Config
}

func New(url, subject string) (*Publisher, error) {
	return NewWithOptions(url, subject, Options{})
}

func NewWithOptions(url, subject string, options Options) (*Publisher, error) {
	connectTimeout := options.ConnectTimeout
	if connectTimeout <= 0 {
		connectTimeout = 2 * time.Second
	}
	reconnectWait := options.ReconnectWait
	if reconnectWait <= 0 {
		reconnectWait = 2 * time.Second
	}
	maxReconnects := options.MaxReconnects
	if maxReconnects <= 0 {
		maxReconnects = 60
	}

	conn, err := nats.Connect(
		url,
		nats.Name("study-tutor-backend"),
		nats.Timeout(connectTimeout),
		nats.ReconnectWait(reconnectWait),
		nats.MaxReconnects(maxReconnects),
		nats.RetryOnFailedConnect(true),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			slog.Warn("nats disconnected", "error", err)
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			slog.Info("nats reconnected", "url", nc.ConnectedUrl())
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("connect nats: %w", err)
	}

	var executor *resilience.Executor
	if options.Resilience != nil {
		executor = resilience.NewExecutor("nats.publish", *options.Resilience, classifyPublishError)
	}

	return &Publisher{
		conn:     conn,
		subject:  subject,
		executor: executor,
	}, nil
}

func (p *Publisher) PublishDocumentUploaded(ctx context.Context, documentID int64) error {
	payload := []byte(strconv.FormatInt(documentID, 10))
	call := func(_ context.Context) error {
		if err := p.conn.Publish(p.subject, payload); err != nil {
			return fmt.Errorf("nats publish: %w", err)
		}
		return nil
	}

	if p.executor != nil {
		return p.executor.Execute(ctx, call)
	}
	return call(ctx)
}

func (p *Publisher) Close() {
	if p.conn != nil {
		p.conn.Close()
	}
}
