package events

import "context"

// NoopPublisher backs tests and deployments without a broker.
type NoopPublisher struct{}

func (NoopPublisher) Publish(ctx context.Context, event OrderEvent) error { return nil }
func (NoopPublisher) Close() error                                        { return nil }
