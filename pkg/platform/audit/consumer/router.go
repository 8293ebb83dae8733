// Package consumer routes and processes records from the audit stream.
package consumer

import (
	"context"
	"log/slog"
	"sort"

	kafka "almoner/internal/platform/kafka"
)

// TopicHandler handles messages from a specific topic.
type TopicHandler interface {
	Handle(ctx context.Context, msg *kafka.Message) error
}

// Router dispatches each message to the handler registered for its topic.
// The audit stream is one topic today; the router exists so a downstream
// consumer can subscribe to more (dead letters, replays) without a second
// poll loop.
type Router struct {
	handlers map[string]TopicHandler
	fallback TopicHandler
	logger   *slog.Logger
}

// NewRouter creates a topic router. The fallback, when non-nil, receives
// messages from topics no handler was registered for.
func NewRouter(logger *slog.Logger, fallback TopicHandler) *Router {
	return &Router{
		handlers: make(map[string]TopicHandler),
		fallback: fallback,
		logger:   logger,
	}
}

// Register adds a handler for a topic. Registering a topic twice replaces
// the earlier handler.
func (r *Router) Register(topic string, handler TopicHandler) {
	r.handlers[topic] = handler
}

// Topics lists the registered topics, sorted. Callers feed this to the
// consumer subscription so the registration below is the single source of
// what the group consumes.
func (r *Router) Topics() []string {
	topics := make([]string, 0, len(r.handlers))
	for topic := range r.handlers {
		topics = append(topics, topic)
	}
	sort.Strings(topics)
	return topics
}

// Handle routes the message by topic.
func (r *Router) Handle(ctx context.Context, msg *kafka.Message) error {
	if handler, ok := r.handlers[msg.Topic]; ok {
		return handler.Handle(ctx, msg)
	}
	if r.fallback != nil {
		return r.fallback.Handle(ctx, msg)
	}
	r.logger.Warn("unhandled topic, committing message",
		"topic", msg.Topic,
		"key", string(msg.Key),
	)
	// Returning nil commits the offset so an unroutable topic cannot wedge
	// the group.
	return nil
}
