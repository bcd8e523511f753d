package llm

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/abhisek/mathgenius/internal/store"
)

// EventSink records LLM request events. store.EventRepo satisfies it.
type EventSink interface {
	AppendLLMRequest(ctx context.Context, data store.LLMRequestEventData) error
}

// LoggingProvider is a decorator that records every request as an event
// and a debug log line.
type LoggingProvider struct {
	inner    Provider
	provider string
	events   EventSink
	log      *logrus.Entry
}

// WithLogging wraps p with event logging. events may be nil.
func WithLogging(p Provider, provider string, events EventSink, log *logrus.Entry) Provider {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &LoggingProvider{inner: p, provider: provider, events: events, log: log}
}

func (l *LoggingProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()
	resp, err := l.inner.Generate(ctx, req)

	data := store.LLMRequestEventData{
		Provider:  l.provider,
		Model:     l.inner.ModelID(),
		Purpose:   PurposeFrom(ctx),
		LatencyMs: time.Since(start).Milliseconds(),
		Success:   err == nil,
	}
	if resp != nil {
		data.InputTokens = resp.Usage.InputTokens
		data.OutputTokens = resp.Usage.OutputTokens
		if resp.Model != "" {
			data.Model = resp.Model
		}
	}
	if err != nil {
		data.ErrorMessage = err.Error()
	}

	entry := l.log.WithFields(logrus.Fields{
		"provider":   data.Provider,
		"model":      data.Model,
		"purpose":    data.Purpose,
		"latency_ms": data.LatencyMs,
		"tokens_in":  data.InputTokens,
		"tokens_out": data.OutputTokens,
	})
	if err != nil {
		entry.WithError(err).Debug("llm request failed")
	} else {
		entry.Debug("llm request")
	}

	if l.events != nil {
		if logErr := l.events.AppendLLMRequest(ctx, data); logErr != nil {
			l.log.WithError(logErr).Warn("failed to record LLM request event")
		}
	}
	return resp, err
}

func (l *LoggingProvider) ModelID() string {
	return l.inner.ModelID()
}
