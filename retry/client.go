package retry

import (
	"context"

	ai "github.com/robertcrowe/arrg"
	"github.com/robertcrowe/arrg/chat"
)

// Client wraps a chat client so every request is retried on transient
// failures according to cfg. Permanent and user-input errors pass
// through on the first attempt.
func Client(c chat.Client, cfg Config) chat.Client {
	return chat.ClientFunc(func(ctx context.Context, messages []ai.Message, opts ...ai.Option) (*ai.Response, error) {
		return Do(ctx, cfg, func() (*ai.Response, error) {
			return c.Chat(ctx, messages, opts...)
		})
	})
}
