package stream

import "context"

// Handler receives transport callbacks. Implementations may call it from
// any goroutine.
type Handler interface {
	OnOpen()
	OnEvent(data []byte)
	OnError(err error)
}

// Subscription is one live transport connection
type Subscription interface {
	Close() error
}

// EventStream opens subscriptions to a channel. Subscribe should return
// quickly and report the outcome through the handler; a returned error
// means the subscription could not even be started.
type EventStream interface {
	Subscribe(ctx context.Context, channel string, h Handler) (Subscription, error)
}

// StatusSink receives every state transition
type StatusSink interface {
	Status(state State, text string)
}

// StatusFunc adapts a function to StatusSink
type StatusFunc func(state State, text string)

// Status calls f
func (f StatusFunc) Status(state State, text string) {
	f(state, text)
}
