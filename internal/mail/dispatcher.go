package mail

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// sendTimeout bounds a single delivery attempt by the worker.
const sendTimeout = 30 * time.Second

// Dispatcher decouples HTTP handlers from SMTP delivery with a buffered
// queue and a single background worker. Enqueue never blocks: when the
// queue is full the message is dropped with a warning, trading delivery
// guarantees for request latency.
type Dispatcher struct {
	sender Sender
	queue  chan Message

	stop     chan struct{}
	stopOnce sync.Once
	done     chan struct{}
}

// NewDispatcher creates a dispatcher with the given queue capacity and
// starts its worker goroutine.
func NewDispatcher(sender Sender, queueSize int) *Dispatcher {
	if queueSize <= 0 {
		queueSize = 64
	}

	d := &Dispatcher{
		sender: sender,
		queue:  make(chan Message, queueSize),
		stop:   make(chan struct{}),
		done:   make(chan struct{}),
	}
	go d.worker()
	return d
}

// Enqueue queues a message for background delivery. Returns false if the
// queue is full and the message was dropped.
func (d *Dispatcher) Enqueue(msg Message) bool {
	select {
	case d.queue <- msg:
		return true
	default:
		slog.Warn("mail queue full, dropping message",
			slog.String("subject", msg.Subject),
		)
		return false
	}
}

// Close stops the worker after draining messages already queued. Safe to
// call more than once.
func (d *Dispatcher) Close() {
	d.stopOnce.Do(func() { close(d.stop) })
	<-d.done
}

// worker delivers queued messages one at a time until Close.
func (d *Dispatcher) worker() {
	defer close(d.done)

	for {
		select {
		case msg := <-d.queue:
			d.deliver(msg)
		case <-d.stop:
			// Drain whatever was queued before shutdown.
			for {
				select {
				case msg := <-d.queue:
					d.deliver(msg)
				default:
					return
				}
			}
		}
	}
}

func (d *Dispatcher) deliver(msg Message) {
	ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
	defer cancel()

	if err := d.sender.Send(ctx, msg); err != nil {
		slog.Error("mail delivery failed",
			slog.String("subject", msg.Subject),
			slog.Any("error", err),
		)
		return
	}

	slog.Info("mail sent", slog.String("subject", msg.Subject))
}
