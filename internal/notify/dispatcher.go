package notify

import (
	"context"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"
)

var pushDeliveries = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "duo_push_deliveries_total",
		Help: "Push notification deliveries by transport and result.",
	},
	[]string{"transport", "result"},
)

func init() {
	prometheus.MustRegister(pushDeliveries)
}

// Delivery is the pending outcome of one dispatched notification.
// Request paths drop it; tests and shutdown code may wait on it.
type Delivery struct {
	done chan struct{}
	err  error
}

func finished(err error) *Delivery {
	d := &Delivery{done: make(chan struct{}), err: err}
	close(d.done)
	return d
}

// Done is closed once the delivery attempt has finished
func (d *Delivery) Done() <-chan struct{} {
	return d.done
}

// Wait blocks until the delivery finishes or ctx ends
func (d *Delivery) Wait(ctx context.Context) error {
	select {
	case <-d.done:
		return d.err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Dispatcher sends notifications in the background
type Dispatcher struct {
	sender  Sender
	timeout time.Duration

	mu     sync.Mutex
	closed bool
	wg     sync.WaitGroup
}

// NewDispatcher creates a dispatcher that gives each delivery at most timeout
func NewDispatcher(sender Sender, timeout time.Duration) *Dispatcher {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Dispatcher{sender: sender, timeout: timeout}
}

// Dispatch starts delivering msg to token and returns immediately.
// The delivery outlives ctx's cancellation but keeps its values.
// Failures are logged here and never returned to the caller's request.
func (d *Dispatcher) Dispatch(ctx context.Context, token string, msg Message) *Delivery {
	if token == "" {
		return finished(ErrNoToken)
	}

	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return finished(ErrClosed)
	}
	d.wg.Add(1)
	d.mu.Unlock()

	delivery := &Delivery{done: make(chan struct{})}
	sendCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), d.timeout)

	go func() {
		defer d.wg.Done()
		defer close(delivery.done)
		defer cancel()

		transport := transportOf(token)
		err := d.sender.Send(sendCtx, token, msg)
		delivery.err = err
		if err != nil {
			pushDeliveries.WithLabelValues(transport, "error").Inc()
			log.Warn().
				Err(err).
				Str("transport", transport).
				Str("push_token", maskToken(token)).
				Str("title", msg.Title).
				Msg("Failed to send push notification")
			return
		}
		pushDeliveries.WithLabelValues(transport, "sent").Inc()
		log.Debug().
			Str("transport", transport).
			Str("push_token", maskToken(token)).
			Msg("Push notification sent")
	}()

	return delivery
}

// Close stops accepting deliveries and waits for in-flight ones until ctx ends
func (d *Dispatcher) Close(ctx context.Context) error {
	d.mu.Lock()
	d.closed = true
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
