package emevents

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/launchdarkly/go-sdk-common/v3/ldlog"

	"github.com/emitlabs/go-emit-sdk/emevent"
)

// Dispatcher drives the delivery loop: a single consumer goroutine watches the buffer
// and hands ready batches to a fixed pool of send workers. Flush and Stop are
// synchronous; Stop performs a final flush and is idempotent.
type Dispatcher struct {
	config       EventsConfiguration
	buffer       EventBuffer
	sender       EventSender
	processor    *responseProcessor
	loggers      ldlog.Loggers
	batchSize    int32
	disabled     int32
	started      int32
	sendCh       chan []*emevent.Event
	stopCh       chan struct{}
	consumerDone chan struct{}
	workersDone  sync.WaitGroup
	startOnce    sync.Once
	stopOnce     sync.Once
}

// NewDispatcher creates a dispatcher over the given buffer. A nil buffer gets the
// default in-memory implementation. Call Start to begin background delivery.
func NewDispatcher(config EventsConfiguration, buffer EventBuffer) *Dispatcher {
	config = config.withDefaults()
	if buffer == nil {
		buffer = NewInMemoryEventBuffer(config)
	}
	sender := config.EventSender
	if sender == nil {
		sender = NewDefaultEventSender(config)
	}
	d := &Dispatcher{
		config:       config,
		buffer:       buffer,
		sender:       sender,
		loggers:      config.Loggers,
		batchSize:    int32(config.FlushQueueSize),
		sendCh:       make(chan []*emevent.Event, config.MaxWorkers),
		stopCh:       make(chan struct{}),
		consumerDone: make(chan struct{}),
	}
	d.processor = newResponseProcessor(d, buffer, config)
	return d
}

// Buffer returns the buffer this dispatcher consumes from.
func (d *Dispatcher) Buffer() EventBuffer {
	return d.buffer
}

// BatchSize returns the current batch size, which starts at FlushQueueSize and halves
// on payload-too-large responses.
func (d *Dispatcher) BatchSize() int {
	return int(atomic.LoadInt32(&d.batchSize))
}

func (d *Dispatcher) reduceBatchSize() {
	for {
		cur := atomic.LoadInt32(&d.batchSize)
		if cur <= 1 {
			return
		}
		next := cur / 2
		if atomic.CompareAndSwapInt32(&d.batchSize, cur, next) {
			return
		}
	}
}

// Disabled reports whether delivery has shut down after an unrecoverable error.
func (d *Dispatcher) Disabled() bool {
	return atomic.LoadInt32(&d.disabled) == 1
}

// Start launches the consumer goroutine and the worker pool. It is safe to call more
// than once.
func (d *Dispatcher) Start() {
	d.startOnce.Do(func() {
		atomic.StoreInt32(&d.started, 1)
		for i := 0; i < d.config.MaxWorkers; i++ {
			d.workersDone.Add(1)
			go d.runWorker()
		}
		go d.runConsumer()
	})
}

func (d *Dispatcher) runConsumer() {
	defer close(d.consumerDone)
	for {
		select {
		case <-d.stopCh:
			return
		default:
		}
		if batch := d.buffer.Pull(d.BatchSize()); len(batch) > 0 {
			select {
			case d.sendCh <- batch:
			case <-d.stopCh:
				// Already removed from the buffer, so the shutdown flush cannot
				// see these events. Deliver them here instead.
				d.send(batch)
				return
			}
			continue
		}
		timer := time.NewTimer(d.buffer.WaitTime())
		select {
		case <-d.stopCh:
			timer.Stop()
			return
		case <-d.buffer.NotifyCh():
			timer.Stop()
		case <-timer.C:
		}
	}
}

func (d *Dispatcher) runWorker() {
	defer d.workersDone.Done()
	for batch := range d.sendCh {
		d.send(batch)
	}
}

// send delivers one batch and routes the response through the processor. It never
// panics out; the delivery loop must survive indefinitely.
func (d *Dispatcher) send(events []*emevent.Event) {
	defer func() {
		if r := recover(); r != nil {
			d.loggers.Errorf("Unexpected panic during event delivery: %+v", r)
		}
	}()
	if d.Disabled() {
		d.loggers.Warnf("Dropping %d events; delivery was disabled by an unrecoverable error", len(events))
		return
	}
	payload, err := makeEventPayload(d.config.APIKey, d.config.MinIDLength, events)
	if err != nil {
		d.loggers.Errorf("Failed to serialize events: %s", err)
		d.processor.triggerCallbacks(events, 0, "Failed to serialize event")
		return
	}
	res := d.sender.SendEventData(payload)
	if err := d.processor.processResponse(res, events); err != nil {
		d.loggers.Errorf("Unrecoverable event delivery error, stopping deliveries: %s", err)
		atomic.StoreInt32(&d.disabled, 1)
	}
}

// Flush synchronously drains the buffer and delivers everything that was in it,
// including events whose backoff has not elapsed. It returns after the delivery
// attempt completes.
func (d *Dispatcher) Flush() {
	if events := d.buffer.PullAll(); len(events) > 0 {
		d.send(events)
	}
}

// Stop shuts the dispatcher down: the consumer exits, a final flush delivers whatever
// is left, and the worker pool drains. Safe to call more than once.
func (d *Dispatcher) Stop() {
	d.stopOnce.Do(func() {
		close(d.stopCh)
		if atomic.LoadInt32(&d.started) == 1 {
			<-d.consumerDone
		}
		d.Flush()
		if atomic.LoadInt32(&d.started) == 1 {
			close(d.sendCh)
			d.workersDone.Wait()
		}
		d.processor.close()
	})
}
