package watch

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"
	"vex-tracker/internal/constants"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const defaultBuffer = 16

// Collection holds the latest result set of one listing query and a
// subscription registry for its change feed. The visible items always equal
// the most recent successful fetch; a failed poll leaves them untouched.
type Collection[T Record] struct {
	source Source[T]
	opts   settings

	mu    sync.RWMutex
	items []T
	byID  map[int]T

	subMu sync.Mutex
	subs  map[string]chan Change[T]

	watchMu  sync.Mutex
	watching bool
	stop     chan struct{}
}

// New builds a Collection over source and populates it with one synchronous
// fetch. Construction fails if that initial fetch fails. Polling does not
// start until Watch is called.
func New[T Record](ctx context.Context, source Source[T], opts ...Option) (*Collection[T], error) {
	s := settings{
		interval:    constants.DefaultPollInterval,
		pollTimeout: constants.ExternalAPITimeout,
		buffer:      defaultBuffer,
		logger:      zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(&s)
	}

	items, err := source.Fetch(ctx)
	if err != nil {
		return nil, fmt.Errorf("initial fetch of %s: %w", source, err)
	}

	c := &Collection[T]{
		source: source,
		opts:   s,
		items:  items,
		byID:   indexByID(items),
		subs:   make(map[string]chan Change[T]),
	}
	return c, nil
}

// Current returns the items from the most recent successful fetch, in
// response order. The returned slice is a copy.
func (c *Collection[T]) Current() []T {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.items)
}

// Subscribe registers a change feed consumer and returns its id plus the
// channel changes arrive on. A subscriber that falls behind its buffer drops
// changes; it never blocks the poller.
func (c *Collection[T]) Subscribe() (string, <-chan Change[T]) {
	ch := make(chan Change[T], c.opts.buffer)
	id := uuid.New().String()

	c.subMu.Lock()
	c.subs[id] = ch
	c.subMu.Unlock()
	return id, ch
}

// Unsubscribe removes the subscriber and closes its channel. Unknown ids are
// ignored.
func (c *Collection[T]) Unsubscribe(id string) {
	c.subMu.Lock()
	defer c.subMu.Unlock()
	if ch, ok := c.subs[id]; ok {
		delete(c.subs, id)
		close(ch)
	}
}

// Watch starts the background poller. Calling it again while watching is a
// no-op; exactly one poller runs per collection.
func (c *Collection[T]) Watch() {
	c.watchMu.Lock()
	defer c.watchMu.Unlock()
	if c.watching {
		return
	}
	c.watching = true
	c.stop = make(chan struct{})
	go c.run(c.stop)
}

// Unwatch cancels future ticks. Safe to call if never watching. An in-flight
// fetch is not aborted; its late result is discarded rather than applied.
func (c *Collection[T]) Unwatch() {
	c.watchMu.Lock()
	defer c.watchMu.Unlock()
	if !c.watching {
		return
	}
	close(c.stop)
	c.watching = false
}

func (c *Collection[T]) run(stop chan struct{}) {
	ticker := time.NewTicker(c.opts.interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			c.poll(stop)
			// A tick that fired while the poll was in flight is skipped,
			// not queued.
			select {
			case <-ticker.C:
			default:
			}
		}
	}
}

func (c *Collection[T]) poll(stop chan struct{}) {
	ctx, cancel := context.WithTimeout(context.Background(), c.opts.pollTimeout)
	defer cancel()

	items, err := c.source.Fetch(ctx)

	select {
	case <-stop:
		// Torn down while the fetch was outstanding.
		return
	default:
	}

	if err != nil {
		c.opts.logger.Warn().Err(err).Stringer("source", c.source).Msg("poll failed")
		c.broadcast(Change[T]{Type: PollFailed, Err: err, At: time.Now()})
		return
	}

	for _, change := range c.apply(items) {
		c.broadcast(change)
	}
}

// apply replaces the contents with items and returns the presence diff:
// removals in previous order first, then additions in response order.
func (c *Collection[T]) apply(items []T) []Change[T] {
	now := time.Now()
	newByID := indexByID(items)

	c.mu.Lock()
	var changes []Change[T]
	for _, old := range c.items {
		if _, ok := newByID[old.RecordID()]; !ok {
			changes = append(changes, Change[T]{Type: Removed, Record: old, At: now})
		}
	}
	for _, item := range items {
		if _, ok := c.byID[item.RecordID()]; !ok {
			changes = append(changes, Change[T]{Type: Added, Record: item, At: now})
		}
	}
	c.items = items
	c.byID = newByID
	c.mu.Unlock()

	return changes
}

func (c *Collection[T]) broadcast(change Change[T]) {
	c.subMu.Lock()
	defer c.subMu.Unlock()
	for id, ch := range c.subs {
		select {
		case ch <- change:
		default:
			c.opts.logger.Debug().Str("subscriber", id).Msg("subscriber behind, change dropped")
		}
	}
}

func indexByID[T Record](items []T) map[int]T {
	m := make(map[int]T, len(items))
	for _, item := range items {
		m[item.RecordID()] = item
	}
	return m
}
