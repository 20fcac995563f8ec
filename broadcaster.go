package router

import (
	"context"
	"net/url"
	"strings"
	"sync"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/atomic"
)

// NavigationSource tells subscribers what triggered a navigation.
type NavigationSource string

const (
	SourceProgrammatic NavigationSource = "programmatic"
	SourceLink         NavigationSource = "link"
	SourceHistory      NavigationSource = "history"
)

// NavigationEvent is delivered to every subscriber of a Broadcaster.
type NavigationEvent struct {
	ID       string
	URL      string
	Previous string
	Replace  bool
	Source   NavigationSource
}

// Subscriber handles a navigation and reports whether it matched it.
type Subscriber func(NavigationEvent) bool

// Subscription is returned by Subscribe.
type Subscription struct {
	id     string
	fn     Subscriber
	active *atomic.Bool
	owner  *Broadcaster
}

func (s *Subscription) ID() string {
	return s.id
}

// Active reports whether the subscription still receives events.
func (s *Subscription) Active() bool {
	return s.active.Load()
}

// Unsubscribe detaches the subscriber. It is safe to call more than once.
func (s *Subscription) Unsubscribe() {
	if !s.active.CompareAndSwap(true, false) {
		return
	}
	s.owner.remove(s)
}

// NavigateOptions configures a single navigation.
type NavigateOptions struct {
	Replace bool
	Source  NavigationSource
}

// NavigateOption is a functional option for Navigate.
type NavigateOption func(*NavigateOptions)

// WithReplace replaces the current history entry instead of pushing.
func WithReplace() NavigateOption {
	return func(o *NavigateOptions) {
		o.Replace = true
	}
}

// WithSource records what triggered the navigation.
func WithSource(source NavigationSource) NavigateOption {
	return func(o *NavigateOptions) {
		o.Source = source
	}
}

// BroadcasterStats are counters maintained by a Broadcaster.
type BroadcasterStats struct {
	Dispatched int64
	Deferred   int64
	Rejected   int64
}

// Broadcaster owns the current URL and fans navigations out to
// subscribers. Notifications for navigations issued while a pass is
// running are queued and drained through the Scheduler after the
// outermost pass completes.
type Broadcaster struct {
	mu             sync.Mutex
	current        string // last URL recorded by a navigation or traversal
	previous       string
	subs           []*Subscription
	pending        []NavigationEvent
	depth          int
	drainScheduled bool

	history   History
	scheduler Scheduler
	logger    Logger
	tracer    trace.Tracer
	unlisten  func()

	dispatched *atomic.Int64
	deferred   *atomic.Int64
	rejected   *atomic.Int64
}

// BroadcasterOption configures a Broadcaster.
type BroadcasterOption func(*Broadcaster)

// WithHistory sets the history stack. Defaults to a MemoryHistory at "/".
func WithHistory(h History) BroadcasterOption {
	return func(b *Broadcaster) {
		b.history = h
	}
}

// WithScheduler sets the scheduler used for deferred navigations.
// Defaults to SyncScheduler.
func WithScheduler(s Scheduler) BroadcasterOption {
	return func(b *Broadcaster) {
		b.scheduler = s
	}
}

func WithBroadcastLogger(l Logger) BroadcasterOption {
	return func(b *Broadcaster) {
		b.logger = l
	}
}

func WithTracer(t trace.Tracer) BroadcasterOption {
	return func(b *Broadcaster) {
		b.tracer = t
	}
}

// NewBroadcaster creates a Broadcaster and starts listening to its
// history for traversal.
func NewBroadcaster(opts ...BroadcasterOption) *Broadcaster {
	b := &Broadcaster{
		dispatched: atomic.NewInt64(0),
		deferred:   atomic.NewInt64(0),
		rejected:   atomic.NewInt64(0),
	}
	for _, opt := range opts {
		opt(b)
	}

	if b.history == nil {
		b.history = NewMemoryHistory("/")
	}
	if b.scheduler == nil {
		b.scheduler = SyncScheduler
	}
	if b.tracer == nil {
		b.tracer = defaultTracer()
	}
	b.logger = loggerOrDefault(b.logger)

	b.current = b.history.Location()
	b.unlisten = b.history.Listen(b.onTraverse)
	return b
}

var (
	defaultBroadcaster     *Broadcaster
	defaultBroadcasterOnce sync.Once
)

// DefaultBroadcaster returns the process wide Broadcaster, creating
// it on first use with the platform history and scheduler.
func DefaultBroadcaster() *Broadcaster {
	defaultBroadcasterOnce.Do(func() {
		defaultBroadcaster = NewBroadcaster(
			WithHistory(platformHistory()),
			WithScheduler(platformScheduler()),
		)
	})
	return defaultBroadcaster
}

// Route navigates the default Broadcaster to url, pushing a history
// entry unless replace is true.
func Route(url string, replace ...bool) (bool, error) {
	var opts []NavigateOption
	if len(replace) > 0 && replace[0] {
		opts = append(opts, WithReplace())
	}
	return DefaultBroadcaster().Navigate(url, opts...)
}

// Current returns the current URL as recorded by the history, so
// fragment changes made outside the broadcaster are reflected.
func (b *Broadcaster) Current() string {
	return b.history.Location()
}

// Previous returns the URL before the last navigation.
func (b *Broadcaster) Previous() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.previous
}

func (b *Broadcaster) History() History {
	return b.history
}

// Subscribers returns the number of active subscriptions.
func (b *Broadcaster) Subscribers() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}

// Pending returns the number of queued navigations.
func (b *Broadcaster) Pending() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.pending)
}

func (b *Broadcaster) Stats() BroadcasterStats {
	return BroadcasterStats{
		Dispatched: b.dispatched.Load(),
		Deferred:   b.deferred.Load(),
		Rejected:   b.rejected.Load(),
	}
}

// Subscribe registers fn. Subscribers are notified in registration order.
func (b *Broadcaster) Subscribe(fn Subscriber) *Subscription {
	sub := &Subscription{
		id:     uuid.NewString(),
		fn:     fn,
		active: atomic.NewBool(true),
		owner:  b,
	}
	b.mu.Lock()
	b.subs = append(b.subs, sub)
	b.mu.Unlock()
	return sub
}

func (b *Broadcaster) remove(sub *Subscription) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, s := range b.subs {
		if s == sub {
			b.subs = append(b.subs[:i:i], b.subs[i+1:]...)
			return
		}
	}
}

// Close stops listening to history traversal. Subscriptions are left
// untouched.
func (b *Broadcaster) Close() {
	if b.unlisten != nil {
		b.unlisten()
	}
}

// Navigate records url as the current URL, pushes or replaces the
// history entry unless url is already current, and notifies
// subscribers. It reports whether any subscriber matched.
// When called while a pass is running the notification is deferred
// and Navigate reports true.
func (b *Broadcaster) Navigate(url string, opts ...NavigateOption) (bool, error) {
	return b.NavigateContext(context.Background(), url, opts...)
}

// NavigateContext is Navigate with a parent context for tracing.
func (b *Broadcaster) NavigateContext(ctx context.Context, rawURL string, opts ...NavigateOption) (bool, error) {
	options := NavigateOptions{Source: SourceProgrammatic}
	for _, opt := range opts {
		opt(&options)
	}

	if err := validateNavigationURL(rawURL); err != nil {
		b.rejected.Inc()
		b.logger.Warn("navigation to %q rejected: %v", rawURL, err)
		return false, err
	}

	previous := b.history.Location()

	b.mu.Lock()
	ev := NavigationEvent{
		ID:       uuid.NewString(),
		URL:      rawURL,
		Previous: previous,
		Replace:  options.Replace,
		Source:   options.Source,
	}
	b.previous = previous
	b.current = rawURL
	b.mu.Unlock()

	switch {
	case rawURL == previous:
		// already there, subscribers are still notified
	case options.Replace:
		b.history.Replace(rawURL)
	default:
		b.history.Push(rawURL)
	}

	return b.dispatch(ctx, ev), nil
}

func (b *Broadcaster) onTraverse(location string) {
	// the history already moved, so the previous URL is the last one
	// the broadcaster recorded
	b.mu.Lock()
	ev := NavigationEvent{
		ID:       uuid.NewString(),
		URL:      location,
		Previous: b.current,
		Source:   SourceHistory,
	}
	b.previous = b.current
	b.current = location
	b.mu.Unlock()

	b.dispatch(context.Background(), ev)
}

// dispatch notifies subscribers of ev, or queues it behind a running
// pass or earlier queued navigations.
func (b *Broadcaster) dispatch(ctx context.Context, ev NavigationEvent) bool {
	b.mu.Lock()
	if b.depth > 0 || len(b.pending) > 0 {
		b.pending = append(b.pending, ev)
		schedule := b.depth == 0 && !b.drainScheduled
		if schedule {
			b.drainScheduled = true
		}
		b.mu.Unlock()
		b.deferred.Inc()
		b.logger.Debug("navigation to %s deferred behind earlier navigations", ev.URL)
		if schedule {
			b.scheduler.Schedule(b.drain)
		}
		return true
	}
	b.mu.Unlock()

	return b.deliver(ctx, ev)
}

func (b *Broadcaster) deliver(ctx context.Context, ev NavigationEvent) bool {
	handled := false
	b.pass(func() {
		handled = b.notify(ctx, ev)
	})
	return handled
}

// pass runs fn as a notification pass: navigations issued from fn
// are queued and drained once the outermost pass returns.
func (b *Broadcaster) pass(fn func()) {
	b.mu.Lock()
	b.depth++
	b.mu.Unlock()

	defer func() {
		b.mu.Lock()
		b.depth--
		schedule := b.depth == 0 && len(b.pending) > 0 && !b.drainScheduled
		if schedule {
			b.drainScheduled = true
		}
		b.mu.Unlock()

		if schedule {
			b.scheduler.Schedule(b.drain)
		}
	}()

	fn()
}

// drain delivers queued navigations one at a time in the order they
// were issued. Navigations queued while draining are appended and
// delivered by the same drain.
func (b *Broadcaster) drain() {
	for {
		b.mu.Lock()
		if b.depth > 0 {
			// the pass running now reschedules once it returns
			b.drainScheduled = false
			b.mu.Unlock()
			return
		}
		if len(b.pending) == 0 {
			b.drainScheduled = false
			b.mu.Unlock()
			return
		}
		ev := b.pending[0]
		b.pending = b.pending[1:]
		b.mu.Unlock()

		b.deliver(context.Background(), ev)
	}
}

func (b *Broadcaster) notify(ctx context.Context, ev NavigationEvent) bool {
	_, span := b.tracer.Start(ctx, "router.dispatch", trace.WithAttributes(
		attribute.String("router.navigation.id", ev.ID),
		attribute.String("router.navigation.url", ev.URL),
		attribute.String("router.navigation.previous", ev.Previous),
		attribute.String("router.navigation.source", string(ev.Source)),
	))
	defer span.End()

	b.mu.Lock()
	subs := make([]*Subscription, len(b.subs))
	copy(subs, b.subs)
	b.mu.Unlock()

	handled := false
	for _, sub := range subs {
		if !sub.active.Load() {
			continue
		}
		if sub.fn(ev) {
			handled = true
		}
	}

	b.dispatched.Inc()
	span.SetAttributes(
		attribute.Int("router.subscribers", len(subs)),
		attribute.Bool("router.handled", handled),
	)
	b.logger.Debug("dispatched %s (%s) to %d subscribers, handled=%t", ev.URL, ev.Source, len(subs), handled)

	return handled
}

func validateNavigationURL(rawURL string) error {
	if strings.TrimSpace(rawURL) == "" {
		return newNavigationError(rawURL, "url is empty")
	}
	if !strings.HasPrefix(rawURL, "/") || strings.HasPrefix(rawURL, "//") {
		return newNavigationError(rawURL, "url must be a rooted path")
	}
	if strings.ContainsAny(rawURL, " \t\r\n") {
		return newNavigationError(rawURL, "url contains whitespace")
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return newNavigationError(rawURL, err.Error())
	}
	if u.Scheme != "" || u.Host != "" {
		return newNavigationError(rawURL, "url must not include a scheme or host")
	}
	return nil
}
