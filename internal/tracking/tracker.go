package tracking

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/openmenu/storefront/internal/backend"
	"github.com/openmenu/storefront/internal/models"
)

// State is the tracker's position in the polling lifecycle.
type State string

const (
	// StateAwaitingFirst: no response received yet.
	StateAwaitingFirst State = "awaiting-first-response"
	// StateTracking: an order is held and its status is non-terminal.
	StateTracking State = "tracking"
	// StateTerminal: the order reached DELIVERED or CANCELED; polling stopped.
	StateTerminal State = "terminal"
	// StateErrorNoData: a hard failure occurred before any order was fetched.
	StateErrorNoData State = "error-no-data"
)

// Fetcher is the subset of the backend client the tracker needs.
type Fetcher interface {
	GetOrder(ctx context.Context, id string) (*models.Order, error)
}

// Snapshot is a point-in-time view of the tracker for rendering.
type Snapshot struct {
	State   State         `json:"state"`
	Order   *models.Order `json:"order,omitempty"`
	Warning string        `json:"warning,omitempty"`
}

// Tracker polls one order until it reaches a terminal status. The pending
// timer is explicitly owned: Stop cancels it and no callback fires
// afterwards. Within one polling cycle a fetch fully completes before the
// next is scheduled; there is never more than one in-flight fetch.
type Tracker struct {
	fetcher      Fetcher
	orderID      string
	interval     time.Duration
	fetchTimeout time.Duration
	log          *slog.Logger

	mu       sync.Mutex
	timer    *time.Timer
	fetching bool
	stopped  bool
	order    *models.Order
	warning  string
	state    State
}

// New creates a tracker for the given order. Call Start to begin polling.
func New(fetcher Fetcher, orderID string, interval, fetchTimeout time.Duration, log *slog.Logger) *Tracker {
	return &Tracker{
		fetcher:      fetcher,
		orderID:      orderID,
		interval:     interval,
		fetchTimeout: fetchTimeout,
		log:          log,
		state:        StateAwaitingFirst,
	}
}

// Start issues an immediate fetch and schedules follow-ups.
func (t *Tracker) Start() {
	go t.poll()
}

// Refresh cancels any pending scheduled fetch, fetches immediately and
// reschedules. A refresh during an in-flight fetch is a no-op; that fetch
// will reschedule on completion.
func (t *Tracker) Refresh() {
	go t.poll()
}

// Stop cancels the pending timer. Safe to call more than once; a fetch in
// flight finishes but writes nothing and schedules nothing afterwards.
func (t *Tracker) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stopped = true
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
}

// Snapshot returns the current state, a copy of the held order, and any
// dismissible warning.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()

	snap := Snapshot{State: t.state, Warning: t.warning}
	if t.order != nil {
		o := *t.order
		snap.Order = &o
	}
	return snap
}

// DismissWarning clears the warning from the last hard fetch failure.
// Previously loaded order data is unaffected.
func (t *Tracker) DismissWarning() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.warning = ""
}

// OrderID returns the tracked order's identifier.
func (t *Tracker) OrderID() string {
	return t.orderID
}

func (t *Tracker) poll() {
	t.mu.Lock()
	if t.stopped || t.fetching || t.state == StateTerminal {
		t.mu.Unlock()
		return
	}
	t.fetching = true
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
	t.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), t.fetchTimeout)
	order, err := t.fetcher.GetOrder(ctx, t.orderID)
	cancel()

	t.mu.Lock()
	defer t.mu.Unlock()
	t.fetching = false

	if t.stopped {
		return
	}

	switch {
	case err == nil:
		t.order = order
		t.warning = ""
		if order.Status.IsTerminal() {
			t.state = StateTerminal
			t.log.Info("order reached terminal status",
				"order_id", t.orderID, "status", order.Status)
			return
		}
		t.state = StateTracking

	case errors.Is(err, backend.ErrOrderNotFound):
		// Not indexed yet after creation. Not an error; keep polling.

	default:
		t.warning = err.Error()
		if t.order == nil {
			t.state = StateErrorNoData
		}
		t.log.Warn("order status fetch failed", "order_id", t.orderID, "error", err)
	}

	t.timer = time.AfterFunc(t.interval, t.poll)
}
