package controller

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/muurk/ledctl/internal/ledconfig"
	"github.com/muurk/ledctl/internal/logging"
)

// ErrSubmitInFlight is returned by Submit while an earlier submit is outstanding.
var ErrSubmitInFlight = errors.New("a submit is already in flight")

// Syncer is the remote side of the controller. *ledconfig.Client implements it.
type Syncer interface {
	FetchConfig(ctx context.Context) (*ledconfig.DeviceConfig, error)
	PushConfig(ctx context.Context, desired ledconfig.DeviceConfig) (*ledconfig.DeviceConfig, error)
}

// Operation identifies a network operation for error reporting and Retry.
type Operation int

const (
	OpNone Operation = iota
	OpInitialize
	OpSubmit
)

func (o Operation) String() string {
	switch o {
	case OpInitialize:
		return "initialize"
	case OpSubmit:
		return "submit"
	default:
		return "none"
	}
}

// State is a point-in-time copy of everything the screen renders.
type State struct {
	// Config is the submittable configuration
	Config ledconfig.DeviceConfig

	// Accent is the display-only color, updated on every drag frame
	Accent string

	// Loading is true while any request is outstanding
	Loading bool

	// LastError is the most recent failure, cleared by the next applied response
	LastError error

	// LastFailed is the operation that produced LastError
	LastFailed Operation
}

// CanRetry reports whether Retry has something to re-run.
func (s State) CanRetry() bool {
	return s.LastError != nil && s.LastFailed != OpNone
}

// Controller owns the local DeviceConfig and the loading/error flags.
//
// All methods are safe for concurrent use. The lock is never held across a
// network call; responses are ordered with sequence numbers instead, so a
// response is applied only if no newer request was issued after it.
type Controller struct {
	syncer Syncer

	mu          sync.Mutex
	state       State
	seq         uint64 // last issued request number
	inFlight    int
	submitting  bool
	subscribers map[int]func(State)
	nextSubID   int
}

// New creates a controller seeded with defaults, which is the configuration
// shown until the first response arrives.
func New(syncer Syncer, defaults ledconfig.DeviceConfig) *Controller {
	return &Controller{
		syncer: syncer,
		state: State{
			Config: defaults,
			Accent: defaults.Color,
		},
		subscribers: make(map[int]func(State)),
	}
}

// Snapshot returns a copy of the current state.
func (c *Controller) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Subscribe registers fn to be called with a snapshot after every state
// change. fn runs on the goroutine that made the change and must not block.
// The returned function removes the subscription.
func (c *Controller) Subscribe(fn func(State)) (unsubscribe func()) {
	c.mu.Lock()
	id := c.nextSubID
	c.nextSubID++
	c.subscribers[id] = fn
	c.mu.Unlock()

	return func() {
		c.mu.Lock()
		delete(c.subscribers, id)
		c.mu.Unlock()
	}
}

// update applies fn under the lock and notifies subscribers afterwards.
func (c *Controller) update(fn func(s *State)) {
	c.mu.Lock()
	fn(&c.state)
	snapshot := c.state
	subs := make([]func(State), 0, len(c.subscribers))
	for _, sub := range c.subscribers {
		subs = append(subs, sub)
	}
	c.mu.Unlock()

	for _, sub := range subs {
		sub(snapshot)
	}
}

// SetMode changes the local mode. Values outside the enum are rejected.
func (c *Controller) SetMode(m ledconfig.Mode) error {
	if err := ledconfig.ValidateMode(m); err != nil {
		return err
	}
	c.update(func(s *State) { s.Config.Mode = m })
	return nil
}

// PreviewColor handles an intermediate drag frame: only the display accent
// changes, the submittable color does not.
func (c *Controller) PreviewColor(hex string) error {
	color, err := ledconfig.NormalizeColor(hex)
	if err != nil {
		return err
	}
	c.update(func(s *State) { s.Accent = color })
	return nil
}

// SetColor commits a color on drag completion.
func (c *Controller) SetColor(hex string) error {
	color, err := ledconfig.NormalizeColor(hex)
	if err != nil {
		return err
	}
	c.update(func(s *State) {
		s.Config.Color = color
		s.Accent = color
	})
	return nil
}

// SetBrightness stores brightness clamped to [0,100].
func (c *Controller) SetBrightness(v int) {
	v = ledconfig.ClampBrightness(v)
	c.update(func(s *State) { s.Config.Brightness = v })
}

// begin issues a new request number and marks loading.
func (c *Controller) begin(op Operation) uint64 {
	var seq uint64
	c.update(func(s *State) {
		c.seq++
		seq = c.seq
		c.inFlight++
		s.Loading = true
	})
	logging.LogStateTransition(op.String()+"_started", seq)
	return seq
}

// finish records the outcome of request seq. received is applied only when
// seq is still the newest request.
func (c *Controller) finish(op Operation, seq uint64, received *ledconfig.DeviceConfig, err error) {
	c.update(func(s *State) {
		c.inFlight--
		s.Loading = c.inFlight > 0
		if op == OpSubmit {
			c.submitting = false
		}

		if seq != c.seq {
			logging.Warn("Discarding stale response",
				zap.String("operation", op.String()),
				zap.Uint64("seq", seq),
				zap.Uint64("latest_seq", c.seq),
				zap.Error(err),
			)
			return
		}

		if err != nil {
			s.LastError = err
			s.LastFailed = op
			logging.Error("Request failed",
				zap.String("operation", op.String()),
				zap.Uint64("seq", seq),
				zap.Error(err),
			)
			return
		}

		s.Config = *received
		s.Accent = received.Color
		s.LastError = nil
		s.LastFailed = OpNone
		logging.LogStateTransition(op.String()+"_applied", seq,
			zap.String("config", received.Summary()),
		)
	})
}

// Initialize fetches the controller's current configuration and replaces the
// local one with it. On failure the local configuration is left as is and the
// error is recorded; nothing is retried.
func (c *Controller) Initialize(ctx context.Context) error {
	seq := c.begin(OpInitialize)
	received, err := c.syncer.FetchConfig(ctx)
	c.finish(OpInitialize, seq, received, err)
	return err
}

// Submit pushes the current selection. On success the configuration the
// controller reports as received replaces the local one. On failure the local
// selection is kept and nothing is retried.
func (c *Controller) Submit(ctx context.Context) error {
	c.mu.Lock()
	if c.submitting {
		c.mu.Unlock()
		return ErrSubmitInFlight
	}
	c.submitting = true
	desired := c.state.Config
	c.mu.Unlock()

	seq := c.begin(OpSubmit)
	received, err := c.syncer.PushConfig(ctx, desired)
	c.finish(OpSubmit, seq, received, err)
	return err
}

// Retry re-runs the operation that last failed. It is a no-op when nothing
// has failed since the last applied response.
func (c *Controller) Retry(ctx context.Context) error {
	switch c.Snapshot().LastFailed {
	case OpInitialize:
		return c.Initialize(ctx)
	case OpSubmit:
		return c.Submit(ctx)
	default:
		return nil
	}
}

// ApplyRemote replaces the local configuration with one pushed by the
// controller outside of a request (the watch channel). It is ignored while a
// request is outstanding, since that request's response supersedes it.
func (c *Controller) ApplyRemote(config ledconfig.DeviceConfig) bool {
	if errs := ledconfig.ValidateDeviceConfig(&config); len(errs) > 0 {
		logging.Warn("Ignoring invalid remote configuration", zap.Error(errs[0]))
		return false
	}

	applied := false
	c.update(func(s *State) {
		if c.inFlight > 0 {
			return
		}
		s.Config = config
		s.Accent = config.Color
		applied = true
	})
	if applied {
		logging.LogStateTransition("remote_applied", 0, zap.String("config", config.Summary()))
	}
	return applied
}
