package speech

import (
	"errors"
	"strings"
	"sync"
	"time"

	"golang.org/x/exp/slog"
)

const (
	// CaptureSeconds is how long a capture may run before it stops itself.
	CaptureSeconds = 60
	// NoSpeechDetected replaces an empty transcript.
	NoSpeechDetected = "No speech detected"

	noticeUnsupported = "Speech recognition is not supported in this browser."
	noticeEngineError = "Speech recognition error occurred."
	noticeMicrophone  = "Unable to access microphone."
)

var ErrClosed = errors.New("speech controller closed")

type State int

const (
	Idle State = iota
	Recording
)

func (s State) String() string {
	if s == Recording {
		return "recording"
	}
	return "idle"
}

// Notifier shows transient notices. client.Notifier satisfies it.
type Notifier interface {
	Error(msg string)
}

type Ticker interface {
	C() <-chan time.Time
	Stop()
}

type timeTicker struct{ t *time.Ticker }

func (t timeTicker) C() <-chan time.Time { return t.t.C }
func (t timeTicker) Stop()               { t.t.Stop() }

func newTimeTicker(d time.Duration) Ticker { return timeTicker{time.NewTicker(d)} }

// Controller runs at most one capture session at a time and hands every
// finished transcript to onTranscript.
type Controller struct {
	engine       Engine
	notify       Notifier
	onTranscript func(string)
	log          *slog.Logger
	newTicker    func(time.Duration) Ticker

	mu        sync.Mutex
	state     State
	remaining int
	current   *session
	closed    bool
}

func NewController(engine Engine, notify Notifier, onTranscript func(string), log *slog.Logger) *Controller {
	return &Controller{
		engine:       engine,
		notify:       notify,
		onTranscript: onTranscript,
		log:          log.With(slog.String("component", "speech_controller")),
		newTicker:    newTimeTicker,
		remaining:    CaptureSeconds,
	}
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Remaining is the countdown shown while recording, in seconds.
func (c *Controller) Remaining() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.remaining
}

// Start opens a session. It is a no-op while already recording.
func (c *Controller) Start() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	if c.state == Recording {
		c.mu.Unlock()
		return nil
	}
	if c.engine == nil {
		c.mu.Unlock()
		c.notice(noticeUnsupported)
		return ErrUnsupportedCapability
	}
	s := &session{c: c, done: make(chan struct{})}
	c.state = Recording
	c.remaining = CaptureSeconds
	c.current = s
	c.mu.Unlock()

	// The engine may call back synchronously, so it runs without c.mu.
	rec, err := c.engine.Start(Options{Locale: DefaultLocale, Continuous: true, InterimResults: false}, s)
	if err != nil {
		c.mu.Lock()
		if c.current == s {
			c.current = nil
			c.state = Idle
		}
		c.mu.Unlock()
		s.halt()
		if errors.Is(err, ErrUnsupportedCapability) {
			c.notice(noticeUnsupported)
		} else {
			c.log.Error("start recognition", slog.Any("error", err))
			c.notice(noticeMicrophone)
		}
		return err
	}

	s.mu.Lock()
	s.rec = rec
	s.mu.Unlock()

	c.mu.Lock()
	live := c.current == s
	c.mu.Unlock()
	if !live {
		// Stopped from a callback before Start returned.
		rec.Stop()
		return nil
	}

	s.ticker = c.newTicker(time.Second)
	go c.countdown(s, s.ticker)
	c.log.Debug("recording started")
	return nil
}

// Stop ends the active session, if any. The transcript is emitted once the
// engine reports the end.
func (c *Controller) Stop() {
	c.mu.Lock()
	s := c.current
	c.mu.Unlock()
	if s != nil {
		c.stopSession(s)
	}
}

// Close stops any capture and refuses new ones.
func (c *Controller) Close() {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()
	c.Stop()
}

func (c *Controller) countdown(s *session, t Ticker) {
	defer t.Stop()
	for {
		select {
		case <-s.done:
			return
		case <-t.C():
			c.mu.Lock()
			if c.current != s {
				c.mu.Unlock()
				return
			}
			c.remaining--
			expired := c.remaining <= 0
			c.mu.Unlock()
			if expired {
				c.log.Debug("capture window elapsed")
				c.stopSession(s)
				return
			}
		}
	}
}

// stopSession moves to Idle and asks the engine to end. Locks are released
// before calling into the engine.
func (c *Controller) stopSession(s *session) {
	c.mu.Lock()
	if c.current != s {
		c.mu.Unlock()
		return
	}
	c.current = nil
	c.state = Idle
	c.remaining = CaptureSeconds
	c.mu.Unlock()

	s.halt()
	if rec := s.recognition(); rec != nil {
		rec.Stop()
	}
}

func (c *Controller) notice(msg string) {
	if c.notify != nil {
		c.notify.Error(msg)
	}
}

// session is the event sink of one recognition, so late callbacks from an
// old session never touch a newer buffer.
type session struct {
	c      *Controller
	ticker Ticker

	mu        sync.Mutex
	rec       Recognition
	segments  []string
	finalized bool

	haltOnce sync.Once
	done     chan struct{}
}

func (s *session) halt() {
	s.haltOnce.Do(func() { close(s.done) })
}

func (s *session) recognition() Recognition {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rec
}

func (s *session) OnResult(segments []Segment) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.finalized {
		return
	}
	for _, seg := range segments {
		if !seg.Final {
			continue
		}
		if text := strings.TrimSpace(seg.Transcript); text != "" {
			s.segments = append(s.segments, text)
		}
	}
}

func (s *session) OnError(err error) {
	s.c.log.Warn("recognition error", slog.Any("error", err))
	s.c.notice(noticeEngineError)
	s.c.stopSession(s)
}

func (s *session) OnEnd() {
	s.mu.Lock()
	if s.finalized {
		s.mu.Unlock()
		return
	}
	s.finalized = true
	text := strings.TrimSpace(strings.Join(s.segments, " "))
	s.segments = nil
	s.mu.Unlock()

	// The engine may end on its own.
	s.c.stopSession(s)

	if text == "" {
		text = NoSpeechDetected
	}
	if s.c.onTranscript != nil {
		s.c.onTranscript(text)
	}
}
