package voice

import (
	"bufio"
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/pthm-cable/msa3d/config"
)

// ErrUnavailable is returned by a Recognizer when recognition cannot run at
// all. The listener stops instead of restarting.
var ErrUnavailable = errors.New("voice: recognition unavailable")

// Recognizer runs one recognition session. Final transcripts are sent on out;
// Recognize returns when the session ends.
type Recognizer interface {
	Recognize(ctx context.Context, out chan<- string) error
}

// RecognizerFunc adapts a function to the Recognizer interface.
type RecognizerFunc func(ctx context.Context, out chan<- string) error

func (f RecognizerFunc) Recognize(ctx context.Context, out chan<- string) error {
	return f(ctx, out)
}

// Event is one final transcript.
type Event struct {
	Transcript string
	Wake       bool
}

// Status is the listener state shown in the status indicator.
type Status uint32

const (
	StatusIdle Status = iota
	StatusListening
	StatusError
	StatusUnavailable
	StatusStopped
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "Voice: idle"
	case StatusListening:
		return "Voice: listening"
	case StatusError:
		return "Voice: error"
	case StatusUnavailable:
		return "Voice: unavailable"
	case StatusStopped:
		return "Voice: stopped"
	}
	return "Voice: unknown"
}

// Listener supervises a Recognizer, restarting it after every session.
type Listener struct {
	rec          Recognizer
	phrases      []string
	restartDelay time.Duration
	logger       *slog.Logger

	events   chan Event
	status   atomic.Uint32
	sessions atomic.Int64
}

// NewListener creates a listener. phrases should already be lower case;
// an empty set falls back to DefaultWakePhrases.
func NewListener(rec Recognizer, cfg config.VoiceConfig, phrases []string, logger *slog.Logger) *Listener {
	if logger == nil {
		logger = slog.Default()
	}
	if len(phrases) == 0 {
		phrases = DefaultWakePhrases
	}
	return &Listener{
		rec:          rec,
		phrases:      phrases,
		restartDelay: cfg.RestartDelay,
		logger:       logger,
		events:       make(chan Event, 16),
	}
}

// Run starts recognition and restarts it every time a session ends, with or
// without an error, until ctx is cancelled or the recognizer reports
// ErrUnavailable.
func (l *Listener) Run(ctx context.Context) error {
	defer func() {
		if l.Status() != StatusUnavailable {
			l.setStatus(StatusStopped)
		}
	}()

	for {
		err := l.session(ctx)
		if ctx.Err() != nil {
			return ctx.Err()
		}

		switch {
		case errors.Is(err, ErrUnavailable):
			l.setStatus(StatusUnavailable)
			l.logger.Warn("speech recognition unavailable")
			return err
		case err != nil:
			l.setStatus(StatusError)
			l.logger.Warn("speech recognition error", "error", err)
		default:
			l.setStatus(StatusIdle)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(l.restartDelay):
		}
	}
}

// session runs one recognition session and forwards its transcripts.
func (l *Listener) session(ctx context.Context) error {
	l.sessions.Add(1)
	l.setStatus(StatusListening)

	out := make(chan string)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for text := range out {
			l.publish(ctx, text)
		}
	}()

	err := l.rec.Recognize(ctx, out)
	close(out)
	wg.Wait()
	return err
}

func (l *Listener) publish(ctx context.Context, text string) {
	ev := Event{Transcript: text, Wake: MatchWake(text, l.phrases)}
	l.logger.Info("transcript", "text", text, "wake", ev.Wake)
	select {
	case l.events <- ev:
	case <-ctx.Done():
	}
}

// Events delivers transcripts in the order they were recognized.
func (l *Listener) Events() <-chan Event {
	return l.events
}

// Status returns the current listener state.
func (l *Listener) Status() Status {
	return Status(l.status.Load())
}

// Sessions returns how many recognition sessions have been started.
func (l *Listener) Sessions() int64 {
	return l.sessions.Load()
}

func (l *Listener) setStatus(s Status) {
	l.status.Store(uint32(s))
}

// LineRecognizer treats each line of a reader as one utterance. Each
// session delivers a single line; end of input means no more speech will
// ever arrive, reported as ErrUnavailable.
type LineRecognizer struct {
	once  sync.Once
	r     io.Reader
	lines chan string
	err   error // set before lines is closed
}

// NewLineRecognizer reads transcripts from r.
func NewLineRecognizer(r io.Reader) *LineRecognizer {
	return &LineRecognizer{r: r, lines: make(chan string)}
}

func (lr *LineRecognizer) scan() {
	sc := bufio.NewScanner(lr.r)
	for sc.Scan() {
		lr.lines <- sc.Text()
	}
	lr.err = sc.Err()
	close(lr.lines)
}

// Recognize waits for the next non-blank line.
func (lr *LineRecognizer) Recognize(ctx context.Context, out chan<- string) error {
	lr.once.Do(func() { go lr.scan() })

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case line, ok := <-lr.lines:
			if !ok {
				if lr.err != nil {
					return errors.Join(ErrUnavailable, lr.err)
				}
				return ErrUnavailable
			}
			line = strings.TrimSpace(line)
			if line == "" {
				continue
			}
			select {
			case out <- line:
			case <-ctx.Done():
				return ctx.Err()
			}
			return nil
		}
	}
}
