package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	authin "emotrack/internal/modules/auth/port/in"
	"emotrack/internal/modules/live/domain"
	"emotrack/internal/modules/live/dto"
	livein "emotrack/internal/modules/live/port/in"
	liveout "emotrack/internal/modules/live/port/out"
	apperrors "emotrack/internal/platform/errors"
)

// Feed pumps live-channel events to the dashboard. One Feed serves one
// connection for its whole life; when the stream drops, the updates
// channel closes and stays closed.
type Feed struct {
	dialer liveout.Dialer
	auth   authin.Usecase
	log    *slog.Logger

	updates   chan dto.UpdateOutput
	stream    liveout.Stream
	closeOnce sync.Once
	mu        sync.Mutex
	opened    bool
}

func NewFeed(dialer liveout.Dialer, auth authin.Usecase, log *slog.Logger) livein.Usecase {
	return &Feed{
		dialer:  dialer,
		auth:    auth,
		log:     log,
		updates: make(chan dto.UpdateOutput, 1),
	}
}

func (f *Feed) Open(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.opened {
		return errors.New("live feed already opened")
	}
	session, err := f.auth.Current(ctx)
	if err != nil {
		return err
	}
	stream, err := f.dialer.Dial(ctx, session.Token)
	if err != nil {
		return fmt.Errorf("%w: open live channel: %v", apperrors.ErrNetwork, err)
	}
	f.stream = stream
	f.opened = true
	go f.pump(stream)
	return nil
}

func (f *Feed) Updates() <-chan dto.UpdateOutput {
	return f.updates
}

func (f *Feed) Close() error {
	f.closeOnce.Do(func() {
		f.mu.Lock()
		stream := f.stream
		f.stream = nil
		f.mu.Unlock()
		if stream != nil {
			if err := stream.Close(); err != nil {
				f.log.Debug("close live stream", "error", err)
			}
		}
	})
	return nil
}

// pump reads frames until the stream ends. A frame that fails to decode
// is dropped, not fatal; the live channel degrades to silence rather
// than breaking the dashboard.
func (f *Feed) pump(stream liveout.Stream) {
	defer close(f.updates)
	for {
		raw, err := stream.ReadMessage()
		if err != nil {
			f.log.Info("live channel closed", "error", err)
			return
		}
		event, err := decodeEvent(raw)
		if err != nil {
			f.log.Warn("malformed live event dropped", "error", err)
			continue
		}
		if event.Type != domain.EventStatsUpdate {
			f.log.Debug("ignoring live event", "type", event.Type)
			continue
		}
		out := dto.UpdateOutput{Type: event.Type, Data: event.Data}
		select {
		case f.updates <- out:
		default:
			// A pending update is superseded wholesale; only the newest
			// payload may be rendered.
			select {
			case <-f.updates:
			default:
			}
			f.updates <- out
		}
	}
}

func decodeEvent(raw []byte) (domain.Event, error) {
	var envelope struct {
		Type string          `json:"type"`
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return domain.Event{}, fmt.Errorf("%w: %v", apperrors.ErrMalformedMessage, err)
	}
	if envelope.Type == "" {
		return domain.Event{}, fmt.Errorf("%w: missing event type", apperrors.ErrMalformedMessage)
	}
	return domain.Event{Type: envelope.Type, Data: envelope.Data}, nil
}
