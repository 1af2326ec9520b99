package portal

import (
	"context"
	"errors"
	"fmt"

	"github.com/godbus/dbus/v5"

	"github.com/bnema/huewatch/internal/application/port"
	"github.com/bnema/huewatch/internal/logging"
)

const sourceName = "portal"

// signalConn is the subset of *dbus.Conn the signal source needs.
type signalConn interface {
	AddMatchSignal(options ...dbus.MatchOption) error
	RemoveMatchSignal(options ...dbus.MatchOption) error
	Signal(ch chan<- *dbus.Signal)
	RemoveSignal(ch chan<- *dbus.Signal)
	Close() error
}

func dialSessionBus() (signalConn, error) {
	return dbus.ConnectSessionBus()
}

// Compile-time interface check.
var _ port.SignalSource = (*SignalSource)(nil)

// SignalSource turns portal SettingChanged signals into change kinds.
type SignalSource struct {
	dial func() (signalConn, error)
}

// NewSignalSource creates a source on its own session bus connection.
func NewSignalSource() *SignalSource {
	return &SignalSource{dial: dialSessionBus}
}

// Name implements port.SignalSource.
func (*SignalSource) Name() string {
	return sourceName
}

// Run implements port.SignalSource.
func (s *SignalSource) Run(ctx context.Context, sink port.ChangeSink) error {
	log := logging.FromContext(ctx)

	conn, err := s.dial()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrPortalUnavailable, err)
	}
	defer conn.Close()

	match := []dbus.MatchOption{
		dbus.WithMatchObjectPath(portalPath),
		dbus.WithMatchInterface(portalInterface),
		dbus.WithMatchMember(signalSettingChanged),
	}
	if err := conn.AddMatchSignal(match...); err != nil {
		return fmt.Errorf("portal: add signal match: %w", err)
	}

	signals := make(chan *dbus.Signal, 16)
	conn.Signal(signals)

	defer func() {
		conn.RemoveSignal(signals)
		_ = conn.RemoveMatchSignal(match...)
	}()

	log.Debug().Msg("portal: watching SettingChanged")

	for {
		select {
		case sig, ok := <-signals:
			if !ok || sig == nil {
				if ctx.Err() != nil {
					return nil
				}
				return errors.New("portal: signal channel closed")
			}
			namespace, key, ok := parseSettingChanged(sig)
			if !ok {
				continue
			}
			kind, tracked := KindFor(namespace, key)
			if !tracked {
				log.Trace().Str("namespace", namespace).Str("key", key).Msg("portal: untracked setting")
				continue
			}
			log.Trace().Str("namespace", namespace).Str("key", key).Stringer("kind", kind).Msg("portal: setting changed")
			sink.Notify(kind)
		case <-ctx.Done():
			return nil
		}
	}
}

// parseSettingChanged reads the (namespace, key, value) body of a
// SettingChanged signal.
func parseSettingChanged(sig *dbus.Signal) (namespace, key string, ok bool) {
	if sig.Name != portalInterface+"."+signalSettingChanged || len(sig.Body) < 2 {
		return "", "", false
	}
	namespace, ok = sig.Body[0].(string)
	if !ok {
		return "", "", false
	}
	key, ok = sig.Body[1].(string)
	return namespace, key, ok
}
