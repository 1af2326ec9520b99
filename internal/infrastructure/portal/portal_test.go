package portal

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/godbus/dbus/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/huewatch/internal/domain/entity"
)

// fakeObject answers portal calls from a table keyed by method and key.
type fakeObject struct {
	dbus.BusObject

	version  uint32
	noPortal bool
	readOne  map[string]any
	legacy   map[string]any
	calls    []string
}

func (f *fakeObject) Call(method string, _ dbus.Flags, args ...interface{}) *dbus.Call {
	f.calls = append(f.calls, method)
	switch method {
	case "org.freedesktop.DBus.Properties.Get":
		if f.noPortal {
			return &dbus.Call{Err: errors.New("no such interface")}
		}
		return &dbus.Call{Body: []interface{}{f.version}}
	case portalInterface + ".ReadOne":
		if v, ok := f.readOne[args[1].(string)]; ok {
			return &dbus.Call{Body: []interface{}{dbus.MakeVariant(v)}}
		}
		return &dbus.Call{Err: errors.New("unknown method ReadOne")}
	case portalInterface + ".Read":
		if v, ok := f.legacy[args[1].(string)]; ok {
			return &dbus.Call{Body: []interface{}{dbus.MakeVariant(dbus.MakeVariant(v))}}
		}
		return &dbus.Call{Err: errors.New("setting not found")}
	}
	return &dbus.Call{Err: errors.New("unexpected method " + method)}
}

func TestParseColorScheme(t *testing.T) {
	tests := []struct {
		name     string
		value    any
		wantDark bool
		wantOk   bool
	}{
		{"dark", uint32(1), true, true},
		{"light", uint32(2), false, true},
		{"no preference", uint32(0), false, false},
		{"nested variant", dbus.MakeVariant(uint32(1)), true, true},
		{"wrong type", "dark", false, false},
		{"out of range", uint32(7), false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dark, ok := parseColorScheme(tt.value)
			assert.Equal(t, tt.wantOk, ok)
			assert.Equal(t, tt.wantDark, dark)
		})
	}
}

func TestParseAccentColor(t *testing.T) {
	tests := []struct {
		name   string
		value  any
		want   entity.Color
		wantOk bool
	}{
		{"struct body", []any{0.2, 0.4, 0.6}, entity.RGB(0.2, 0.4, 0.6), true},
		{"float slice", []float64{1, 0, 0}, entity.RGB(1, 0, 0), true},
		{"unset", []any{-1.0, -1.0, -1.0}, entity.Color{}, false},
		{"above one", []float64{2, 0, 0}, entity.Color{}, false},
		{"short", []float64{1, 0}, entity.Color{}, false},
		{"wrong element", []any{"r", 0.0, 0.0}, entity.Color{}, false},
		{"wrong type", uint32(1), entity.Color{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := parseAccentColor(tt.value)
			assert.Equal(t, tt.wantOk, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseFlag(t *testing.T) {
	on, ok := parseFlag(uint32(1))
	assert.True(t, ok)
	assert.True(t, on)

	on, ok = parseFlag(uint32(0))
	assert.True(t, ok)
	assert.False(t, on)

	_, ok = parseFlag(int32(-1))
	assert.False(t, ok)
}

func TestKindFor(t *testing.T) {
	tests := []struct {
		namespace string
		key       string
		want      entity.ChangeKind
		wantOk    bool
	}{
		{nsAppearance, "color-scheme", entity.ChangeTheme, true},
		{nsAppearance, "accent-color", entity.ChangeAccent, true},
		{nsAppearance, "contrast", entity.ChangeAccessibility, true},
		{nsAppearance, "reduced-motion", entity.ChangeAccessibility, true},
		{nsInterface, "gtk-theme", entity.ChangeTheme, true},
		{nsInterface, "accent-color", entity.ChangeAccent, true},
		{nsInterface, "enable-animations", entity.ChangeAccessibility, true},
		{nsA11y, "high-contrast", entity.ChangeAccessibility, true},
		{nsInterface, "font-name", 0, false},
		{"org.example", "color-scheme", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.namespace+" "+tt.key, func(t *testing.T) {
			got, ok := KindFor(tt.namespace, tt.key)
			assert.Equal(t, tt.wantOk, ok)
			if tt.wantOk {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestProvider_ReadOne(t *testing.T) {
	obj := &fakeObject{
		version: 2,
		readOne: map[string]any{
			keyColorScheme:   uint32(1),
			keyAccentColor:   []any{0.0, 0.5, 1.0},
			keyContrast:      uint32(1),
			keyReducedMotion: uint32(0),
		},
	}
	p := newProvider(obj, zerolog.Nop())

	require.True(t, p.Available())
	assert.Equal(t, uint32(2), p.Version())
	assert.Equal(t, "portal", p.Name())
	assert.Equal(t, 100, p.Priority())

	dark, ok := p.DarkMode()
	assert.True(t, ok)
	assert.True(t, dark)

	accent, ok := p.AccentColor()
	assert.True(t, ok)
	assert.Equal(t, entity.RGB(0, 0.5, 1), accent)

	contrast, ok := p.HighContrast()
	assert.True(t, ok)
	assert.True(t, contrast)

	reduce, ok := p.ReduceMotion()
	assert.True(t, ok)
	assert.False(t, reduce)

	assert.NotContains(t, obj.calls, portalInterface+".Read")
}

func TestProvider_FallsBackToRead(t *testing.T) {
	obj := &fakeObject{
		version: 1,
		legacy:  map[string]any{keyColorScheme: uint32(2)},
	}
	p := newProvider(obj, zerolog.Nop())

	dark, ok := p.DarkMode()

	assert.True(t, ok)
	assert.False(t, dark)
	assert.Contains(t, obj.calls, portalInterface+".Read")

	_, err := p.Read(nsAppearance, keyAccentColor)
	assert.Error(t, err)
}

func TestProvider_Unavailable(t *testing.T) {
	p := newProvider(&fakeObject{noPortal: true}, zerolog.Nop())

	assert.False(t, p.Available())
	_, err := p.Read(nsAppearance, keyColorScheme)
	assert.ErrorIs(t, err, ErrPortalUnavailable)
	_, ok := p.DarkMode()
	assert.False(t, ok)
	assert.NoError(t, p.Close())
}

func TestProvider_SettingsWithoutPortalKeysAreUnknown(t *testing.T) {
	p := newProvider(&fakeObject{version: 2}, zerolog.Nop())

	_, ok := p.HighlightColor()
	assert.False(t, ok)
	for name, get := range map[string]func() (bool, bool){
		"reduce transparency":         p.ReduceTransparency,
		"differentiate without color": p.DifferentiateWithoutColor,
		"invert colors":               p.InvertColors,
		"autoplay animated images":    p.AutoplayAnimatedImages,
	} {
		_, ok := get()
		assert.False(t, ok, name)
	}
}

// fakeConn delivers signals pushed by the test.
type fakeConn struct {
	mu       sync.Mutex
	ch       chan<- *dbus.Signal
	matched  bool
	matchErr error
	attached chan struct{}
	closed   bool
}

func newFakeConn() *fakeConn {
	return &fakeConn{attached: make(chan struct{})}
}

func (c *fakeConn) AddMatchSignal(...dbus.MatchOption) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.matched = c.matchErr == nil
	return c.matchErr
}

func (c *fakeConn) RemoveMatchSignal(...dbus.MatchOption) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.matched = false
	return nil
}

func (c *fakeConn) Signal(ch chan<- *dbus.Signal) {
	c.mu.Lock()
	c.ch = ch
	c.mu.Unlock()
	close(c.attached)
}

func (c *fakeConn) RemoveSignal(chan<- *dbus.Signal) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ch = nil
}

func (c *fakeConn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

func (c *fakeConn) emit(namespace, key string, value any) {
	c.mu.Lock()
	ch := c.ch
	c.mu.Unlock()
	ch <- &dbus.Signal{
		Path: portalPath,
		Name: portalInterface + "." + signalSettingChanged,
		Body: []interface{}{namespace, key, dbus.MakeVariant(value)},
	}
}

type chanSink chan entity.ChangeKind

func (s chanSink) Notify(kind entity.ChangeKind) { s <- kind }

func TestSignalSource_NotifiesTrackedSettings(t *testing.T) {
	conn := newFakeConn()
	src := &SignalSource{dial: func() (signalConn, error) { return conn, nil }}
	sink := make(chanSink, 8)
	ctx, cancel := context.WithCancel(context.Background())

	errCh := make(chan error, 1)
	go func() { errCh <- src.Run(ctx, sink) }()
	<-conn.attached

	conn.emit(nsInterface, "font-name", "Cantarell 11")
	conn.emit(nsAppearance, keyColorScheme, uint32(1))
	conn.emit(nsA11y, "high-contrast", true)

	assert.Equal(t, entity.ChangeTheme, <-sink)
	assert.Equal(t, entity.ChangeAccessibility, <-sink)

	cancel()
	select {
	case err := <-errCh:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("source did not stop")
	}
	assert.Empty(t, sink)
	assert.True(t, conn.closed)
	assert.False(t, conn.matched)
}

func TestSignalSource_DialFailure(t *testing.T) {
	src := &SignalSource{dial: func() (signalConn, error) { return nil, errors.New("no bus") }}

	err := src.Run(context.Background(), make(chanSink))

	assert.ErrorIs(t, err, ErrPortalUnavailable)
}

func TestSignalSource_MatchFailure(t *testing.T) {
	conn := newFakeConn()
	conn.matchErr = errors.New("denied")
	src := &SignalSource{dial: func() (signalConn, error) { return conn, nil }}

	err := src.Run(context.Background(), make(chanSink))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "denied")
	assert.True(t, conn.closed)
}

func TestParseSettingChanged(t *testing.T) {
	ns, key, ok := parseSettingChanged(&dbus.Signal{
		Name: portalInterface + ".SettingChanged",
		Body: []interface{}{nsAppearance, keyContrast, dbus.MakeVariant(uint32(1))},
	})
	assert.True(t, ok)
	assert.Equal(t, nsAppearance, ns)
	assert.Equal(t, keyContrast, key)

	_, _, ok = parseSettingChanged(&dbus.Signal{Name: "org.example.Other", Body: []interface{}{"a", "b"}})
	assert.False(t, ok)

	_, _, ok = parseSettingChanged(&dbus.Signal{Name: portalInterface + ".SettingChanged", Body: []interface{}{1, "b"}})
	assert.False(t, ok)
}
