package settings

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bnema/huewatch/internal/application/port"
	"github.com/bnema/huewatch/internal/domain/entity"
)

// mockProvider implements port.PrioritizedProvider for testing.
type mockProvider struct {
	unknown
	name      string
	priority  int
	available bool

	dark        *bool
	accent      *entity.Color
	contrast    *bool
	reduceMotio *bool

	mu    sync.Mutex
	calls int
}

func (m *mockProvider) Name() string    { return m.name }
func (m *mockProvider) Priority() int   { return m.priority }
func (m *mockProvider) Available() bool { return m.available }

func (m *mockProvider) DarkMode() (bool, bool) {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()
	if m.dark == nil {
		return false, false
	}
	return *m.dark, true
}

func (m *mockProvider) AccentColor() (entity.Color, bool) {
	if m.accent == nil {
		return entity.Color{}, false
	}
	return *m.accent, true
}

func (m *mockProvider) HighContrast() (bool, bool) {
	if m.contrast == nil {
		return false, false
	}
	return *m.contrast, true
}

func (m *mockProvider) ReduceMotion() (bool, bool) {
	if m.reduceMotio == nil {
		return false, false
	}
	return *m.reduceMotio, true
}

func ptr[T any](v T) *T { return &v }

func TestResolver_PriorityOrder(t *testing.T) {
	// Low priority provider returns dark
	low := &mockProvider{name: "low", priority: 10, available: true, dark: ptr(true)}
	// High priority provider returns light
	high := &mockProvider{name: "high", priority: 100, available: true, dark: ptr(false)}

	// Register low first, high second (order shouldn't matter)
	r := NewResolver(low, high)

	dark, ok := r.DarkMode()
	assert.True(t, ok)
	assert.False(t, dark)
	assert.Equal(t, []string{"high", "low"}, r.Providers())

	snap := r.Snapshot()
	assert.False(t, snap.DarkMode)
	assert.Equal(t, "high", snap.Source)
}

func TestResolver_SkipsUnavailableProvider(t *testing.T) {
	unavailable := &mockProvider{name: "unavailable", priority: 100, available: false, dark: ptr(false)}
	fallback := &mockProvider{name: "fallback", priority: 10, available: true, dark: ptr(true)}
	r := NewResolver(unavailable, fallback)

	snap := r.Snapshot()

	assert.True(t, snap.DarkMode)
	assert.Equal(t, "fallback", snap.Source)
	assert.Zero(t, unavailable.calls, "unavailable providers are never queried")
}

func TestResolver_FallsThroughPerSetting(t *testing.T) {
	blue := entity.RGB(0, 0, 1)
	red := entity.RGB(1, 0, 0)
	// The top provider only knows the accent.
	top := &mockProvider{name: "top", priority: 100, available: true, accent: &blue}
	bottom := &mockProvider{
		name: "bottom", priority: 10, available: true,
		dark: ptr(false), accent: &red, contrast: ptr(true),
	}
	r := NewResolver(bottom, top)

	snap := r.Snapshot()

	assert.False(t, snap.DarkMode)
	assert.Equal(t, "bottom", snap.Source)
	assert.Equal(t, blue, snap.AccentColor)
	assert.InDelta(t, 0.5, snap.HighlightColor.A, 1e-9)
	assert.Equal(t, blue.B, snap.HighlightColor.B)
	assert.True(t, snap.HighContrast)

	accent, ok := r.AccentColor()
	assert.True(t, ok)
	assert.Equal(t, blue, accent)
}

func TestResolver_AllProvidersSilent(t *testing.T) {
	r := NewResolver(&mockProvider{name: "silent", priority: 1, available: true})

	_, ok := r.DarkMode()
	assert.False(t, ok)

	snap := port.QueryAppearance(r)
	assert.Equal(t, entity.DefaultAppearance(), snap)
}

func TestResolver_RegisterIsThreadSafe(t *testing.T) {
	r := NewResolver()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			r.Register(&mockProvider{name: "p", priority: i, available: true, dark: ptr(true)})
			_ = r.Snapshot()
		}(i)
	}
	wg.Wait()

	assert.Len(t, r.Providers(), 20)
}
