package settings

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/bnema/huewatch/internal/application/port"
	"github.com/bnema/huewatch/internal/domain/entity"
	"github.com/bnema/huewatch/internal/logging"
)

const monitorName = "gsettings-monitor"

// gsettingsKinds maps monitored keys to the kind of change they signal.
var gsettingsKinds = map[string]map[string]entity.ChangeKind{
	schemaInterface: {
		"color-scheme":      entity.ChangeTheme,
		"gtk-theme":         entity.ChangeTheme,
		"accent-color":      entity.ChangeAccent,
		"enable-animations": entity.ChangeAccessibility,
	},
	schemaA11y: {
		"high-contrast": entity.ChangeAccessibility,
	},
}

// streamStarter starts `gsettings monitor schema` and returns its stdout and
// a wait function.
type streamStarter func(ctx context.Context, schema string) (io.Reader, func() error, error)

func execStream(ctx context.Context, schema string) (io.Reader, func() error, error) {
	cmd := exec.CommandContext(ctx, "gsettings", "monitor", schema)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, nil, err
	}
	if err := cmd.Start(); err != nil {
		return nil, nil, err
	}
	return stdout, cmd.Wait, nil
}

// Compile-time interface check.
var _ port.SignalSource = (*GsettingsMonitor)(nil)

// GsettingsMonitor reports changes streamed by `gsettings monitor`.
type GsettingsMonitor struct {
	start    streamStarter
	lookPath func(string) (string, error)
}

// NewGsettingsMonitor creates a monitor for the interface and a11y schemas.
func NewGsettingsMonitor() *GsettingsMonitor {
	return &GsettingsMonitor{start: execStream, lookPath: exec.LookPath}
}

// Name implements port.SignalSource.
func (*GsettingsMonitor) Name() string {
	return monitorName
}

// Run implements port.SignalSource.
func (m *GsettingsMonitor) Run(ctx context.Context, sink port.ChangeSink) error {
	if _, err := m.lookPath("gsettings"); err != nil {
		return ErrGsettingsUnavailable
	}

	g, ctx := errgroup.WithContext(ctx)
	for schema, keys := range gsettingsKinds {
		g.Go(func() error {
			return m.watch(ctx, schema, keys, sink)
		})
	}
	return g.Wait()
}

func (m *GsettingsMonitor) watch(ctx context.Context, schema string, keys map[string]entity.ChangeKind, sink port.ChangeSink) error {
	log := logging.FromContext(ctx)

	stdout, wait, err := m.start(ctx, schema)
	if err != nil {
		return fmt.Errorf("gsettings monitor %s: %w", schema, err)
	}
	log.Debug().Str("schema", schema).Msg("gsettings monitor: started")

	scanner := bufio.NewScanner(stdout)
	for scanner.Scan() {
		key, ok := parseMonitorLine(scanner.Text())
		if !ok {
			continue
		}
		if kind, tracked := keys[key]; tracked {
			log.Trace().Str("schema", schema).Str("key", key).Stringer("kind", kind).Msg("gsettings monitor: change")
			sink.Notify(kind)
		}
	}

	err = wait()
	if ctx.Err() != nil {
		return nil
	}
	if err == nil {
		err = scanner.Err()
	}
	if err == nil {
		err = errors.New("exited")
	}
	return fmt.Errorf("gsettings monitor %s: %w", schema, err)
}

// parseMonitorLine extracts the key from a line such as
// "color-scheme: 'prefer-dark'".
func parseMonitorLine(line string) (string, bool) {
	key, _, found := strings.Cut(strings.TrimSpace(line), ":")
	if !found || key == "" || strings.ContainsAny(key, " \t") {
		return "", false
	}
	return key, true
}
