package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/bnema/huewatch/internal/application/port"
	"github.com/bnema/huewatch/internal/appearance"
	"github.com/bnema/huewatch/internal/cli"
	"github.com/bnema/huewatch/internal/cli/styles"
	"github.com/bnema/huewatch/internal/domain/entity"
	"github.com/bnema/huewatch/internal/logging"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Print a line for every appearance change",
	Long: `Watch the enabled signal sources (notifier.sources) until interrupted.

Signals arriving within notifier.debounce_interval of each other are
coalesced into one line listing every kind of change.`,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, _ []string) error {
	app := GetApp()
	if app == nil {
		return fmt.Errorf("app not initialized")
	}

	interval, err := app.Interval()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(app.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return watch(ctx, cmd.OutOrStdout(), app, interval, app.Sources())
}

// watch runs sources until ctx is done, printing each broadcast.
func watch(ctx context.Context, out io.Writer, app *cli.App, interval time.Duration, sources []port.SignalSource) error {
	if len(sources) == 0 {
		return errors.New("no signal sources enabled (see notifier.sources)")
	}

	out = &lockedWriter{w: out}
	logger := app.Logger.With().Str("component", "appearance").Logger()
	agg := appearance.New(appearance.WithInterval(interval), appearance.WithLogger(logger))
	defer agg.Close()

	cache := appearance.NewCache(app.NewResolver(), agg, logger)
	defer cache.Close()

	renderer := styles.NewAppearanceRenderer(styles.NewTheme(cache.Snapshot()))
	// Subscribed after the cache, so the snapshot is already refreshed.
	agg.Subscribe(func(changes entity.ChangeSet) {
		fmt.Fprintln(out, renderer.RenderChange(time.Now(), changes, cache.Snapshot()))
	})

	fmt.Fprintln(out, renderer.RenderWatching(cli.SourceNames(sources), interval))

	// A failed source leaves the others running; only losing the last one
	// fails the group.
	var failed atomic.Int32
	g, gctx := errgroup.WithContext(ctx)
	for _, src := range sources {
		g.Go(func() error {
			sctx := logging.WithSource(gctx, src.Name())
			err := src.Run(sctx, agg)
			if err == nil {
				return nil
			}
			logging.FromContext(sctx).Warn().Err(err).Msg("signal source stopped")
			fmt.Fprintln(out, renderer.RenderSourceError(src.Name(), err))
			if int(failed.Add(1)) == len(sources) && ctx.Err() == nil {
				return fmt.Errorf("every signal source failed, last %s: %w", src.Name(), err)
			}
			return nil
		})
	}
	return g.Wait()
}

// lockedWriter serializes lines printed from the lane and source goroutines.
type lockedWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (l *lockedWriter) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.w.Write(p)
}
