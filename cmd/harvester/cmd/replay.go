package cmd

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/go-drift/harvester/cmd/harvester/internal/render"
	"github.com/go-drift/harvester/cmd/harvester/internal/scenario"
	"github.com/go-drift/harvester/pkg/mainthread"
)

var stepStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))

var replayCmd = &cobra.Command{
	Use:   "replay <scenario.yaml>",
	Short: "Replay a scenario and print the hierarchy after each step",
	Long: `Replay loads a scenario file, wires its attachments to a fresh set of
controllers and feeds the timeline into the streams from a background
goroutine. Hierarchy changes run on a dedicated UI loop. The controller
tree is printed before the first step and after every step.

Example scenario:

  controllers:
    - {title: screen, width: 390, height: 844}
    - {title: spinner}
  streams: [isLoading]
  attachments:
    - {id: loading, stream: isLoading, child: spinner, parent: screen,
       lock_navigation: true, padding: 16}
  steps:
    - {stream: isLoading, value: true}
    - {stream: isLoading, value: false}
    - {cancel: loading}`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sc, err := scenario.Load(args[0])
		if err != nil {
			return err
		}
		logger.Debug("scenario loaded",
			zap.String("path", args[0]),
			zap.String("name", sc.Name),
			zap.Int("steps", len(sc.Steps)))
		return replay(cmd.Context(), sc, cmd.OutOrStdout(), settings.GetDuration("step-delay"))
	},
}

func init() {
	replayCmd.Flags().Duration("step-delay", 0, "Pause between timeline steps")
	_ = settings.BindPFlag("step-delay", replayCmd.Flags().Lookup("step-delay"))
}

// replay runs sc on a fresh UI loop. The loop and the timeline feeder run
// concurrently; the feeder stops the loop once the timeline is done.
func replay(ctx context.Context, sc *scenario.Scenario, out io.Writer, delay time.Duration) error {
	if ctx == nil {
		ctx = context.Background()
	}
	loop := mainthread.NewLoop()
	prev := mainthread.Register(loop)
	defer mainthread.Register(prev)

	ctx, stop := context.WithCancel(ctx)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return loop.Run(gctx)
	})
	g.Go(func() error {
		defer stop()
		rt := scenario.Build(sc)
		defer rt.Close()

		show := func(heading string) {
			mainthread.Sync(func() {
				fmt.Fprintf(out, "%s\n%s\n\n", stepStyle.Render(heading), render.Forest(rt.Roots()))
			})
		}

		show("initial")
		for i, step := range sc.Steps {
			if delay > 0 {
				select {
				case <-gctx.Done():
					return gctx.Err()
				case <-time.After(delay):
				}
			} else if err := gctx.Err(); err != nil {
				return err
			}
			logger.Debug("applying step", zap.Int("index", i), zap.Stringer("step", step))
			rt.Apply(step)
			show(fmt.Sprintf("step %d: %s", i+1, step))
		}
		return nil
	})
	return g.Wait()
}
