package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/VFiee/vue-next/pkg/inspect"
	"github.com/VFiee/vue-next/pkg/observe"
	"github.com/VFiee/vue-next/pkg/reactive"
)

func inspectCmd() *cobra.Command {
	var addr string
	var demo bool

	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Serve a live dependency-graph inspector",
		Long: `Serves the dependency graph of the default reactive graph over HTTP:

  GET /healthz    liveness check
  GET /api/graph  dependency store as JSON
  GET /api/stats  summary counts
  GET /metrics    Prometheus metrics
  GET /events     WebSocket stream of engine events

With --demo, a small counter workload keeps the graph busy so there is
something to look at.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			g := reactive.NewGraph()
			srv := inspect.NewServer(inspect.ServerOptions{
				Addr:    addr,
				Graph:   g,
				Verbose: true,
			})
			g.SetObserver(reactive.CombineObservers(
				srv.Observer(),
				observe.NewMetricsObserver(),
			))

			if demo {
				go runDemo(ctx, g)
			}

			fmt.Printf("Inspector listening on http://%s\n", addr)
			return srv.Start(ctx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "localhost:9390", "listen address")
	cmd.Flags().BoolVar(&demo, "demo", false, "run a demo workload on the inspected graph")
	return cmd
}

// runDemo mutates a small reactive state every 500ms so the inspector has a
// live event stream.
func runDemo(ctx context.Context, g *reactive.Graph) {
	state := g.Reactive(map[string]any{"count": 0, "parity": "even"}).(*reactive.Object)
	count := reactive.NewRefIn(g, 0)

	doubled := reactive.NewComputedIn(g, func() int {
		return count.Value() * 2
	})
	g.NewEffect(func() reactive.Cleanup {
		state.Set("count", doubled.Value())
		if doubled.Value()%4 == 0 {
			state.Set("parity", "even")
		} else {
			state.Set("parity", "odd")
		}
		return nil
	})

	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			count.SetValue(count.Value() + 1)
		}
	}
}
