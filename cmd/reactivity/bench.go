package main

import (
	"fmt"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/jamiealquiza/tachymeter"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/VFiee/vue-next/pkg/reactive"
)

type benchProfile struct {
	Name   string
	Widths []int
	Depths []int
	Iters  int
}

var benchProfiles = map[string]benchProfile{
	"fast": {
		Name:   "fast",
		Widths: []int{1, 10},
		Depths: []int{1, 10},
		Iters:  100,
	},
	"standard": {
		Name:   "standard",
		Widths: []int{1, 10, 100},
		Depths: []int{1, 10, 100},
		Iters:  100,
	},
	"stress": {
		Name:   "stress",
		Widths: []int{1, 10, 100, 1000},
		Depths: []int{1, 10, 100, 1000},
		Iters:  100,
	},
}

func benchCmd() *cobra.Command {
	var profileName string
	var iters int

	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Measure propagation latency",
		Long: `Measures end-to-end propagation latency: one source write through
grids of chained computeds into effects, and mutations of reactive
containers fanning out to many subscribers.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			profile, ok := benchProfiles[profileName]
			if !ok {
				return fmt.Errorf("unknown profile %q (have: fast, standard, stress)", profileName)
			}
			if iters > 0 {
				profile.Iters = iters
			}

			benchComputedGrid(profile)
			benchProxyFanout(profile)
			return nil
		},
	}

	cmd.Flags().StringVar(&profileName, "profile", "standard", "benchmark profile (fast, standard, stress)")
	cmd.Flags().IntVar(&iters, "iters", 0, "override iterations per cell")
	return cmd
}

// benchComputedGrid builds width independent chains of depth computeds off a
// single source ref, each chain terminated by an effect, and times one source
// write propagating through all of them.
func benchComputedGrid(profile benchProfile) {
	tbl := table.NewWriter()
	tbl.SetTitle("Computed grid propagation")
	tbl.SetOutputMirror(os.Stdout)
	tbl.AppendHeader(table.Row{"benchmark", "avg", "min", "p75", "p99", "max"})

	var totalWrites uint64
	for _, w := range profile.Widths {
		for _, d := range profile.Depths {
			tach := tachymeter.New(&tachymeter.Config{Size: profile.Iters})

			g := reactive.NewGraph()
			src := reactive.NewRefIn(g, 1)
			for i := 0; i < w; i++ {
				last := reactive.NewComputedIn(g, func() int {
					return src.Value() + 1
				})
				for j := 1; j < d; j++ {
					prev := last
					last = reactive.NewComputedIn(g, func() int {
						return prev.Value() + 1
					})
				}
				tail := last
				g.NewEffect(func() reactive.Cleanup {
					_ = tail.Value()
					return nil
				})
			}

			for i := 0; i < profile.Iters; i++ {
				start := time.Now()
				src.SetValue(src.Value() + 1)
				tach.AddTime(time.Since(start))
				totalWrites++
			}

			calc := tach.Calc()
			tbl.AppendRows([]table.Row{
				{
					fmt.Sprintf("propagate: %d * %d", w, d),
					calc.Time.Avg,
					calc.Time.Min,
					calc.Time.P75,
					calc.Time.P99,
					calc.Time.Max,
				},
			})
		}
	}

	tbl.Render()
	fmt.Printf("source writes: %s\n\n", humanize.Comma(int64(totalWrites)))
}

// benchProxyFanout subscribes width effects to one key of a reactive object
// and times a mutation fanning out to all of them.
func benchProxyFanout(profile benchProfile) {
	tbl := table.NewWriter()
	tbl.SetTitle("Proxy fan-out")
	tbl.SetOutputMirror(os.Stdout)
	tbl.AppendHeader(table.Row{"benchmark", "avg", "min", "p75", "p99", "max"})

	for _, w := range profile.Widths {
		tach := tachymeter.New(&tachymeter.Config{Size: profile.Iters})

		g := reactive.NewGraph()
		obj := g.Reactive(map[string]any{"n": 0}).(*reactive.Object)
		for i := 0; i < w; i++ {
			g.NewEffect(func() reactive.Cleanup {
				_ = obj.Get("n")
				return nil
			})
		}

		for i := 0; i < profile.Iters; i++ {
			start := time.Now()
			obj.Set("n", i+1)
			tach.AddTime(time.Since(start))
		}

		calc := tach.Calc()
		tbl.AppendRows([]table.Row{
			{
				fmt.Sprintf("fan-out: %d effects", w),
				calc.Time.Avg,
				calc.Time.Min,
				calc.Time.P75,
				calc.Time.P99,
				calc.Time.Max,
			},
		})
	}

	tbl.Render()
}
