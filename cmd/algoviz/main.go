package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"
	"github.com/cockroachdb/errors"
	"github.com/guptarohit/asciigraph"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/spf13/cobra"

	"github.com/vizlab/algoviz/internal/algo"
	"github.com/vizlab/algoviz/internal/canvas"
	"github.com/vizlab/algoviz/internal/config"
	"github.com/vizlab/algoviz/internal/draw"
	"github.com/vizlab/algoviz/internal/export"
	"github.com/vizlab/algoviz/internal/gui"
	"github.com/vizlab/algoviz/internal/plugin"
	"github.com/vizlab/algoviz/internal/step"
	"github.com/vizlab/algoviz/internal/tui"
	"github.com/vizlab/algoviz/internal/viz"
)

var (
	configFile string
	algorithm  string
	startNode  string
	endNode    string
	view       string
	width      int
	height     int
	showTrace  bool
	format     string
	outFile    string
	delayMS    int
	seed       int64
	benchReps  int
)

var exporterNames = []string{"json", "dot", "svg", "gif", "trace"}

func main() {
	if err := export.Register(plugin.Default); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	rootCmd := &cobra.Command{
		Use:   "algoviz",
		Short: "algorithm visualization lab",
		RunE: func(cmd *cobra.Command, args []string) error {
			// Default to the terminal frontend when no command given
			return tui.Run(tui.New())
		},
	}

	runCmd := &cobra.Command{
		Use:   "run [preset]",
		Short: "run an algorithm to completion and print the final frame",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runHeadless,
	}
	runCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	runCmd.Flags().StringVar(&algorithm, "algorithm", "", "override the configured algorithm")
	runCmd.Flags().StringVar(&startNode, "start", "", "start node id")
	runCmd.Flags().StringVar(&endNode, "goal", "", "goal node id")
	runCmd.Flags().StringVar(&view, "view", "", "view kind override")
	runCmd.Flags().IntVar(&width, "width", config.DefaultWidth, "canvas columns")
	runCmd.Flags().IntVar(&height, "height", config.DefaultHeight, "canvas rows")
	runCmd.Flags().BoolVar(&showTrace, "trace", false, "print every step")

	liveCmd := &cobra.Command{
		Use:   "live [preset]",
		Short: "interactive terminal playback",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runLive,
	}
	liveCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	liveCmd.Flags().StringVar(&algorithm, "algorithm", "", "override the configured algorithm")
	liveCmd.Flags().StringVar(&startNode, "start", "", "start node id")
	liveCmd.Flags().StringVar(&endNode, "goal", "", "goal node id")
	liveCmd.Flags().StringVar(&view, "view", "", "view kind override")

	guiCmd := &cobra.Command{
		Use:   "gui [preset]",
		Short: "hardware-accelerated window",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return gui.RunInteractive()
			}
			return gui.Run(args[0])
		},
	}

	exportCmd := &cobra.Command{
		Use:   "export [preset]",
		Short: "run an algorithm and export the result",
		Args:  cobra.MaximumNArgs(1),
		RunE:  exportRun,
	}
	exportCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	exportCmd.Flags().StringVar(&algorithm, "algorithm", "", "override the configured algorithm")
	exportCmd.Flags().StringVar(&startNode, "start", "", "start node id")
	exportCmd.Flags().StringVar(&endNode, "goal", "", "goal node id")
	exportCmd.Flags().StringVar(&view, "view", "", "view kind override")
	exportCmd.Flags().StringVar(&format, "format", "json", "export format (json, dot, svg, gif, trace)")
	exportCmd.Flags().StringVar(&outFile, "out", "", "output file (default <preset>.<format>)")
	exportCmd.Flags().IntVar(&width, "width", 0, "export width in pixels")
	exportCmd.Flags().IntVar(&height, "height", 0, "export height in pixels")
	exportCmd.Flags().IntVar(&delayMS, "delay", 0, "gif frame delay in milliseconds")

	replayCmd := &cobra.Command{
		Use:   "replay [file]",
		Short: "replay a recorded trace file",
		Args:  cobra.ExactArgs(1),
		RunE:  replayTrace,
	}
	replayCmd.Flags().IntVar(&width, "width", config.DefaultWidth, "canvas columns")
	replayCmd.Flags().IntVar(&height, "height", config.DefaultHeight, "canvas rows")
	replayCmd.Flags().BoolVar(&showTrace, "trace", false, "print every step")

	benchCmd := &cobra.Command{
		Use:   "bench [algorithm]",
		Short: "benchmark step generation and rendering",
		Args:  cobra.ExactArgs(1),
		RunE:  benchAlgorithm,
	}
	benchCmd.Flags().Int64Var(&seed, "seed", 42, "generator seed")
	benchCmd.Flags().IntVar(&benchReps, "reps", 20, "repetitions per size")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list bundled presets",
		RunE:  listPresets,
	}

	algorithmsCmd := &cobra.Command{
		Use:   "algorithms",
		Short: "list registered algorithms",
		RunE:  listAlgorithms,
	}

	rootCmd.AddCommand(runCmd, liveCmd, guiCmd, exportCmd, replayCmd, benchCmd, presetsCmd, algorithmsCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// resolveConfig picks the run configuration: an explicit yaml file wins
// over a preset name.
func resolveConfig(args []string) (*config.Config, error) {
	if configFile != "" {
		return config.Load(configFile)
	}
	if len(args) == 1 {
		cfg, ok := config.GetPreset(args[0])
		if !ok {
			return nil, errors.Wrapf(config.ErrConfiguration,
				"unknown preset %q (see 'algoviz presets')", args[0])
		}
		return cfg, nil
	}
	return nil, errors.New("a preset name or --config file is required")
}

func applyOverrides(cmd *cobra.Command, cfg *config.Config) {
	if cmd.Flags().Changed("algorithm") {
		cfg.Algorithm = algorithm
	}
	if cmd.Flags().Changed("start") {
		cfg.StartNode = startNode
	}
	if cmd.Flags().Changed("goal") {
		cfg.EndNode = endNode
	}
	if cmd.Flags().Changed("view") {
		cfg.View = view
	}
	if cmd.Flags().Changed("width") {
		cfg.Width = width
	}
	if cmd.Flags().Changed("height") {
		cfg.Height = height
	}
}

// runToEnd advances the armed trace until the source is exhausted,
// ignoring breakpoints a plugin may have set.
func runToEnd(ctx context.Context, v *viz.Visualizer) error {
	for {
		res := v.ContinueToBreakpoint(ctx)
		switch res.Status {
		case viz.StatusFailed, viz.StatusCancelled:
			return res.Err
		}
		e := v.Engine()
		if e == nil || (e.Done() && e.Cursor() == e.Len()) {
			return nil
		}
		if res.Status == viz.StatusNoOp {
			return nil
		}
	}
}

func runHeadless(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(args)
	if err != nil {
		return err
	}
	applyOverrides(cmd, cfg)

	v, err := viz.New(cfg)
	if err != nil {
		return err
	}
	defer v.Close()

	surf := canvas.New(cfg.Width, cfg.Height)
	if err := v.Initialize(surf); err != nil {
		return err
	}
	if res := v.Run(cfg.Algorithm, cfg.Params()); !res.OK() {
		return res.Err
	}

	start := time.Now()
	if err := runToEnd(context.Background(), v); err != nil {
		return err
	}
	elapsed := time.Since(start)

	steps := v.Engine().Steps()
	if showTrace {
		for _, s := range steps {
			fmt.Printf("%4d  %-9s  %s\n", s.Index, s.Status, s.Description)
		}
		fmt.Println()
	}

	if res := v.ForceRender(); !res.OK() {
		return res.Err
	}
	fmt.Println(surf.String())

	fmt.Printf("algorithm: %s\n", cfg.Algorithm)
	fmt.Printf("steps: %d in %v (%.0f steps/sec)\n",
		len(steps), elapsed, float64(len(steps))/elapsed.Seconds())
	if m := v.Metrics(); m.LastPlan.Total > 0 {
		fmt.Printf("rendered: %d/%d elements\n", m.LastPlan.Rendered(), m.LastPlan.Total)
	}
	if len(steps) > 0 {
		if last := steps[len(steps)-1]; last.Status == step.StatusError {
			fmt.Printf("terminated: %s\n", last.Description)
		}
	}
	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	if configFile == "" && len(args) == 0 {
		return tui.Run(tui.New())
	}
	cfg, err := resolveConfig(args)
	if err != nil {
		return err
	}
	applyOverrides(cmd, cfg)

	a, err := tui.NewWithConfig(cfg)
	if err != nil {
		return err
	}
	return tui.Run(a)
}

func exportRun(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(args)
	if err != nil {
		return err
	}
	applyOverrides(cmd, cfg)

	v, err := viz.New(cfg)
	if err != nil {
		return err
	}
	defer v.Close()

	surf := canvas.New(cfg.Width, cfg.Height)
	if err := v.Initialize(surf); err != nil {
		return err
	}
	if res := v.Run(cfg.Algorithm, cfg.Params()); !res.OK() {
		return res.Err
	}
	// Materialize the whole trace so gif and trace exports see every step.
	if err := runToEnd(context.Background(), v); err != nil {
		return err
	}

	for _, name := range exporterNames {
		if res := v.InstallPlugin(name); !res.OK() {
			return res.Err
		}
	}

	blob, err := v.Export(format, plugin.ExportConfig{
		Width:  width,
		Height: height,
		Delay:  time.Duration(delayMS) * time.Millisecond,
	})
	if err != nil {
		return err
	}

	name := outFile
	if name == "" {
		name = fmt.Sprintf("%s.%s", cfg.ID, blob.Format)
	}
	if err := os.WriteFile(name, blob.Data, 0o644); err != nil {
		return err
	}
	fmt.Printf("wrote %s (%d bytes)\n", name, len(blob.Data))
	return nil
}

// replayTrace rebuilds a visualizer from a trace file: the baseline
// dataset plus the recorded steps, applied through the same engine that
// produced them.
func replayTrace(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}
	t, err := export.DecodeTrace(data)
	if err != nil {
		return err
	}

	cfg := config.DefaultConfig()
	if t.Visualizer != "" {
		cfg.ID = t.Visualizer
	}
	cfg.View = string(t.Kind)
	cfg.Width, cfg.Height = width, height

	v, err := viz.New(cfg)
	if err != nil {
		return err
	}
	defer v.Close()

	surf := canvas.New(cfg.Width, cfg.Height)
	if err := v.Initialize(surf); err != nil {
		return err
	}
	if res := v.SetData(t.Baseline); !res.OK() {
		return res.Err
	}
	if res := v.LoadSteps(t.Steps); !res.OK() {
		return res.Err
	}
	if err := runToEnd(context.Background(), v); err != nil {
		return err
	}

	if showTrace {
		for _, s := range t.Steps {
			fmt.Printf("%4d  %-9s  %s\n", s.Index, s.Status, s.Description)
		}
		fmt.Println()
	}
	if res := v.ForceRender(); !res.OK() {
		return res.Err
	}
	fmt.Println(surf.String())
	fmt.Printf("visualizer: %s (%s)\n", cfg.ID, t.Kind)
	fmt.Printf("steps: %d replayed\n", len(t.Steps))
	return nil
}

const (
	benchFrames  = 30
	maxBenchExec = int64(60_000_000_000) // 60s in ns
)

func benchAlgorithm(cmd *cobra.Command, args []string) error {
	name := args[0]
	reg := algo.NewRegistry()
	adapter, err := reg.Get(name)
	if err != nil {
		return err
	}

	sizes := []int{16, 64, 256, 1024}
	fmt.Printf("benchmarking %s (seed %d, %d reps per size)\n\n", name, seed, benchReps)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SIZE\tSTEPS\tP50\tP95\tP99\tMAX\tSTEPS/SEC\tRENDER")

	p50s := make([]float64, 0, len(sizes))
	for _, n := range sizes {
		cfg := benchConfig(adapter.Kind(), n)
		ds, err := cfg.Dataset()
		if err != nil {
			return err
		}
		params := cfg.Params()

		steps, err := adapter.Execute(ds, params)
		if err != nil {
			return err
		}

		hist := hdrhistogram.New(1, maxBenchExec, 3)
		for rep := 0; rep < benchReps; rep++ {
			t0 := time.Now()
			if _, err := adapter.Execute(ds, params); err != nil {
				return err
			}
			v := time.Since(t0).Nanoseconds()
			if v < 1 {
				v = 1
			}
			if v > maxBenchExec {
				v = maxBenchExec
			}
			_ = hist.RecordValue(v)
		}

		renderAvg, err := benchRender(cfg)
		if err != nil {
			return err
		}

		p50 := time.Duration(hist.ValueAtQuantile(50))
		stepsPerSec := 0.0
		if p50 > 0 {
			stepsPerSec = float64(len(steps)) / p50.Seconds()
		}
		fmt.Fprintf(w, "%d\t%d\t%v\t%v\t%v\t%v\t%.0f\t%.2fms\n",
			n, len(steps),
			p50,
			time.Duration(hist.ValueAtQuantile(95)),
			time.Duration(hist.ValueAtQuantile(99)),
			time.Duration(hist.Max()),
			stepsPerSec, renderAvg)
		p50s = append(p50s, float64(p50.Microseconds()))
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Println()
	fmt.Println(asciigraph.Plot(p50s,
		asciigraph.Height(8),
		asciigraph.Width(60),
		asciigraph.Caption("p50 step generation (µs) by input size")))
	return nil
}

func benchConfig(kind draw.Kind, n int) *config.Config {
	if kind == draw.KindSequence || kind == draw.KindTree {
		return config.GenerateSequence(n, seed)
	}
	cfg := config.GenerateGraph(n, n/2, seed)
	cfg.StartNode = "n1"
	cfg.EndNode = fmt.Sprintf("n%d", n)
	return cfg
}

// benchRender times full repaints through an injected prometheus
// histogram and reports the mean frame cost in milliseconds.
func benchRender(cfg *config.Config) (float64, error) {
	promHist := prometheus.NewHistogram(prometheus.HistogramOpts{
		Buckets: prometheus.ExponentialBuckets(1e-5, 2, 16),
	})
	v, err := viz.New(cfg, viz.WithFrameHistogram(promHist))
	if err != nil {
		return 0, err
	}
	defer v.Close()

	surf := canvas.New(cfg.Width, cfg.Height)
	if err := v.Initialize(surf); err != nil {
		return 0, err
	}
	for i := 0; i < benchFrames; i++ {
		if res := v.ForceRender(); !res.OK() {
			return 0, res.Err
		}
	}

	var m dto.Metric
	if err := promHist.Write(&m); err != nil {
		return 0, err
	}
	h := m.GetHistogram()
	if h.GetSampleCount() == 0 {
		return 0, nil
	}
	return h.GetSampleSum() / float64(h.GetSampleCount()) * 1000, nil
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tALGORITHM\tVIEW\tNODES\tEDGES")
	for _, name := range config.ListPresets() {
		cfg, ok := config.GetPreset(name)
		if !ok {
			continue
		}
		kind, err := cfg.Kind()
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\n",
			name, cfg.Algorithm, kind, len(cfg.Nodes), len(cfg.Edges))
	}
	return w.Flush()
}

func listAlgorithms(cmd *cobra.Command, args []string) error {
	reg := algo.NewRegistry()
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tVIEW")
	for _, name := range reg.Names() {
		a, err := reg.Get(name)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%s\t%s\n", name, a.Kind())
	}
	return w.Flush()
}
