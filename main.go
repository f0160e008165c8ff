package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/go-logr/logr"
	"github.com/go-logr/stdr"
	loadtop "github.com/jondoveston/loadtop/internal"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var version = "dev"

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "loadtop [base-url]",
	Short: "Terminal chart of the CPU and memory load reported by a dashboard host",
	Long: `loadtop fetches the CPU/memory utilization series from {origin}/get_load/
(or from Prometheus) and draws it as a line chart in the terminal.

Examples:
  loadtop http://embark.lan:8000
  loadtop --base-url http://embark.lan:8000 --responsive
  loadtop render http://embark.lan:8000 --width 100 --height 25
  loadtop --source prometheus --prometheus-url http://prometheus.lan:9090
  LOADTOP_BASE_URL=http://embark.lan:8000 loadtop`,
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runDashboard,
}

var renderCmd = &cobra.Command{
	Use:   "render [base-url]",
	Short: "Fetch the load once and print the chart to stdout",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runRender,
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.String("base-url", "", "Dashboard host whose origin serves /get_load/")
	flags.String("source", "load", "Load source: load or prometheus")
	flags.String("prometheus-url", "", "Prometheus server URL (source=prometheus)")
	flags.String("instance", "", "node_exporter instance to chart (source=prometheus)")
	flags.Duration("window", loadtop.DefaultWindow(), "Time range covered (source=prometheus)")
	flags.Duration("step", loadtop.DefaultStep(), "Sample resolution (source=prometheus)")
	flags.Int("width", loadtop.DEFAULT_CHART_WIDTH, "Chart width in cells")
	flags.Int("height", loadtop.DEFAULT_CHART_HEIGHT, "Chart height in cells")
	flags.Bool("responsive", false, "Resize the chart with the terminal")
	flags.Bool("show-title", false, "Draw the chart title")
	flags.String("log-file", "", "Write logs to this file (dashboard logs are dropped otherwise)")
	flags.Int("verbosity", 0, "Log verbosity")
	flags.String("metrics-file", "", "Write fetch metrics in Prometheus text format on exit")
	rootCmd.Flags().BoolP("version", "v", false, "Print version information")

	// Bind flags to Viper keys (note: dashes in flags become underscores in viper)
	for _, name := range []string{
		"base-url", "source", "prometheus-url", "instance", "window", "step",
		"width", "height", "responsive", "show-title", "log-file", "verbosity", "metrics-file",
	} {
		if err := viper.BindPFlag(viperKey(name), flags.Lookup(name)); err != nil {
			log.Fatalf("failed to bind %s: %v", name, err)
		}
	}

	viper.SetEnvPrefix("loadtop")
	viper.AutomaticEnv()

	viper.SetDefault("base_url", "http://localhost:8000")

	rootCmd.AddCommand(renderCmd)
}

func viperKey(flag string) string {
	return strings.ReplaceAll(flag, "-", "_")
}

// setup resolves the configuration shared by both commands
func setup(ctx context.Context, cmd *cobra.Command, args []string, logOut io.Writer) (loadtop.Source, *loadtop.ChartRenderer, *prometheus.Registry, logr.Logger, error) {
	// Positional argument only if the base url was not set by env var or flag
	if len(args) == 1 && os.Getenv("LOADTOP_BASE_URL") == "" && !cmd.Flags().Changed("base-url") {
		viper.Set("base_url", args[0])
	}

	log.SetOutput(logOut)
	stdr.SetVerbosity(viper.GetInt("verbosity"))
	logger := stdr.New(log.Default()).WithName("loadtop")

	src, err := loadtop.ConnectSource(ctx, loadtop.SourceConfig{
		Kind:          viper.GetString("source"),
		BaseURL:       viper.GetString("base_url"),
		PrometheusURL: viper.GetString("prometheus_url"),
		Instance:      viper.GetString("instance"),
		Window:        viper.GetDuration("window"),
		Step:          viper.GetDuration("step"),
	}, nil, logger)
	if err != nil {
		return nil, nil, nil, logr.Discard(), err
	}
	logger.Info("using source", "kind", viper.GetString("source"), "name", src.Name())

	reg := prometheus.NewRegistry()
	instrumented := loadtop.Instrument(src, reg)

	opts := loadtop.DefaultOptions()
	opts.Responsive = viper.GetBool("responsive")
	opts.Title.Display = viper.GetBool("show_title")

	return instrumented, loadtop.NewChartRenderer(loadtop.TermLibrary{}, opts), reg, logger, nil
}

func writeMetrics(reg *prometheus.Registry, logger logr.Logger) {
	path := viper.GetString("metrics_file")
	if path == "" {
		return
	}
	f, err := os.Create(path)
	if err != nil {
		logger.Error(err, "creating metrics file", "path", path)
		return
	}
	defer f.Close()
	names, err := loadtop.WriteMetrics(f, reg)
	if err != nil {
		logger.Error(err, "writing metrics", "path", path)
		return
	}
	logger.V(1).Info("metrics written", "path", path, "families", names)
}

func runDashboard(cmd *cobra.Command, args []string) error {
	versionFlag, _ := cmd.Flags().GetBool("version")
	if versionFlag {
		fmt.Printf("loadtop version %s\n", version)
		return nil
	}

	// the alternate screen owns the terminal, so logs go to a file or nowhere
	logOut := io.Discard
	if path := viper.GetString("log_file"); path != "" {
		f, err := tea.LogToFile(path, "")
		if err != nil {
			return fmt.Errorf("opening log file: %w", err)
		}
		defer f.Close()
		logOut = f
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	src, renderer, reg, logger, err := setup(ctx, cmd, args, logOut)
	if err != nil {
		return err
	}
	logger.Info("starting loadtop", "version", version)
	defer writeMetrics(reg, logger)

	return loadtop.Dashboard(ctx, src, renderer, viper.GetInt("width"), viper.GetInt("height"), logger)
}

func runRender(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	src, renderer, reg, logger, err := setup(ctx, cmd, args, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer writeMetrics(reg, logger)

	surface := loadtop.NewSurface(loadtop.SURFACE_ID, viper.GetInt("width"), viper.GetInt("height"))
	if _, err := loadtop.LoadChart(ctx, src, renderer, surface); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), surface.String())
	return nil
}
