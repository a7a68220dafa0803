package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/conneroisu/barcore/internal/builder"
	"github.com/conneroisu/barcore/internal/config"
	"github.com/conneroisu/barcore/internal/errors"
	"github.com/conneroisu/barcore/internal/events"
	"github.com/conneroisu/barcore/internal/ipc"
	"github.com/conneroisu/barcore/internal/logging"
	"github.com/conneroisu/barcore/internal/module"
	"github.com/conneroisu/barcore/internal/modules/datetime"
	"github.com/conneroisu/barcore/internal/registry"
	"github.com/conneroisu/barcore/internal/watcher"
)

var dumpConfig bool

// runCmd represents the run command.
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the configured bar modules",
	Long: `Run starts every configured module, renders the bar line to stdout
whenever a module's content changes, and exits once all modules have
stopped or a termination signal arrives.`,
	RunE: runBar,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().BoolVar(&dumpConfig, "dump", false, "print the effective configuration as YAML and exit")
}

// runnable is a registered module that can also be started.
type runnable interface {
	registry.Module
	Start()
}

// moduleTypes maps config type names to constructors.
var moduleTypes = map[string]func(name string, mc config.ModuleConfig, deps module.Deps) runnable{
	datetime.Type: func(name string, mc config.ModuleConfig, deps module.Deps) runnable {
		return datetime.New(name, mc, deps)
	},
}

func runBar(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	if dumpConfig {
		out, err := yaml.Marshal(cfg)
		if err != nil {
			return fmt.Errorf("marshaling config: %w", err)
		}
		fmt.Print(string(out))
		return nil
	}

	log := logging.NewLogger(&logging.Config{
		Level:  logging.ParseLevel(cfg.Log.Level),
		Format: cfg.Log.Format,
		Output: os.Stderr,
	})

	emitter := events.NewEmitter()
	defer emitter.Close()
	faults := errors.NewCollector()
	reg := registry.New()
	deps := module.Deps{Log: log, Events: emitter, Faults: faults}

	for _, name := range cfg.ModuleNames() {
		mc := cfg.Modules[name]
		ctor, ok := moduleTypes[mc.Type]
		if !ok {
			log.Warn("unknown module type, skipping", "module", name, "type", mc.Type)
			continue
		}
		reg.Register(ctor(name, mc, deps))
	}
	if reg.Count() == 0 {
		return fmt.Errorf("no modules configured")
	}

	// Subscribe before starting so no early broadcast is missed.
	eventCh := emitter.Subscribe(64)

	for _, m := range reg.All() {
		m.(runnable).Start()
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	if file := viper.ConfigFileUsed(); file != "" {
		w, err := watcher.New(file, 200*time.Millisecond, func() {
			emitter.Emit(events.SignalRefresh, "")
		}, log)
		if err != nil {
			log.Warn("config watching disabled", "error", err.Error())
		} else {
			w.Start(ctx)
			defer w.Stop()
		}
	}

	if cfg.IPC.Enabled {
		srv := ipc.NewServer(cfg.IPC.Address, reg, log)
		if err := srv.Start(); err != nil {
			return fmt.Errorf("starting ipc server: %w", err)
		}
		defer func() {
			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer shutdownCancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	printBar(reg, cfg.Bar)
	log.Info("bar running", "modules", reg.Count())

	for {
		select {
		case sig := <-sigCh:
			log.Info("shutting down", "signal", sig.String())
			reg.StopAll()
			reportFaults(log, faults)
			return nil
		case ev := <-eventCh:
			switch ev.Signal {
			case events.SignalNotifyChange:
				printBar(reg, cfg.Bar)
			case events.SignalRefresh:
				reg.BroadcastAll()
			case events.SignalCheckState:
				if !reg.AnyRunning() {
					log.Info("all modules stopped, exiting")
					reg.StopAll()
					reportFaults(log, faults)
					return nil
				}
			}
		}
	}
}

// printBar writes one rendered bar line to stdout. Halted or empty
// modules contribute their last cached content, which may be nothing.
func printBar(reg *registry.Registry, bar config.BarConfig) {
	parts := make([]string, 0, reg.Count())
	for _, m := range reg.All() {
		if content := m.Contents(); content != "" {
			parts = append(parts, content)
		}
	}
	fmt.Println(builder.Pad(strings.Join(parts, bar.Separator), bar.Padding))
}

func reportFaults(log logging.Logger, faults *errors.Collector) {
	for _, fault := range faults.Faults() {
		log.Warn("module fault during run",
			"module", fault.Module,
			"severity", fault.Severity.String(),
			"message", fault.Message)
	}
}
