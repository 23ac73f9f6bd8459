// Command vibrowolfd is the daemon entry point: it loads config,
// opens the output sink and aux ring, starts the engine loop, and
// wires the control/preset HTTP surfaces and optional peripherals
// (mDNS announce, hardware buttons, rotating stats log) around it.
// Grounded on the teacher's cmd/direwolf/main.go top-level wiring
// shape (parse flags over a config file, build every subsystem, run
// until a signal, clean shutdown) minus its cgo bridge, which has no
// counterpart in a pure-Go daemon.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/pflag"

	"github.com/vibrowolf/vibrowolf/internal/apmode"
	"github.com/vibrowolf/vibrowolf/internal/audiosink"
	"github.com/vibrowolf/vibrowolf/internal/auxring"
	"github.com/vibrowolf/vibrowolf/internal/btdiscovery"
	"github.com/vibrowolf/vibrowolf/internal/config"
	"github.com/vibrowolf/vibrowolf/internal/control"
	"github.com/vibrowolf/vibrowolf/internal/engine"
	"github.com/vibrowolf/vibrowolf/internal/hwbuttons"
	"github.com/vibrowolf/vibrowolf/internal/logging"
	"github.com/vibrowolf/vibrowolf/internal/presets"
	"github.com/vibrowolf/vibrowolf/internal/statslog"
)

func main() {
	os.Exit(run())
}

func run() int {
	fs := pflag.NewFlagSet("vibrowolfd", pflag.ContinueOnError)
	fs.ParseErrorsWhitelist.UnknownFlags = true // config/domain flags aren't registered yet
	configPath := fs.String("config", "/etc/vibrowolf/config.yaml", "path to the YAML config file")
	showVersion := fs.Bool("version", false, "print version information and exit")
	if err := fs.Parse(os.Args[1:]); err != nil {
		return 2
	}
	if *showVersion {
		printVersion()
		return 0
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	cfg.BindFlags(fs)
	fs.ParseErrorsWhitelist.UnknownFlags = false
	if err := fs.Parse(os.Args[1:]); err != nil { // re-parse so flags can still override a loaded file
		return 2
	}

	applyLogLevel(cfg.LogLevel)
	mainLog := logging.For("vibrowolfd")

	persisted, err := config.LoadPersistedState(cfg.StateDir)
	if err != nil {
		mainLog.Error("loading persisted state", "err", err)
		return 1
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		mainLog.Info("received signal, shutting down", "signal", sig)
		cancel()
	}()

	if err := audiosink.Probe(); err != nil {
		mainLog.Error("device probe failed", "err", err)
		return 1
	}

	sink, err := audiosink.Open(cfg.OutputDeviceSubstring, cfg.BlockLen)
	if err != nil {
		mainLog.Error("opening output sink", "err", err)
		return 1
	}
	defer sink.Close()

	ring := auxring.NewRing(cfg.BlockLen * 8)
	capture := auxring.NewCapture(ring)
	captureDone := make(chan struct{})
	go capture.Run(captureDone)
	defer close(captureDone)

	commands := engine.NewCommandQueue(32)
	notify := engine.NewNotificationQueue(64)

	eng := engine.New(engine.Config{BlockLen: cfg.BlockLen}, sink, auxring.NewSource(ring), commands, notify)
	eng.State().Mix = engine.ComputeMixGains(persisted.MixValue)
	eng.State().MixValue = persisted.MixValue
	eng.State().BTMono = persisted.BTMono

	presetStore, err := presets.NewStore(cfg.StateDir + "/presets")
	if err != nil {
		mainLog.Error("opening preset store", "err", err)
		return 1
	}

	apUnits := apmode.Units{Hostapd: cfg.APUnit, DNSMasq: cfg.APDNSMasqUnit}
	controlServer := control.NewServer(commands, notify, eng.Stream, cfg.BlockLen, func() string {
		return treatmentStateJSON(eng)
	}).WithPeripherals(control.Peripherals{APUnits: &apUnits})

	buttons, err := hwbuttons.Request(cfg.GPIOChip, cfg.ButtonStartLine, cfg.ButtonStopLine, cfg.ButtonSkipLine,
		func() {},
		func() { commands <- engine.Command{Kind: engine.CmdStop} },
		func() {},
	)
	if err != nil {
		mainLog.Warn("hardware buttons unavailable", "err", err)
	} else {
		defer buttons.Close()
	}

	if err := btdiscovery.Announce(ctx, cfg.DNSSDName, controlPort(cfg.ControlListenAddr)); err != nil {
		mainLog.Warn("mDNS announce unavailable", "err", err)
	}

	if err := audiosink.Watch(ctx, func(action, name string) {
		if action == "remove" && name == sink.DeviceName() {
			mainLog.Error("output device disappeared, exiting for supervisor restart", "device", name)
			cancel()
		}
	}); err != nil {
		mainLog.Warn("device hot-plug watch unavailable", "err", err)
	}

	statsLogger, err := statslog.NewLogger(cfg.StatsLogDir, 100*time.Second)
	if err != nil {
		mainLog.Warn("stats log unavailable", "err", err)
	} else {
		go statsLogger.Run(ctx.Done(), func() statslog.Stats {
			return statslog.Stats{Mode: eng.State().Mode.String()}
		})
	}

	httpServer := newHTTPServers(cfg, controlServer, presetStore)
	httpServer.start(mainLog)
	defer httpServer.shutdown()

	mainLog.Info("vibrowolfd running", "device", sink.DeviceName(), "control", cfg.ControlListenAddr, "presets", cfg.PresetListenAddr)

	if err := eng.Run(ctx); err != nil {
		mainLog.Error("engine loop halted", "err", err)
		_ = config.SavePersistedState(cfg.StateDir, persistedFromEngine(eng))
		return 1
	}

	if err := config.SavePersistedState(cfg.StateDir, persistedFromEngine(eng)); err != nil {
		mainLog.Error("saving persisted state", "err", err)
	}
	mainLog.Info("vibrowolfd exiting cleanly")
	return 0
}

func applyLogLevel(name string) {
	switch name {
	case "debug":
		logging.SetLevel(log.DebugLevel)
	case "warn":
		logging.SetLevel(log.WarnLevel)
	case "error":
		logging.SetLevel(log.ErrorLevel)
	default:
		logging.SetLevel(log.InfoLevel)
	}
}

func persistedFromEngine(eng *engine.Engine) config.PersistedState {
	s := eng.State()
	return config.PersistedState{
		MixValue: s.MixValue,
		BTMono:   s.BTMono,
	}
}

func controlPort(addr string) int {
	port := 8765
	fmt.Sscanf(addr, ":%d", &port)
	return port
}
