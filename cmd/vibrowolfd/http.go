package main

import (
	"context"
	"net/http"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vibrowolf/vibrowolf/internal/config"
	"github.com/vibrowolf/vibrowolf/internal/control"
	"github.com/vibrowolf/vibrowolf/internal/presets"
)

// httpServers bundles the control-plane WebSocket listener and the
// preset-store HTTP listener, both run as plain net/http servers on
// their own configured addresses.
type httpServers struct {
	control *http.Server
	presets *http.Server
}

func newHTTPServers(cfg config.Config, controlServer *control.Server, presetStore *presets.Store) *httpServers {
	return &httpServers{
		control: &http.Server{Addr: cfg.ControlListenAddr, Handler: controlServer},
		presets: &http.Server{Addr: cfg.PresetListenAddr, Handler: presetStore.Handler()},
	}
}

func (h *httpServers) start(l *log.Logger) {
	go func() {
		if err := h.control.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			l.Error("control server stopped", "err", err)
		}
	}()
	go func() {
		if err := h.presets.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			l.Error("preset server stopped", "err", err)
		}
	}()
}

func (h *httpServers) shutdown() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_ = h.control.Shutdown(ctx)
	_ = h.presets.Shutdown(ctx)
}
