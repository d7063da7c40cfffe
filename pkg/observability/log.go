package observability

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// LogBakeHooks writes bake and render events to a logger.
type LogBakeHooks struct {
	Logger *log.Logger
}

func (h LogBakeHooks) OnBakeStart(_ context.Context, recipe string, floors int) {
	h.Logger.Debug("bake started", "recipe", recipe, "floors", floors)
}

func (h LogBakeHooks) OnBakeComplete(_ context.Context, recipe string, rooms int, d time.Duration, err error) {
	if err != nil {
		h.Logger.Warn("bake failed", "recipe", recipe, "duration", d, "err", err)
		return
	}
	h.Logger.Info("bake complete", "recipe", recipe, "rooms", rooms, "duration", d)
}

func (h LogBakeHooks) OnRenderStart(_ context.Context, formats []string) {
	h.Logger.Debug("render started", "formats", formats)
}

func (h LogBakeHooks) OnRenderComplete(_ context.Context, formats []string, d time.Duration, err error) {
	if err != nil {
		h.Logger.Warn("render failed", "formats", formats, "duration", d, "err", err)
		return
	}
	h.Logger.Debug("render complete", "formats", formats, "duration", d)
}

// LogHTTPHooks writes one line per API response.
type LogHTTPHooks struct {
	Logger *log.Logger
}

func (h LogHTTPHooks) OnRequest(context.Context, string, string) {}

func (h LogHTTPHooks) OnResponse(_ context.Context, method, path string, status int, d time.Duration) {
	l := h.Logger.Info
	if status >= 500 {
		l = h.Logger.Error
	}
	l("request", "method", method, "path", path, "status", status, "duration", d)
}

var (
	_ BakeHooks = LogBakeHooks{}
	_ HTTPHooks = LogHTTPHooks{}
)
