package observability

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// LogHooks writes every event to a logger at debug level. Failed stages are
// logged at warn level.
type LogHooks struct {
	logger *log.Logger
}

// NewLogHooks returns hooks that log to logger.
func NewLogHooks(logger *log.Logger) *LogHooks {
	return &LogHooks{logger: logger.WithPrefix("hooks")}
}

func (h *LogHooks) done(msg string, err error, kv ...any) {
	if err != nil {
		h.logger.Warn(msg, append(kv, "err", err)...)
		return
	}
	h.logger.Debug(msg, kv...)
}

func (h *LogHooks) OnLoadStart(_ context.Context, source string) {
	h.logger.Debug("load start", "source", source)
}

func (h *LogHooks) OnLoadComplete(_ context.Context, source string, persons int, d time.Duration, err error) {
	h.done("load complete", err, "source", source, "persons", persons, "duration", d)
}

func (h *LogHooks) OnLayoutStart(_ context.Context, vizType string, persons int) {
	h.logger.Debug("layout start", "viz", vizType, "persons", persons)
}

func (h *LogHooks) OnLayoutComplete(_ context.Context, vizType string, d time.Duration, err error) {
	h.done("layout complete", err, "viz", vizType, "duration", d)
}

func (h *LogHooks) OnRenderStart(_ context.Context, formats []string) {
	h.logger.Debug("render start", "formats", formats)
}

func (h *LogHooks) OnRenderComplete(_ context.Context, formats []string, d time.Duration, err error) {
	h.done("render complete", err, "formats", formats, "duration", d)
}

func (h *LogHooks) OnCacheHit(_ context.Context, keyType string) {
	h.logger.Debug("cache hit", "type", keyType)
}

func (h *LogHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.logger.Debug("cache miss", "type", keyType)
}

func (h *LogHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.logger.Debug("cache set", "type", keyType, "bytes", size)
}

func (h *LogHooks) OnRequest(_ context.Context, method, route string) {
	h.logger.Debug("request", "method", method, "route", route)
}

func (h *LogHooks) OnResponse(_ context.Context, method, route string, status int, d time.Duration) {
	h.logger.Debug("response", "method", method, "route", route, "status", status, "duration", d)
}

var (
	_ PipelineHooks = (*LogHooks)(nil)
	_ CacheHooks    = (*LogHooks)(nil)
	_ HTTPHooks     = (*LogHooks)(nil)
)
