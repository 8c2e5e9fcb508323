package ipn

import "go.uber.org/zap"

// DiagnosticsName is the named log target for IPN debug captures.
const DiagnosticsName = "bitdrive_ipn"

// Diagnostics accumulates structured context for one inbound notification
// and flushes it exactly once at the end of processing. It is write-only:
// it never errors, never blocks and never influences control flow.
type Diagnostics struct {
	enabled bool
	logger  *zap.Logger
	fields  []zap.Field
	flushed bool
}

// NewDiagnostics builds a sink bound to a named zap logger. When disabled,
// Record still accumulates but Flush discards.
func NewDiagnostics(logger *zap.Logger, enabled bool) *Diagnostics {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Diagnostics{
		enabled: enabled,
		logger:  logger.Named(DiagnosticsName),
	}
}

// Record adds one entry to the capture for the current request.
func (d *Diagnostics) Record(key string, value interface{}) {
	if d == nil {
		return
	}
	d.fields = append(d.fields, zap.Any(key, value))
}

// Flush writes the accumulated entries once, success or failure.
// Subsequent calls are no-ops.
func (d *Diagnostics) Flush() {
	if d == nil || d.flushed {
		return
	}
	d.flushed = true
	if !d.enabled {
		return
	}
	d.logger.Info("ipn debug", d.fields...)
}
