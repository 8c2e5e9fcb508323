package ipn

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestDiagnosticsFlushesOnceWhenEnabled(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	d := NewDiagnostics(zap.New(core), true)

	d.Record("ipn", "{...}")
	d.Record("exception", "boom")
	d.Flush()
	d.Flush()

	entries := logs.All()
	assert.Len(t, entries, 1)
	assert.Equal(t, DiagnosticsName, entries[0].LoggerName)

	fields := entries[0].ContextMap()
	assert.Equal(t, "{...}", fields["ipn"])
	assert.Equal(t, "boom", fields["exception"])
}

func TestDiagnosticsDisabledDiscards(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	d := NewDiagnostics(zap.New(core), false)

	d.Record("ipn", "{...}")
	d.Flush()

	assert.Empty(t, logs.All())
}

func TestDiagnosticsNilReceiverIsSafe(t *testing.T) {
	var d *Diagnostics
	d.Record("key", "value")
	d.Flush()
}

func TestNewDiagnosticsFromConfig(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	logger := zap.New(core)

	for _, enabled := range []string{"1", "true"} {
		NewDiagnosticsFromConfig(logger, enabled).Flush()
	}
	assert.Len(t, logs.All(), 2)

	before := len(logs.All())
	for _, disabled := range []string{"", "0", "false"} {
		NewDiagnosticsFromConfig(logger, disabled).Flush()
	}
	assert.Len(t, logs.All(), before)
}
