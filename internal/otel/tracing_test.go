package otel

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestParseRatio(t *testing.T) {
	tests := map[string]float64{
		"0.25": 0.25,
		" 1 ":  1,
		"0":    0,
		"2.5":  1,
		"-1":   0,
		"abc":  1,
		"":     1,
	}
	for in, want := range tests {
		assert.Equal(t, want, parseRatio(in), "input %q", in)
	}
}

func TestNewSampler(t *testing.T) {
	tests := []struct {
		name string
		arg  string
		want string
	}{
		{name: "always_on", want: "AlwaysOnSampler"},
		{name: "always_off", want: "AlwaysOffSampler"},
		{name: "traceidratio", arg: "0.5", want: "TraceIDRatioBased{0.5}"},
		{name: "parentbased_always_off", want: "ParentBased{root:AlwaysOffSampler"},
		{name: "unknown", want: "ParentBased{root:AlwaysOnSampler"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Contains(t, newSampler(tt.name, tt.arg).Description(), tt.want)
		})
	}
}

func TestInit_Disabled(t *testing.T) {
	t.Setenv("OTEL_SDK_DISABLED", "true")
	core, logs := observer.New(zapcore.InfoLevel)

	shutdown, err := Init(context.Background(), zap.New(core))
	require.NoError(t, err)
	require.NoError(t, shutdown(context.Background()))

	entries := logs.FilterMessage("tracing_configured").All()
	require.Len(t, entries, 1)
	assert.Equal(t, false, entries[0].ContextMap()["tracing_enabled"])
}
