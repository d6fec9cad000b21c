package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ardnew/veascript/log"
)

func TestLogConfig_Scan(t *testing.T) {
	prev := log.Default()
	t.Cleanup(func() { log.SetDefault(prev) })

	base := logConfig{Level: "info", Format: "text", TimeLayout: "rfc3339", Pretty: true}

	tests := []struct {
		name string
		args []string
		want logConfig
	}{
		{
			name: "separate values",
			args: []string{"run", "--log-level", "debug", "--log-format", "json", "x.vea"},
			want: logConfig{Level: "debug", Format: "json", TimeLayout: "rfc3339", Pretty: true},
		},
		{
			name: "assigned values",
			args: []string{"--log-level=trace", "--log-time=kitchen"},
			want: logConfig{Level: "trace", Format: "text", TimeLayout: "kitchen", Pretty: true},
		},
		{
			name: "negated booleans",
			args: []string{"--no-log-pretty", "--log-caller"},
			want: logConfig{Level: "info", Format: "text", TimeLayout: "rfc3339", Caller: true},
		},
		{
			name: "assigned booleans",
			args: []string{"--log-pretty=false", "--no-log-caller=false"},
			want: logConfig{Level: "info", Format: "text", TimeLayout: "rfc3339", Caller: true},
		},
		{
			name: "bad boolean ignored",
			args: []string{"--log-pretty=maybe"},
			want: base,
		},
		{
			name: "value flag missing value",
			args: []string{"--log-level", "--log-caller"},
			want: logConfig{Level: "", Format: "text", TimeLayout: "rfc3339", Caller: true, Pretty: true},
		},
		{
			name: "stops at terminator",
			args: []string{"--", "--log-level=error"},
			want: base,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := base
			got.scan(tt.args)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLogConfig_ScanConfiguresLogger(t *testing.T) {
	prev := log.Default()
	t.Cleanup(func() { log.SetDefault(prev) })

	f := logConfig{}
	f.scan([]string{"--log-level=warn", "--log-format=json"})

	assert.Equal(t, log.LevelWarn, log.Default().Level())
	assert.Equal(t, log.FormatJSON, log.Default().Format())
}
