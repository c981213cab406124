package logger

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSetLevel(t *testing.T) {
	t.Cleanup(func() { SetLevel("info", nil) })

	tests := []struct {
		level     string
		wantDebug bool
		wantInfo  bool
		wantWarn  bool
		wantError bool
	}{
		{level: "debug", wantDebug: true, wantInfo: true, wantWarn: true, wantError: true},
		{level: "info", wantInfo: true, wantWarn: true, wantError: true},
		{level: "WARN", wantWarn: true, wantError: true},
		{level: "error", wantError: true},
		{level: "nonsense", wantInfo: true, wantWarn: true, wantError: true},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			var buf bytes.Buffer
			SetLevel(tt.level, &buf)

			Debug.Print("d-line")
			Info.Print("i-line")
			Warn.Print("w-line")
			Error.Print("e-line")

			out := buf.String()
			assert.Equal(t, tt.wantDebug, bytes.Contains([]byte(out), []byte("DEBUG: ")))
			assert.Equal(t, tt.wantInfo, bytes.Contains([]byte(out), []byte("INFO: ")))
			assert.Equal(t, tt.wantWarn, bytes.Contains([]byte(out), []byte("WARN: ")))
			assert.Equal(t, tt.wantError, bytes.Contains([]byte(out), []byte("ERROR: ")))
		})
	}
}
