package logger

import (
	"io"
	"log"
	"os"
	"strings"
)

var (
	Info  *log.Logger
	Error *log.Logger
	Debug *log.Logger
	Warn  *log.Logger
)

const logFlags = log.Ldate | log.Ltime | log.LUTC | log.Lshortfile

func init() {
	Debug = log.New(io.Discard, "DEBUG: ", logFlags)
	Info = log.New(os.Stdout, "INFO: ", logFlags)
	Warn = log.New(os.Stdout, "WARN: ", logFlags)
	Error = log.New(os.Stdout, "ERROR: ", logFlags)
}

// SetLevel routes every logger at or above level to w and discards the rest.
// Unknown levels behave like "info".
func SetLevel(level string, w io.Writer) {
	if w == nil {
		w = os.Stdout
	}
	rank := map[string]int{"debug": 0, "info": 1, "warn": 2, "warning": 2, "error": 3}
	threshold, ok := rank[strings.ToLower(strings.TrimSpace(level))]
	if !ok {
		threshold = 1
	}

	for i, l := range []*log.Logger{Debug, Info, Warn, Error} {
		if i >= threshold {
			l.SetOutput(w)
		} else {
			l.SetOutput(io.Discard)
		}
	}
}
