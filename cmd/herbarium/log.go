package main

import (
	"io"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type logger struct {
	*zap.SugaredLogger
}

// newLogger returns a logger writing console lines onto w when verbose,
// and one discarding everything otherwise.
func newLogger(verbose bool, w io.Writer) *logger {
	if !verbose {
		return &logger{zap.NewNop().Sugar()}
	}
	config := zap.NewDevelopmentEncoderConfig()
	config.EncodeTime = zapcore.RFC3339TimeEncoder
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(config), zapcore.Lock(zapcore.AddSync(w)), zapcore.DebugLevel)
	return &logger{zap.New(core).Sugar()}
}

func (l *logger) Logf(format string, a ...interface{}) {
	l.Infof(format, a...)
}
