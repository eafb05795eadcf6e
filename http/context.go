package http

import (
	"context"
	"fmt"
	"io"
	"io/ioutil"
)

// NewContext returns a new Context that carries the server's log output.
func NewContext(ctx context.Context, logOutput io.Writer) context.Context {
	return context.WithValue(ctx, logOutputKey, logOutput)
}

// LogOutput returns the log output stored in ctx.
// Returns ioutil.Discard if ctx carries none.
func LogOutput(ctx context.Context) io.Writer {
	if w, _ := ctx.Value(logOutputKey).(io.Writer); w != nil {
		return w
	}
	return ioutil.Discard
}

// logf writes a single log line to the log output stored in ctx.
func logf(ctx context.Context, format string, a ...interface{}) {
	fmt.Fprintf(LogOutput(ctx), format+"\n", a...)
}

type contextKey int

const logOutputKey contextKey = 0
