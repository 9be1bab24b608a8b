package migrate

import (
	"fmt"
	"io"

	"github.com/golang-migrate/migrate/v4"
)

var _ migrate.Logger = (*consoleLogger)(nil)

// consoleLogger prints migration progress for the operator running the command.
type consoleLogger struct {
	out     io.Writer
	prefix  string
	verbose bool
}

func newConsoleLogger(out io.Writer, name string) *consoleLogger {
	return &consoleLogger{out: out, prefix: fmt.Sprintf("[%s] ", name)}
}

func (l *consoleLogger) Printf(format string, v ...interface{}) {
	fmt.Fprintf(l.out, l.prefix+format, v...)
}

func (l *consoleLogger) Verbose() bool {
	return l.verbose
}
