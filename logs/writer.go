package logs

import (
	"fmt"
	"io"
	"os"

	"github.com/reusee/tailambda/cmds"
)

var logFile = cmds.Var[string]("-log-file")

// Writer receives local log records: stderr, or the file named by -log-file.
type Writer io.Writer

func (Module) Writer() Writer {
	if *logFile == "" {
		return os.Stderr
	}
	f, err := os.OpenFile(*logFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "log file: %v\n", err)
		return os.Stderr
	}
	return f
}
