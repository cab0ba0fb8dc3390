// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package log

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/apex/log"
)

// InitLogger sets up Apex with a custom handler and a log level from the
// DBDUMP_LOG env variable.
func InitLogger() {
	level := strings.ToUpper(os.Getenv("DBDUMP_LOG"))
	if level == "" {
		level = "ERROR"
	}
	log.SetHandler(&CustomHandler{Out: os.Stderr})
	log.SetLevelFromString(level)
}

// SetVerbosity raises the level to INFO at verbosity 2 and above. A level
// already lower than INFO is left alone.
func SetVerbosity(verbosity int) {
	if verbosity < 2 {
		return
	}
	if l, ok := log.Log.(*log.Logger); ok && l.Level > log.InfoLevel {
		log.SetLevel(log.InfoLevel)
	}
}

// CustomHandler formats log messages as one line each.
type CustomHandler struct {
	Out io.Writer
}

// HandleLog implements the log.Handler interface
func (h *CustomHandler) HandleLog(e *log.Entry) error {
	timestamp := time.Now().Format("2006-01-02 15:04:05")
	level := strings.ToUpper(e.Level.String())
	_, err := fmt.Fprintf(h.Out, "%s %.1s %s\n", timestamp, level, e.Message)
	return err
}
