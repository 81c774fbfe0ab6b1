package logsvc

import (
	"io"
	"os"

	"github.com/charmbracelet/log"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/trezcool/mentori/core"
)

// NewStdLogger returns the local sink: stdout, plus a rotating file when conf.LogFile is set.
func NewStdLogger(conf *core.Config, prefix string) *log.Logger {
	var w io.Writer = os.Stdout
	if conf.LogFile != "" {
		w = io.MultiWriter(os.Stdout, &lumberjack.Logger{
			Filename:   conf.LogFile,
			MaxSize:    10, // megabytes
			MaxBackups: 3,
			MaxAge:     28, // days
			Compress:   true,
		})
	}

	level := log.InfoLevel
	if conf.Debug {
		level = log.DebugLevel
	}
	return log.NewWithOptions(w, log.Options{
		ReportCaller:    conf.Debug,
		ReportTimestamp: true,
		Level:           level,
		Prefix:          prefix,
	})
}
