package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/buffer"
	"go.uber.org/zap/zapcore"
	"golang.org/x/term"
)

// AppName names the root logger.
const AppName = "docnav"

// EnableColorOutput reports whether stream is a terminal.
func EnableColorOutput(stream *os.File) bool {
	return term.IsTerminal(int(stream.Fd()))
}

// NewLogger returns the program logger. Console output always goes to
// stderr so that stdout stays clean for command results and the MCP stdio
// transport. Errors are printed without their verbose form on the console.
// The returned closer releases the log file, if any.
func (c LogConfig) NewLogger() (*zap.Logger, io.Closer, error) {
	return c.newLogger(os.Stderr)
}

func (c LogConfig) newLogger(console *os.File) (*zap.Logger, io.Closer, error) {
	ec := zap.NewDevelopmentEncoderConfig()
	ec.EncodeCaller = nil
	if EnableColorOutput(console) {
		ec.EncodeLevel = zapcore.CapitalColorLevelEncoder
		ec.TimeKey = zapcore.OmitKey
	} else {
		ec.EncodeLevel = zapcore.CapitalLevelEncoder
	}

	var consoleCore zapcore.Core
	if lvl, ok := zapLevel(c.Level); ok {
		consoleCore = zapcore.NewCore(newEncoder(ec), zapcore.Lock(console), lvl)
	} else {
		consoleCore = zapcore.NewNopCore()
	}

	fileCore := zapcore.NewNopCore()
	var closer io.Closer = nopCloser{}
	fileLevel := c.FileLevel
	if fileLevel == "" {
		fileLevel = c.Level
	}
	if lvl, ok := zapLevel(fileLevel); ok && c.Destination != "" {
		if err := os.MkdirAll(filepath.Dir(c.Destination), 0755); err != nil {
			return nil, nil, fmt.Errorf("creating log directory: %w", err)
		}
		f, err := os.OpenFile(c.Destination, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, nil, fmt.Errorf("unable to access log destination (%s): %w", c.Destination, err)
		}
		fileCore = zapcore.NewCore(zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig()), zapcore.Lock(f), lvl)
		closer = f
	}

	log := zap.New(zapcore.NewTee(consoleCore, fileCore), zap.AddCaller())
	return log.Named(AppName), closer, nil
}

func zapLevel(l LogLevel) (zapcore.Level, bool) {
	switch l {
	case LogDebug:
		return zapcore.DebugLevel, true
	case LogNormal:
		return zapcore.InfoLevel, true
	default:
		return zapcore.InfoLevel, false
	}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// consoleEnc prints errors without their verbose form.
type consoleEnc struct {
	zapcore.Encoder
}

func newEncoder(cfg zapcore.EncoderConfig) zapcore.Encoder {
	return consoleEnc{zapcore.NewConsoleEncoder(cfg)}
}

func (c consoleEnc) Clone() zapcore.Encoder {
	return consoleEnc{c.Encoder.Clone()}
}

func (c consoleEnc) EncodeEntry(ent zapcore.Entry, fields []zapcore.Field) (*buffer.Buffer, error) {
	newFields := make([]zapcore.Field, 0, len(fields))
	for _, f := range fields {
		if f.Type == zapcore.ErrorType {
			e := f.Interface.(error)
			f.Interface = errors.New(e.Error())
		}
		newFields = append(newFields, f)
	}
	return c.Encoder.EncodeEntry(ent, newFields)
}
