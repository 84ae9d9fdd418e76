package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/mitchellh/colorstring"
	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
)

// traceErrors adds stack traces to logged errors
var traceErrors bool

// each tag is rendered on its own, so the automatic reset has to stay off
var colors = colorstring.Colorize{
	Colors: colorstring.DefaultColors,
	Reset:  false,
}

// ConsoleWriter renders zerolog's JSON events as coloured console lines.
type ConsoleWriter struct {
	// Debug appends all event fields to each line
	Debug bool

	out    io.Writer
	buffer strings.Builder
	lock   sync.Mutex
}

func NewConsoleWriter(out io.Writer) *ConsoleWriter {
	return &ConsoleWriter{out: out}
}

func (w *ConsoleWriter) Write(p []byte) (n int, err error) {
	w.lock.Lock()
	defer w.lock.Unlock()

	var evt map[string]interface{}
	d := json.NewDecoder(bytes.NewReader(p))
	d.UseNumber()
	err = d.Decode(&evt)
	if err != nil {
		return n, eris.Wrapf(err, "cannot decode event: %s", p)
	}

	w.buffer.Reset()
	switch evt["level"] {
	case "fatal", "error":
		w.buffer.WriteString(colors.Color("[red]"))
	case "warn":
		w.buffer.WriteString(colors.Color("[yellow]"))
	case "debug", "trace":
		w.buffer.WriteString(colors.Color("[blue]"))
	default:
		w.buffer.WriteString(colors.Color("[green]"))
	}

	if evt["level"] == "error" || evt["level"] == "fatal" {
		w.buffer.WriteString("Error: ")
	}

	if isCmd, ok := evt["command"].(bool); ok && isCmd {
		w.buffer.WriteString("> ")
	}

	msg, _ := evt["message"].(string)

	if path, ok := evt["path"].(string); ok {
		// simplify the path
		wd, err := os.Getwd()
		if err == nil {
			relPath, err := filepath.Rel(wd, path)
			if err == nil && !strings.HasPrefix(relPath, "..") {
				msg = strings.ReplaceAll(msg, path, relPath)
			}
		}
	}

	// the message is written as is; shell quoting may contain brackets colorstring would interpret
	w.buffer.WriteString(msg)

	if errorDetails, ok := evt["error"].(string); ok {
		w.buffer.WriteString("\n")
		w.buffer.WriteString(errorDetails)
	}

	if w.Debug {
		w.buffer.WriteString("\n")
		for name, value := range evt {
			w.buffer.WriteString(fmt.Sprintf("  %s: %+v\n", name, value))
		}
	}

	w.buffer.WriteString(colors.Color("[reset]"))
	w.buffer.WriteString("\n")
	_, err = io.WriteString(w.out, w.buffer.String())
	if err != nil {
		return 0, err
	}

	return len(p), nil
}

func init() {
	zerolog.ErrorMarshalFunc = func(err error) interface{} {
		return eris.ToString(err, traceErrors)
	}
}
