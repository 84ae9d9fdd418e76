package main

import (
	"os"
	"runtime"

	"github.com/agaraleas/ConcordanceChallenge/cmd"
)

func main() {
	// only used when started through "go run"
	_, source, _, _ := runtime.Caller(0)

	os.Exit(cmd.Execute(source))
}
