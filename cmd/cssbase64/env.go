package main

import (
	"io"
	"os"
	"time"
)

// defaultDotEnv is read from the working directory when present.
const defaultDotEnv = ".env"

// Environment holds injectable dependencies for testability.
type Environment struct {
	Now     func() time.Time
	Stdout  io.Writer
	Stderr  io.Writer
	Environ func() []string // process environment, "KEY=value" pairs
	DotEnv  string          // optional .env file; "" disables it
}

// DefaultEnv returns the production environment.
func DefaultEnv() *Environment {
	return &Environment{
		Now:     time.Now,
		Stdout:  os.Stdout,
		Stderr:  os.Stderr,
		Environ: os.Environ,
		DotEnv:  defaultDotEnv,
	}
}
