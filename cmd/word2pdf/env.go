package main

import (
	"io"
	"os"
	"os/exec"
	"time"

	word2pdf "github.com/alnah/go-word2pdf"
)

// Environment holds injectable dependencies for testability.
// Includes I/O, time, host lookups, and converter construction.
type Environment struct {
	Now          func() time.Time
	Stdout       io.Writer
	Stderr       io.Writer
	Getenv       func(string) string
	Environ      func() []string
	LookPath     func(string) (string, error)
	NewConverter func(opts ...word2pdf.Option) (Converter, error)
}

// DefaultEnv returns the production environment.
func DefaultEnv() *Environment {
	return &Environment{
		Now:      time.Now,
		Stdout:   os.Stdout,
		Stderr:   os.Stderr,
		Getenv:   os.Getenv,
		Environ:  os.Environ,
		LookPath: exec.LookPath,
		NewConverter: func(opts ...word2pdf.Option) (Converter, error) {
			return word2pdf.NewConverter(opts...)
		},
	}
}
