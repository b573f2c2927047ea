package main

import (
	"fmt"
	"io"
	"os"
	"slices"
	"strings"
	"time"
)

// envPrefix namespaces the environment overrides.
const envPrefix = "MD2SITE"

// Environment holds injectable dependencies for testability.
type Environment struct {
	Now     func() time.Time
	Stdout  io.Writer
	Stderr  io.Writer
	Environ func() []string
}

// DefaultEnv returns the process environment.
func DefaultEnv() *Environment {
	return &Environment{
		Now:     time.Now,
		Stdout:  os.Stdout,
		Stderr:  os.Stderr,
		Environ: os.Environ,
	}
}

// knownEnvVars lists valid MD2SITE_* environment variables.
// Used to detect typos and warn users about unknown variables.
var knownEnvVars = map[string]bool{
	"MD2SITE_CONFIG":       true,
	"MD2SITE_SOURCE":       true,
	"MD2SITE_DESTINATION":  true,
	"MD2SITE_WORKERS":      true,
	"MD2SITE_STAGING":      true,
	"MD2SITE_KEEP_STAGING": true,
	"MD2SITE_LAYOUTS":      true,
	"MD2SITE_ADDR":         true,
}

// unknownEnvVars returns the MD2SITE_* names in environ that are not
// recognized, sorted.
func unknownEnvVars(environ []string) []string {
	var unknown []string
	for _, env := range environ {
		if !strings.HasPrefix(env, envPrefix+"_") {
			continue
		}
		name, _, _ := strings.Cut(env, "=")
		if !knownEnvVars[name] {
			unknown = append(unknown, name)
		}
	}
	slices.Sort(unknown)
	return unknown
}

// warnUnknownEnvVars prints a warning for each unrecognized variable.
// Helps catch typos like MD2SITE_DESTINATON.
func warnUnknownEnvVars(w io.Writer, environ []string) {
	for _, name := range unknownEnvVars(environ) {
		fmt.Fprintf(w, "warning: unknown environment variable %s (typo?)\n", name)
	}
}
