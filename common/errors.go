package common

import (
	"errors"
	"fmt"
	"strings"
)

type ErrorKind int

const (
	KindNone ErrorKind = iota
	KindIO
	KindSpawn
	KindNonZeroExit
	KindNetwork
	KindArchive
	KindValidation
)

func (k ErrorKind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindIO:
		return "io"
	case KindSpawn:
		return "spawn"
	case KindNonZeroExit:
		return "exit"
	case KindNetwork:
		return "network"
	case KindArchive:
		return "archive"
	case KindValidation:
		return "validation"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// SpawnError means the process never started.
type SpawnError struct {
	Name string
	Err  error
}

func (e *SpawnError) Error() string {
	return fmt.Sprintf("failed to start %s: %v", e.Name, e.Err)
}

func (e *SpawnError) Unwrap() error { return e.Err }

// ExitError means the process ran and reported failure.
type ExitError struct {
	Name     string
	ExitCode int
	Stdout   string
	Stderr   string
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("%s exited with code %d: %s", e.Name, e.ExitCode, e.Detail())
}

// Detail prefers stderr and falls back to stdout.
func (e *ExitError) Detail() string {
	if s := strings.TrimSpace(e.Stderr); s != "" {
		return s
	}
	return strings.TrimSpace(e.Stdout)
}

type ValidationError struct {
	Field string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s is required", e.Field)
}

type NetworkError struct {
	URL string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("request %s: %v", e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

type ArchiveError struct {
	Path string
	Err  error
}

func (e *ArchiveError) Error() string {
	return fmt.Sprintf("extract %s: %v", e.Path, e.Err)
}

func (e *ArchiveError) Unwrap() error { return e.Err }

// Classify maps an error onto the taxonomy. Unknown errors are treated as I/O.
func Classify(err error) ErrorKind {
	if err == nil {
		return KindNone
	}
	var (
		spawnErr   *SpawnError
		exitErr    *ExitError
		validErr   *ValidationError
		netErr     *NetworkError
		archiveErr *ArchiveError
	)
	switch {
	case errors.As(err, &validErr):
		return KindValidation
	case errors.As(err, &spawnErr):
		return KindSpawn
	case errors.As(err, &exitErr):
		return KindNonZeroExit
	case errors.As(err, &netErr):
		return KindNetwork
	case errors.As(err, &archiveErr):
		return KindArchive
	}
	return KindIO
}

// Result is what every mutating operation hands back to the shell.
type Result struct {
	Success bool
	Message string
	Kind    ErrorKind
	Err     error
}

func OK(message string) Result {
	return Result{Success: true, Message: message}
}

// Fail builds a failed result whose message is prefix followed by the error text.
func Fail(prefix string, err error) Result {
	msg := prefix
	if err != nil {
		var exitErr *ExitError
		detail := err.Error()
		if errors.As(err, &exitErr) {
			detail = exitErr.Detail()
		}
		if prefix == "" {
			msg = detail
		} else {
			msg = prefix + ": " + detail
		}
	}
	return Result{Message: msg, Kind: Classify(err), Err: err}
}

// Invalid rejects a request before any work is attempted.
func Invalid(message string) Result {
	return Result{Message: message, Kind: KindValidation}
}
