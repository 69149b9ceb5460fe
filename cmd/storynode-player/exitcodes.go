package main

import (
	"errors"

	"github.com/storynode/player/internal/player"
	"github.com/storynode/player/internal/workenv"
	"github.com/storynode/player/pkg/snpk"
	"github.com/storynode/player/pkg/snpk/archive"
)

// Exit codes for different error types
const (
	ExitPanic           = 101
	ExitFormatError     = 102
	ExitExtractionError = 103
	ExitNoGameData      = 104
	ExitInvalidArgs     = 105
	ExitIOError         = 106
)

type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

// withExitCode classifies err by the sentinel it wraps
func withExitCode(err error) error {
	if err == nil {
		return nil
	}

	code := ExitIOError
	switch {
	case errors.Is(err, player.ErrNoGameData):
		code = ExitNoGameData
	case errors.Is(err, player.ErrExtractionFailed):
		code = ExitExtractionError
	case errors.Is(err, snpk.ErrInvalidMagic),
		errors.Is(err, snpk.ErrShortTrailer),
		errors.Is(err, snpk.ErrArchiveOutOfRange),
		errors.Is(err, archive.ErrUnknownFormat):
		code = ExitFormatError
	case errors.Is(err, archive.ErrUnsafePath),
		errors.Is(err, workenv.ErrLockTimeout):
		code = ExitExtractionError
	}
	return &exitError{code: code, err: err}
}
