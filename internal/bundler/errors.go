package bundler

import "errors"

// Sentinel error kinds for the build pipeline. All of these are fatal:
// the build aborts and no artifact is written.
var (
	ErrIndexNotFound = errors.New("index not found")
	ErrNoSources     = errors.New("no sources listed in index")
	ErrMissingSource = errors.New("required source missing")
	ErrParseSource   = errors.New("source parse failed")
	ErrIdentity      = errors.New("creator identity violation")
	ErrWriteArtifact = errors.New("artifact write failed")
)
