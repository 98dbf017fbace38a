package repository

import "errors"

// Sentinel kinds for bundle store errors.
var (
	ErrDecodeBundle  = errors.New("bundle decode failed")
	ErrSchemaVersion = errors.New("unsupported bundle schema version")
)
