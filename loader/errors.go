package loader

import (
	"errors"
	"os"

	"github.com/xh3b4sd/tracer"
)

var modelNotFoundError = &tracer.Error{
	Kind: "modelNotFoundError",
}

func IsModelNotFound(err error) bool {
	return errors.Is(err, modelNotFoundError)
}

var restoreTimeoutError = &tracer.Error{
	Kind: "restoreTimeoutError",
}

func IsRestoreTimeout(err error) bool {
	return errors.Is(err, restoreTimeoutError)
}

var bridgeResponseError = &tracer.Error{
	Kind: "bridgeResponseError",
}

// IsBridgeResponse returns true if the Python child process answered a
// forecast request with a non-OK status or an unreadable body.
func IsBridgeResponse(err error) bool {
	return errors.Is(err, bridgeResponseError)
}

func IsProcessAlreadyFinished(err error) bool {
	return errors.Is(err, os.ErrProcessDone)
}
