package asset

import (
	"errors"

	"github.com/xh3b4sd/tracer"
)

var invalidImageError = &tracer.Error{
	Kind: "invalidImageError",
}

func IsInvalidImage(err error) bool {
	return errors.Is(err, invalidImageError)
}
