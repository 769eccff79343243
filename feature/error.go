package feature

import (
	"errors"

	"github.com/xh3b4sd/tracer"
)

var invalidHourError = &tracer.Error{
	Kind: "invalidHourError",
}

func IsInvalidHour(err error) bool {
	return errors.Is(err, invalidHourError)
}

var invalidDateError = &tracer.Error{
	Kind: "invalidDateError",
}

func IsInvalidDate(err error) bool {
	return errors.Is(err, invalidDateError)
}

var invalidEffectsError = &tracer.Error{
	Kind: "invalidEffectsError",
}

func IsInvalidEffects(err error) bool {
	return errors.Is(err, invalidEffectsError)
}
