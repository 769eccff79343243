package service

import (
	"errors"

	"github.com/xh3b4sd/tracer"
)

var forecastFailedError = &tracer.Error{
	Kind: "forecastFailedError",
}

func IsForecastFailed(err error) bool {
	return errors.Is(err, forecastFailedError)
}

var recorderDisabledError = &tracer.Error{
	Kind: "recorderDisabledError",
}

func IsRecorderDisabled(err error) bool {
	return errors.Is(err, recorderDisabledError)
}
