// Package service binds a restored forecaster to the request cycle. A Service
// is built once at startup and shared by all handlers.
package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/xh3b4sd/loadcast"
	"github.com/xh3b4sd/loadcast/ctxlog"
	"github.com/xh3b4sd/loadcast/feature"
	"github.com/xh3b4sd/loadcast/recorder"
	"github.com/xh3b4sd/loadcast/render"
	"github.com/xh3b4sd/tracer"
)

// Recorder persists served forecasts. It is satisfied by *recorder.Recorder.
type Recorder interface {
	Record(context.Context, recorder.Entry) error
	Recent(context.Context, int) ([]recorder.Entry, error)
}

type Config struct {
	// For is the restored model and explainer.
	For loadcast.Forecaster
	// Rec is optional. Forecasts are not persisted if Rec is nil.
	Rec Recorder
	// Tim bounds every call into the forecaster. Defaults to ten seconds.
	Tim time.Duration
	// Now defaults to time.Now.
	Now func() time.Time
}

type Service struct {
	fore loadcast.Forecaster
	reco Recorder
	tim  time.Duration
	now  func() time.Time
}

// Result is a single served forecast.
type Result struct {
	ID  uuid.UUID           `json:"id"`
	Rec feature.Record      `json:"record"`
	For float64             `json:"forecast"`
	Dis string              `json:"display"`
	Att feature.Attribution `json:"attribution"`
	Cre time.Time           `json:"created_at"`
}

func New(c Config) *Service {
	if c.For == nil {
		panic("Config.For must not be empty")
	}

	if c.Tim == 0 {
		c.Tim = 10 * time.Second
	}

	if c.Now == nil {
		c.Now = time.Now
	}

	return &Service{
		fore: c.For,
		reco: c.Rec,
		tim:  c.Tim,
		now:  c.Now,
	}
}

// Forecast derives the feature record for the given day and hour, asks the
// model for the load and the explainer for the attribution of that same
// record.
func (s *Service) Forecast(ctx context.Context, dat time.Time, hou int) (Result, error) {
	rec, err := feature.Build(dat, hou)
	if err != nil {
		return Result{}, tracer.Mask(err)
	}

	ctx, cancel := context.WithTimeout(ctx, s.tim)
	defer cancel()

	var pre float64
	{
		pre, err = s.fore.Predict(ctx, rec)
		if err != nil {
			return Result{}, tracer.Maskf(forecastFailedError, "predict: %v", err)
		}
	}

	var att feature.Attribution
	{
		att, err = s.fore.Explain(ctx, rec)
		if err != nil {
			return Result{}, tracer.Maskf(forecastFailedError, "explain: %v", err)
		}
	}

	res := Result{
		ID:  uuid.New(),
		Rec: rec,
		For: pre,
		Dis: render.Megawatt(pre),
		Att: att,
		Cre: s.now().UTC(),
	}

	if s.reco != nil {
		err := s.reco.Record(ctx, recorder.Entry{ID: res.ID, Rec: res.Rec, For: res.For, Att: res.Att, Cre: res.Cre})
		if err != nil {
			ctxlog.FromContext(ctx).Warn("failed to record forecast", "id", res.ID, "error", err)
		}
	}

	return res, nil
}

// Recent returns up to lim recorded forecasts, newest first.
func (s *Service) Recent(ctx context.Context, lim int) ([]recorder.Entry, error) {
	if s.reco == nil {
		return nil, tracer.Mask(recorderDisabledError)
	}

	ent, err := s.reco.Recent(ctx, lim)
	if err != nil {
		return nil, tracer.Mask(err)
	}

	return ent, nil
}

// Recording reports whether forecasts are persisted.
func (s *Service) Recording() bool {
	return s.reco != nil
}
