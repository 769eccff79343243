package loadcast

import (
	"context"

	"github.com/xh3b4sd/loadcast/feature"
)

// Forecaster describes how a pre-trained load model and its bound explainer
// can be restored and used for forecasts. The default implementation is
// loader.Loader, which spawns a Python child process.
//
//     var f Forecaster = &loader.Loader{Mod: "model_prediksi_beban.joblib", Por: 8642}
//
type Forecaster interface {
	// Restore loads the serialized regression model, e.g. a joblib dump of an
	// XGBoost regressor, and constructs a tree explainer bound to it. Restore
	// must be called exactly once before Predict or Explain.
	//
	//     err := f.Restore(ctx)
	//
	Restore(context.Context) error
	// Predict returns the forecast load in megawatts for the given feature
	// record.
	Predict(context.Context, feature.Record) (float64, error)
	// Explain returns the additive attribution of the given feature record.
	// The base value plus all contributions equals the value returned by
	// Predict for the same record.
	Explain(context.Context, feature.Record) (feature.Attribution, error)
	// Sigkill releases the resources acquired by Restore. No forecasts can be
	// made anymore after calling Sigkill.
	Sigkill() error
}
