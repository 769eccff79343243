package feature

import "github.com/xh3b4sd/tracer"

// Contribution is the signed shift a single feature applies to the forecast,
// relative to the explainer's base value.
type Contribution struct {
	Nam string  `json:"feature"`
	Val int     `json:"value"`
	Eff float64 `json:"effect"`
}

// Attribution is the additive explanation of one forecast. Bas plus the sum of
// all contribution effects equals the explained prediction.
type Attribution struct {
	Bas float64        `json:"base"`
	Con []Contribution `json:"contributions"`
}

// Attribute pairs the raw effects returned by an explainer with the record
// they explain. The effects must be given in the column order of Names.
func Attribute(rec Record, bas float64, eff []float64) (Attribution, error) {
	if len(eff) != len(Names) {
		return Attribution{}, tracer.Maskf(invalidEffectsError, "expected %d effects, got %d", len(Names), len(eff))
	}

	val := rec.Values()

	var con []Contribution
	for i, n := range Names {
		con = append(con, Contribution{Nam: n, Val: val[i], Eff: eff[i]})
	}

	return Attribution{Bas: bas, Con: con}, nil
}

// Output returns the prediction the attribution explains.
func (a Attribution) Output() float64 {
	out := a.Bas

	for _, c := range a.Con {
		out += c.Eff
	}

	return out
}
