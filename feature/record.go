package feature

import (
	"time"

	"github.com/xh3b4sd/tracer"
)

const (
	// Layout is the calendar date format accepted from forms, queries and
	// flags.
	Layout = "2006-01-02"
)

// Names lists the model columns in the order the regressor was trained on.
var Names = []string{
	"hour",
	"dayofweek",
	"quarter",
	"month",
	"year",
	"dayofyear",
}

// Record is the single row fed into the model and the explainer. Use Build or
// Parse to derive one, since they enforce the value ranges the model was
// trained on.
type Record struct {
	Hou int `json:"hour"`
	// Dow is the day of the week where Monday is 0 and Sunday is 6.
	Dow int `json:"dayofweek"`
	Qua int `json:"quarter"`
	Mon int `json:"month"`
	Yea int `json:"year"`
	Doy int `json:"dayofyear"`
}

// Build derives the feature record for the given calendar date and hour of
// day. Only the year, month and day of dat are considered, so the same
// calendar date always yields the same record regardless of its clock time or
// location.
func Build(dat time.Time, hou int) (Record, error) {
	if hou < 0 || hou > 23 {
		return Record{}, tracer.Maskf(invalidHourError, "hour must be within 0 and 23, got %d", hou)
	}

	if dat.IsZero() {
		return Record{}, tracer.Maskf(invalidDateError, "date must not be empty")
	}

	var day time.Time
	{
		day = time.Date(dat.Year(), dat.Month(), dat.Day(), 0, 0, 0, 0, time.UTC)
	}

	rec := Record{
		Hou: hou,
		Dow: (int(day.Weekday()) + 6) % 7,
		Qua: (int(day.Month())-1)/3 + 1,
		Mon: int(day.Month()),
		Yea: day.Year(),
		Doy: day.YearDay(),
	}

	return rec, nil
}

// Parse is a convenience for callers receiving the date as text.
func Parse(dat string, hou int) (Record, error) {
	day, err := time.Parse(Layout, dat)
	if err != nil {
		return Record{}, tracer.Maskf(invalidDateError, "date must match %s, got %q", Layout, dat)
	}

	rec, err := Build(day, hou)
	if err != nil {
		return Record{}, tracer.Mask(err)
	}

	return rec, nil
}

// Values returns the record fields in the column order given by Names.
func (r Record) Values() []int {
	return []int{
		r.Hou,
		r.Dow,
		r.Qua,
		r.Mon,
		r.Yea,
		r.Doy,
	}
}

// Map returns the record keyed by column name, which is the shape the model
// bridge expects on the wire.
func (r Record) Map() map[string]int {
	val := r.Values()
	out := make(map[string]int, len(Names))

	for i, n := range Names {
		out[n] = val[i]
	}

	return out
}
