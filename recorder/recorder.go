// Package recorder keeps a history of served forecasts in SQLite or
// PostgreSQL.
package recorder

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/xh3b4sd/loadcast/feature"
	"github.com/xh3b4sd/tracer"
	_ "modernc.org/sqlite"
)

var schema = map[string]string{
	"sqlite": `
		CREATE TABLE IF NOT EXISTS forecasts (
			id TEXT PRIMARY KEY,
			hour INTEGER NOT NULL,
			dayofweek INTEGER NOT NULL,
			quarter INTEGER NOT NULL,
			month INTEGER NOT NULL,
			year INTEGER NOT NULL,
			dayofyear INTEGER NOT NULL,
			forecast REAL NOT NULL,
			attribution TEXT NOT NULL,
			created_at INTEGER NOT NULL
		)`,
	"postgres": `
		CREATE TABLE IF NOT EXISTS forecasts (
			id UUID PRIMARY KEY,
			hour INTEGER NOT NULL,
			dayofweek INTEGER NOT NULL,
			quarter INTEGER NOT NULL,
			month INTEGER NOT NULL,
			year INTEGER NOT NULL,
			dayofyear INTEGER NOT NULL,
			forecast DOUBLE PRECISION NOT NULL,
			attribution TEXT NOT NULL,
			created_at BIGINT NOT NULL
		)`,
}

// Entry is one recorded forecast.
type Entry struct {
	ID  uuid.UUID           `json:"id"`
	Rec feature.Record      `json:"record"`
	For float64             `json:"forecast"`
	Att feature.Attribution `json:"attribution"`
	Cre time.Time           `json:"created_at"`
}

type row struct {
	ID  string  `db:"id"`
	Hou int     `db:"hour"`
	Dow int     `db:"dayofweek"`
	Qua int     `db:"quarter"`
	Mon int     `db:"month"`
	Yea int     `db:"year"`
	Doy int     `db:"dayofyear"`
	For float64 `db:"forecast"`
	Att string  `db:"attribution"`
	Cre int64   `db:"created_at"`
}

type Config struct {
	// Driver is either sqlite or postgres.
	Driver string
	DSN    string
}

type Recorder struct {
	db *sqlx.DB
}

func New(c Config) (*Recorder, error) {
	sch, ok := schema[c.Driver]
	if !ok {
		return nil, tracer.Maskf(invalidConfigError, "Config.Driver must be sqlite or postgres, got %q", c.Driver)
	}
	if c.DSN == "" {
		return nil, tracer.Maskf(invalidConfigError, "Config.DSN must not be empty")
	}

	db, err := sqlx.Open(c.Driver, c.DSN)
	if err != nil {
		return nil, tracer.Mask(err)
	}

	if c.Driver == "sqlite" {
		db.SetMaxOpenConns(1)
	}

	{
		_, err := db.Exec(sch)
		if err != nil {
			db.Close()
			return nil, tracer.Mask(err)
		}
	}

	return &Recorder{db: db}, nil
}

func (r *Recorder) Close() error {
	return r.db.Close()
}

// Record persists a served forecast.
func (r *Recorder) Record(ctx context.Context, ent Entry) error {
	byt, err := json.Marshal(ent.Att)
	if err != nil {
		return tracer.Mask(err)
	}

	const query = `
		INSERT INTO forecasts (
			id, hour, dayofweek, quarter, month, year, dayofyear,
			forecast, attribution, created_at
		) VALUES (
			:id, :hour, :dayofweek, :quarter, :month, :year, :dayofyear,
			:forecast, :attribution, :created_at
		)`

	_, err = r.db.NamedExecContext(ctx, query, row{
		ID:  ent.ID.String(),
		Hou: ent.Rec.Hou,
		Dow: ent.Rec.Dow,
		Qua: ent.Rec.Qua,
		Mon: ent.Rec.Mon,
		Yea: ent.Rec.Yea,
		Doy: ent.Rec.Doy,
		For: ent.For,
		Att: string(byt),
		Cre: ent.Cre.UnixNano(),
	})
	if err != nil {
		return tracer.Mask(err)
	}

	return nil
}

// Recent returns up to lim forecasts, newest first.
func (r *Recorder) Recent(ctx context.Context, lim int) ([]Entry, error) {
	if lim <= 0 {
		return nil, nil
	}

	query := r.db.Rebind(`
		SELECT id, hour, dayofweek, quarter, month, year, dayofyear,
			forecast, attribution, created_at
		FROM forecasts
		ORDER BY created_at DESC
		LIMIT ?`)

	var rows []row
	err := r.db.SelectContext(ctx, &rows, query, lim)
	if err != nil {
		return nil, tracer.Mask(err)
	}

	var ent []Entry
	for _, x := range rows {
		var att feature.Attribution
		err := json.Unmarshal([]byte(x.Att), &att)
		if err != nil {
			return nil, tracer.Mask(err)
		}

		ent = append(ent, Entry{
			ID:  uuid.MustParse(x.ID),
			Rec: feature.Record{Hou: x.Hou, Dow: x.Dow, Qua: x.Qua, Mon: x.Mon, Yea: x.Yea, Doy: x.Doy},
			For: x.For,
			Att: att,
			Cre: time.Unix(0, x.Cre).UTC(),
		})
	}

	return ent, nil
}
