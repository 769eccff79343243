package loader

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xh3b4sd/loadcast/ctxlog"
	"github.com/xh3b4sd/loadcast/feature"
)

func Test_Loader_Execute(t *testing.T) {
	l := &Loader{
		Mod: "model_prediksi_beban.joblib",
		Por: 8642,
	}

	byt, err := l.Execute()
	require.NoError(t, err)

	scr := string(byt)

	abs, err := filepath.Abs("model_prediksi_beban.joblib")
	require.NoError(t, err)

	assert.Contains(t, scr, `joblib.load("`+abs+`")`)
	assert.Contains(t, scr, `TOKEN = "`+l.Tok+`"`)
	assert.NotEmpty(t, l.Tok)
	assert.Contains(t, scr, "shap.TreeExplainer(model)")
	assert.Contains(t, scr, `addr="localhost", port=8642`)

	var idx []int
	for _, n := range feature.Names {
		i := strings.Index(scr, `"`+n+`",`)
		require.NotEqual(t, -1, i, n)
		idx = append(idx, i)
	}

	for i := 1; i < len(idx); i++ {
		assert.Less(t, idx[i-1], idx[i], "feature columns must keep training order")
	}

	assert.Equal(t, "http://localhost:8642", l.Url)
	assert.Equal(t, "python3", l.Pyt)
	assert.Equal(t, time.Minute, l.Tim)
}

func Test_Loader_Execute_QuotedModelPath(t *testing.T) {
	l := &Loader{
		Mod: filepath.Join(t.TempDir(), `we"ird\model.joblib`),
		Por: 8642,
		Tok: "fixed",
	}

	byt, err := l.Execute()
	require.NoError(t, err)

	abs, err := filepath.Abs(l.Mod)
	require.NoError(t, err)

	scr := string(byt)
	assert.Contains(t, scr, "joblib.load("+strconv.Quote(abs)+")")
	assert.NotContains(t, scr, `joblib.load("`+abs+`")`)
	assert.Contains(t, scr, `TOKEN = "fixed"`)
}

func Test_Loader_Execute_Panic(t *testing.T) {
	assert.Panics(t, func() { (&Loader{Por: 8642}).Execute() })
	assert.Panics(t, func() { (&Loader{Mod: "m.joblib"}).Execute() })
}

func Test_Loader_Predict(t *testing.T) {
	var got map[string]int

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/predict", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Write([]byte(`{"prediction": 1234.5}`))
	}))
	defer srv.Close()

	l := &Loader{Cli: srv.Client(), Url: srv.URL}

	rec, err := feature.Parse("2024-01-15", 10)
	require.NoError(t, err)

	pre, err := l.Predict(context.Background(), rec)
	require.NoError(t, err)

	assert.Equal(t, 1234.5, pre)
	assert.Equal(t, rec.Map(), got)
}

func Test_Loader_Explain(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/explain", r.URL.Path)

		w.Write([]byte(`{"expected_value": 900.0, "contributions": [150.5, -20.0, 1.0, -3.5, 7.0, 0.0]}`))
	}))
	defer srv.Close()

	l := &Loader{Cli: srv.Client(), Url: srv.URL}

	rec, err := feature.Parse("2024-12-31", 23)
	require.NoError(t, err)

	att, err := l.Explain(context.Background(), rec)
	require.NoError(t, err)

	assert.Equal(t, 900.0, att.Bas)
	require.Len(t, att.Con, len(feature.Names))
	assert.Equal(t, "hour", att.Con[0].Nam)
	assert.Equal(t, 23, att.Con[0].Val)
	assert.Equal(t, 150.5, att.Con[0].Eff)
	assert.Equal(t, 366, att.Con[5].Val)
	assert.InDelta(t, 1035.0, att.Output(), 1e-9)
}

func Test_Loader_Bridge_Errors(t *testing.T) {
	testCases := []struct {
		nam string
		cod int
		bod string
	}{
		{nam: "status", cod: http.StatusInternalServerError, bod: `{"error": "boom"}`},
		{nam: "json", cod: http.StatusOK, bod: `not json`},
		{nam: "missing", cod: http.StatusOK, bod: `{}`},
	}

	for _, tc := range testCases {
		t.Run(tc.nam, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.cod)
				w.Write([]byte(tc.bod))
			}))
			defer srv.Close()

			l := &Loader{Cli: srv.Client(), Url: srv.URL}

			_, err := l.Predict(context.Background(), feature.Record{})
			require.Error(t, err)
			assert.True(t, IsBridgeResponse(err))

			_, err = l.Explain(context.Background(), feature.Record{})
			require.Error(t, err)
			assert.True(t, IsBridgeResponse(err))
		})
	}
}

func Test_Loader_Explain_Length(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"expected_value": 900.0, "contributions": [1.0, 2.0]}`))
	}))
	defer srv.Close()

	l := &Loader{Cli: srv.Client(), Url: srv.URL}

	_, err := l.Explain(context.Background(), feature.Record{})
	require.Error(t, err)
	assert.True(t, feature.IsInvalidEffects(err))
}

func Test_Loader_Restore_ModelNotFound(t *testing.T) {
	l := &Loader{
		Mod: filepath.Join(t.TempDir(), "missing.joblib"),
		Por: 8642,
	}

	err := l.Restore(context.Background())
	require.Error(t, err)
	assert.True(t, IsModelNotFound(err))
	assert.Nil(t, l.Cmd)
}

func Test_Loader_Restore_ModelUnreadable(t *testing.T) {
	fil := filepath.Join(t.TempDir(), "plain")
	require.NoError(t, os.WriteFile(fil, []byte("not a directory"), 0600))

	l := &Loader{
		Mod: filepath.Join(fil, "model.joblib"),
		Por: 8642,
	}

	var err error
	require.NotPanics(t, func() { err = l.Restore(context.Background()) })
	require.Error(t, err)
	assert.False(t, IsModelNotFound(err))
	assert.Nil(t, l.Cmd)
}

func Test_Loader_Restore_ProcessExit(t *testing.T) {
	mod := filepath.Join(t.TempDir(), "model.joblib")
	require.NoError(t, os.WriteFile(mod, []byte("model"), 0600))

	l := &Loader{
		Mod: mod,
		Por: 1,
		Pyt: "sh",
		Tem: "exit 3\n",
		Tim: 10 * time.Second,
	}
	defer l.Sigkill()

	err := l.Restore(context.Background())
	require.Error(t, err)
	assert.True(t, IsRestoreTimeout(err))
}

func Test_Loader_Restore_Ready(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK test-token\n"))
	}))
	defer srv.Close()

	mod := filepath.Join(t.TempDir(), "model.joblib")
	require.NoError(t, os.WriteFile(mod, []byte("model"), 0600))

	l := &Loader{
		Cli: srv.Client(),
		Mod: mod,
		Por: 1,
		Pyt: "sh",
		Tem: "sleep 30\n",
		Tok: "test-token",
		Url: srv.URL,
	}

	var buf bytes.Buffer
	ctx := ctxlog.WithLogger(context.Background(), slog.New(slog.NewTextHandler(&buf, nil)))

	require.NoError(t, l.Restore(ctx))

	tmp := l.Fil.Name()
	require.FileExists(t, tmp)

	require.NoError(t, l.Sigkill())
	assert.NoFileExists(t, tmp)

	select {
	case <-l.Don:
	case <-time.After(5 * time.Second):
		t.Fatal("model process did not exit after Sigkill")
	}

	assert.NotContains(t, buf.String(), "model process exited")
}

func Test_Loader_Restore_ForeignProcess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK stale-token\n"))
	}))
	defer srv.Close()

	mod := filepath.Join(t.TempDir(), "model.joblib")
	require.NoError(t, os.WriteFile(mod, []byte("model"), 0600))

	l := &Loader{
		Cli: srv.Client(),
		Mod: mod,
		Por: 1,
		Pyt: "sh",
		Tem: "sleep 30\n",
		Tim: time.Second,
		Url: srv.URL,
	}
	defer l.Sigkill()

	err := l.Restore(context.Background())
	require.Error(t, err)
	assert.True(t, IsRestoreTimeout(err))
}
