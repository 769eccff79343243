package loader

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync/atomic"
	"text/template"
	"time"

	"github.com/google/uuid"
	"github.com/xh3b4sd/loadcast/ctxlog"
	"github.com/xh3b4sd/loadcast/feature"
	"github.com/xh3b4sd/tracer"
)

type Loader struct {
	Add string
	Cli *http.Client
	Cmd *exec.Cmd
	Deb bool
	Don chan error
	Fil *os.File
	// Mod is the required file path of the serialized regression model, e.g.
	// a joblib dump of a trained XGBoost regressor.
	//
	//     $ tree -L 1 .
	//     .
	//     ├── loadcast.yaml
	//     ├── logo-pln.png
	//     └── model_prediksi_beban.joblib
	//
	Mod string
	// Por is the required free port number used to run a simple HTTP server in
	// Python for serving predictions and attributions between processes.
	Por int
	// Pyt is the Python interpreter used to execute the rendered template.
	// Defaults to python3.
	Pyt string
	// Tem is the Python script template that is first being rendered and
	// persisted, and then executed in a child process. Defaults to a template
	// binding a tree explainer to the restored model.
	Tem string
	// Tim is the maximum duration Restore waits for the child process to
	// answer health checks. Defaults to one minute.
	Tim time.Duration
	// Tok is echoed by the child process on health checks, so that Restore
	// only ever accepts the process it spawned itself. Defaults to a random
	// UUID.
	Tok string
	Url string

	kil atomic.Bool
}

func (l *Loader) Execute() ([]byte, error) {
	{
		l.configs()
	}

	var buf bytes.Buffer
	{
		t, err := template.New("loader").Parse(l.Tem)
		if err != nil {
			return nil, tracer.Mask(err)
		}

		err = t.Execute(&buf, l.mapping())
		if err != nil {
			return nil, tracer.Mask(err)
		}
	}

	return buf.Bytes(), nil
}

func (l *Loader) Restore(ctx context.Context) error {
	var err error

	{
		l.configs()
	}

	{
		exi, err := exists(l.Mod)
		if err != nil {
			return tracer.Mask(err)
		}
		if !exi {
			return tracer.Maskf(modelNotFoundError, "%s", l.Mod)
		}
	}

	var byt []byte
	{
		byt, err = l.Execute()
		if err != nil {
			return tracer.Mask(err)
		}
	}

	{
		l.Fil, err = os.CreateTemp("", "loadcast-loader-template-*.py")
		if err != nil {
			return tracer.Mask(err)
		}
	}

	{
		_, err := l.Fil.Write(byt)
		if err != nil {
			return tracer.Mask(err)
		}
	}

	{
		err := l.Fil.Close()
		if err != nil {
			return tracer.Mask(err)
		}
	}

	{
		l.Cmd = exec.Command(l.Pyt, l.Fil.Name())
	}

	if l.Deb {
		l.Cmd.Stdout = os.Stdout
		l.Cmd.Stderr = os.Stderr
	}

	{
		err := l.Cmd.Start()
		if err != nil {
			return tracer.Mask(err)
		}
	}

	{
		l.Don = make(chan error, 1)
	}

	log := ctxlog.FromContext(ctx)

	go func() {
		err := l.Cmd.Wait()
		if err != nil && !l.kil.Load() {
			log.Error("model process exited", "template", l.Fil.Name(), "error", err)
		}

		l.Don <- err
	}()

	ctx, cancel := context.WithTimeout(ctx, l.Tim)
	defer cancel()

	for {
		select {
		case err := <-l.Don:
			return tracer.Maskf(restoreTimeoutError, "model process exited before ready: %v", err)
		default:
		}

		if l.checker(ctx) {
			break
		}

		select {
		case <-ctx.Done():
			return tracer.Maskf(restoreTimeoutError, "model process at %s not ready after %s", l.Url, l.Tim)
		case err := <-l.Don:
			return tracer.Maskf(restoreTimeoutError, "model process exited before ready: %v", err)
		case <-time.After(500 * time.Millisecond):
		}
	}

	return nil
}

func (l *Loader) Predict(ctx context.Context, rec feature.Record) (float64, error) {
	var res struct {
		Pre *float64 `json:"prediction"`
	}

	{
		err := l.post(ctx, "/predict", rec, &res)
		if err != nil {
			return 0, tracer.Mask(err)
		}
	}

	if res.Pre == nil {
		return 0, tracer.Maskf(bridgeResponseError, "prediction missing from response")
	}

	return *res.Pre, nil
}

func (l *Loader) Explain(ctx context.Context, rec feature.Record) (feature.Attribution, error) {
	var res struct {
		Exp *float64  `json:"expected_value"`
		Con []float64 `json:"contributions"`
	}

	{
		err := l.post(ctx, "/explain", rec, &res)
		if err != nil {
			return feature.Attribution{}, tracer.Mask(err)
		}
	}

	if res.Exp == nil {
		return feature.Attribution{}, tracer.Maskf(bridgeResponseError, "expected value missing from response")
	}

	att, err := feature.Attribute(rec, *res.Exp, res.Con)
	if err != nil {
		return feature.Attribution{}, tracer.Mask(err)
	}

	return att, nil
}

func (l *Loader) Sigkill() error {
	if l.Cmd != nil && l.Cmd.Process != nil {
		l.kil.Store(true)

		err := l.Cmd.Process.Kill()
		if err != nil && !IsProcessAlreadyFinished(err) {
			return tracer.Mask(err)
		}
	}

	if l.Fil != nil {
		os.Remove(l.Fil.Name())
	}

	return nil
}

func (l *Loader) checker(ctx context.Context) bool {
	var err error

	var req *http.Request
	{
		req, err = http.NewRequestWithContext(ctx, http.MethodGet, l.Url, nil)
		if err != nil {
			panic(err)
		}
	}

	var res *http.Response
	{
		res, err = l.Cli.Do(req)
		if err != nil {
			return false
		}
		defer res.Body.Close()
	}

	var bod []byte
	{
		bod, err = io.ReadAll(res.Body)
		if err != nil {
			return false
		}
	}

	return strings.TrimSpace(string(bod)) == "OK "+l.Tok
}

func (l *Loader) configs() {
	if l.Add == "" {
		l.Add = "localhost"
	}

	if l.Cli == nil {
		l.Cli = &http.Client{}
	}

	if l.Mod == "" {
		panic("Loader.Mod must not be empty")
	}

	if l.Por == 0 {
		panic("Loader.Por must not be empty")
	}

	if l.Pyt == "" {
		l.Pyt = "python3"
	}

	if l.Tem == "" {
		l.Tem = deftem
	}

	if l.Tim == 0 {
		l.Tim = time.Minute
	}

	if l.Tok == "" {
		l.Tok = uuid.NewString()
	}

	if l.Url == "" {
		l.Url = fmt.Sprintf("http://%s:%d", l.Add, l.Por)
	}
}

func (l *Loader) mapping() map[string]interface{} {
	var mod string
	{
		mod, _ = filepath.Abs(l.Mod)
	}

	return map[string]interface{}{
		"Add": l.Add,
		"Fea": feature.Names,
		"Mod": mod,
		"Por": l.Por,
		"Tok": l.Tok,
	}
}

func (l *Loader) post(ctx context.Context, pat string, rec feature.Record, out interface{}) error {
	var err error

	var byt []byte
	{
		byt, err = json.Marshal(rec.Map())
		if err != nil {
			return tracer.Mask(err)
		}
	}

	var req *http.Request
	{
		req, err = http.NewRequestWithContext(ctx, http.MethodPost, strings.TrimSuffix(l.Url, "/")+pat, bytes.NewBuffer(byt))
		if err != nil {
			return tracer.Mask(err)
		}
	}

	{
		req.Header.Set("Content-Type", "application/json")
	}

	var res *http.Response
	{
		res, err = l.client().Do(req)
		if err != nil {
			return tracer.Mask(err)
		}
		defer res.Body.Close()
	}

	var bod []byte
	{
		bod, err = io.ReadAll(res.Body)
		if err != nil {
			return tracer.Mask(err)
		}
	}

	if res.StatusCode != http.StatusOK {
		return tracer.Maskf(bridgeResponseError, "%s returned %d: %s", pat, res.StatusCode, strings.TrimSpace(string(bod)))
	}

	{
		err = json.Unmarshal(bod, out)
		if err != nil {
			return tracer.Maskf(bridgeResponseError, "%s returned invalid json: %v", pat, err)
		}
	}

	return nil
}

func (l *Loader) client() *http.Client {
	if l.Cli == nil {
		return http.DefaultClient
	}

	return l.Cli
}
