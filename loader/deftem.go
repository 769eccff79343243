package loader

const deftem = `
import json

import joblib
import numpy as np
import pandas as pd
import shap

from http.server import BaseHTTPRequestHandler, HTTPServer

################################################################################

FEATURES = [
{{- range $f := .Fea }}
    "{{ $f }}",
{{- end }}
]

################################################################################

TOKEN = {{ printf "%q" .Tok }}

################################################################################

model = joblib.load({{ printf "%q" .Mod }})
explainer = shap.TreeExplainer(model)

################################################################################

def build_frame(body):
  return pd.DataFrame([{f: int(body[f]) for f in FEATURES}], columns=FEATURES)

################################################################################

def expected_value():
  return float(np.ravel(explainer.expected_value)[0])

################################################################################

def predict(frame):
  return {"prediction": float(np.ravel(model.predict(frame))[0])}

################################################################################

def explain(frame):
  values = np.asarray(explainer.shap_values(frame)).reshape(-1, len(FEATURES))[0]

  return {
    "expected_value": expected_value(),
    "contributions": [float(v) for v in values],
  }

################################################################################

class S(BaseHTTPRequestHandler):
    def _set_response(self, code, content_type):
        self.send_response(code)
        self.send_header('Content-type', content_type)
        self.end_headers()

    def do_GET(self):
        self._set_response(200, 'text/plain')
        self.wfile.write(("OK " + TOKEN + "\n").encode("utf-8"))

    def do_POST(self):
        try:
            con_len = int(self.headers.get('Content-Length'))
            req_bod = json.loads(self.rfile.read(con_len).decode('utf-8'))
            frame = build_frame(req_bod)

            if self.path == "/predict":
                res_bod = predict(frame)
            elif self.path == "/explain":
                res_bod = explain(frame)
            else:
                self._set_response(404, 'application/json')
                self.wfile.write(json.dumps({"error": "unknown path " + self.path}).encode())
                return
        except Exception as e:
            self._set_response(500, 'application/json')
            self.wfile.write(json.dumps({"error": str(e)}).encode())
            return

        self._set_response(200, 'application/json')
        self.wfile.write(json.dumps(res_bod).encode())

    def log_message(self, format, *args):
        return

################################################################################

def run(server_class=HTTPServer, handler_class=S, addr="{{ .Add }}", port={{ .Por }}):
    httpd = server_class((addr, port), handler_class)
    print('Starting http server')

    try:
        httpd.serve_forever()
    except KeyboardInterrupt:
        pass

    httpd.server_close()
    print('Stopping http server')

################################################################################

run()
`
