package httpapi

import (
	"encoding/json"
	"net/http"

	"catalogcore/internal/catalogerr"
)

func decodeJSON(r *http.Request, dst interface{}) error {
	defer r.Body.Close()
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

type errorEnvelope struct {
	Error  string `json:"error"`
	Detail string `json:"detail"`
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, err error) {
	status := catalogerr.HTTPStatus(err)
	writeJSON(w, status, errorEnvelope{
		Error:  http.StatusText(status),
		Detail: err.Error(),
	})
}
