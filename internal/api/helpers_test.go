package api

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"

	"github.com/go-chi/chi/v5"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// serve routes the request through a chi router so URL parameters
// resolve the same way they do in production.
func serve(routes func(r chi.Router), req *http.Request) *httptest.ResponseRecorder {
	r := chi.NewRouter()
	routes(r)
	recorder := httptest.NewRecorder()
	r.ServeHTTP(recorder, req)
	return recorder
}
