package web_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/ardanlabs/minichain/foundation/web"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

func Test_App(t *testing.T) {
	t.Log("Given the need to route requests through the app.")
	{
		shutdown := make(chan os.Signal, 1)

		var order []string
		mw := func(name string) web.Middleware {
			return func(handler web.Handler) web.Handler {
				return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
					order = append(order, name)
					return handler(ctx, w, r)
				}
			}
		}

		app := web.NewApp(shutdown, mw("app"))

		app.Handle(http.MethodGet, "v1", "/echo/:id", func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
			v, err := web.GetValues(ctx)
			if err != nil {
				return err
			}

			resp := struct {
				ID      string `json:"id"`
				TraceID string `json:"trace_id"`
			}{
				ID:      web.Param(r, "id"),
				TraceID: v.TraceID,
			}
			return web.Respond(ctx, w, resp, http.StatusOK)
		}, mw("route"))

		app.Handle(http.MethodPost, "v1", "/decode", func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
			var req struct {
				Name string `json:"name"`
			}
			if err := web.Decode(r, &req); err != nil {
				return web.Respond(ctx, w, err.Error(), http.StatusBadRequest)
			}
			return web.Respond(ctx, w, nil, http.StatusNoContent)
		})

		app.Handle(http.MethodGet, "", "/fatal", func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
			return web.NewShutdownError("integrity issue")
		})

		t.Logf("\tTest 0:\tWhen calling a route with a parameter.")
		{
			w := httptest.NewRecorder()
			app.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/echo/42", nil))

			if w.Code != http.StatusOK {
				t.Fatalf("\t%s\tTest 0:\tShould receive a status code of 200, got %d.", failed, w.Code)
			}
			t.Logf("\t%s\tTest 0:\tShould receive a status code of 200.", success)

			var resp struct {
				ID      string `json:"id"`
				TraceID string `json:"trace_id"`
			}
			if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to decode the response: %s", failed, err)
			}

			if resp.ID != "42" || resp.TraceID == "" {
				t.Fatalf("\t%s\tTest 0:\tShould get back the parameter and a trace id: %+v", failed, resp)
			}
			t.Logf("\t%s\tTest 0:\tShould get back the parameter and a trace id.", success)

			if strings.Join(order, ",") != "app,route" {
				t.Fatalf("\t%s\tTest 0:\tShould run the app middleware first, got %v.", failed, order)
			}
			t.Logf("\t%s\tTest 0:\tShould run the app middleware first.", success)
		}

		t.Logf("\tTest 1:\tWhen decoding a payload with an unknown field.")
		{
			w := httptest.NewRecorder()
			app.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/v1/decode", strings.NewReader(`{"nme":"bill"}`)))

			if w.Code != http.StatusBadRequest {
				t.Fatalf("\t%s\tTest 1:\tShould reject the payload, got %d.", failed, w.Code)
			}
			t.Logf("\t%s\tTest 1:\tShould reject the payload.", success)

			w = httptest.NewRecorder()
			app.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/v1/decode", strings.NewReader(`{"name":"bill"}`)))

			if w.Code != http.StatusNoContent {
				t.Fatalf("\t%s\tTest 1:\tShould accept a valid payload, got %d.", failed, w.Code)
			}
			t.Logf("\t%s\tTest 1:\tShould accept a valid payload.", success)
		}

		t.Logf("\tTest 2:\tWhen a handler returns a shutdown error.")
		{
			w := httptest.NewRecorder()
			app.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/fatal", nil))

			select {
			case <-shutdown:
				t.Logf("\t%s\tTest 2:\tShould signal a shutdown.", success)
			default:
				t.Fatalf("\t%s\tTest 2:\tShould signal a shutdown.", failed)
			}
		}
	}
}
