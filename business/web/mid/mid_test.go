package mid_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/ardanlabs/minichain/business/web/errs"
	"github.com/ardanlabs/minichain/business/web/mid"
	"github.com/ardanlabs/minichain/foundation/logger"
	"github.com/ardanlabs/minichain/foundation/validate"
	"github.com/ardanlabs/minichain/foundation/web"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

func Test_Errors(t *testing.T) {
	type table struct {
		name   string
		err    error
		status int
		msg    string
	}

	tt := []table{
		{name: "trusted", err: errs.NewTrusted(errors.New("bad difficulty"), http.StatusBadRequest), status: http.StatusBadRequest, msg: "bad difficulty"},
		{name: "fields", err: validate.FieldErrors{{Field: "amount", Err: "amount must be a finite number"}}, status: http.StatusBadRequest, msg: "data validation error"},
		{name: "untrusted", err: errors.New("disk on fire"), status: http.StatusInternalServerError, msg: http.StatusText(http.StatusInternalServerError)},
		{name: "panic", status: http.StatusInternalServerError, msg: http.StatusText(http.StatusInternalServerError)},
	}

	log, err := logger.New("TEST", os.DevNull)
	if err != nil {
		t.Fatalf("\t%s\tShould be able to construct a logger: %s", failed, err)
	}

	t.Log("Given the need to turn handler errors into responses.")
	{
		for testID, tst := range tt {
			t.Logf("\tTest %d:\tWhen a handler fails with a %s error.", testID, tst.name)
			{
				f := func(t *testing.T) {
					app := web.NewApp(make(chan os.Signal, 1), mid.Logger(log), mid.Errors(log), mid.Metrics(), mid.Cors("*"), mid.Panics())

					app.Handle(http.MethodGet, "v1", "/fail", func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
						if tst.err == nil {
							panic("boom")
						}
						return tst.err
					})

					w := httptest.NewRecorder()
					app.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/fail", nil))

					if w.Code != tst.status {
						t.Fatalf("\t%s\tTest %d:\tShould receive a status code of %d, got %d.", failed, testID, tst.status, w.Code)
					}
					t.Logf("\t%s\tTest %d:\tShould receive a status code of %d.", success, testID, tst.status)

					var resp errs.Response
					if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
						t.Fatalf("\t%s\tTest %d:\tShould be able to decode the response: %s", failed, testID, err)
					}

					if resp.Error != tst.msg {
						t.Fatalf("\t%s\tTest %d:\tShould get back %q, got %q.", failed, testID, tst.msg, resp.Error)
					}
					t.Logf("\t%s\tTest %d:\tShould get back %q.", success, testID, tst.msg)

					if w.Header().Get("Access-Control-Allow-Origin") != "*" {
						t.Fatalf("\t%s\tTest %d:\tShould set the CORS headers.", failed, testID)
					}
					t.Logf("\t%s\tTest %d:\tShould set the CORS headers.", success, testID)
				}

				t.Run(tst.name, f)
			}
		}
	}
}
