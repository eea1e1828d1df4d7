// Package viewgrp serves a single page that follows the chain through the
// event stream.
package viewgrp

import (
	"context"
	_ "embed"
	"net/http"

	"github.com/ardanlabs/minichain/foundation/web"
)

//go:embed assets/index.html
var index []byte

// Index writes the viewer page.
func Index(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	if err := web.SetStatusCode(ctx, http.StatusOK); err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)

	if _, err := w.Write(index); err != nil {
		return err
	}

	return nil
}
