// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/danielhkuo/team-election/middleware"
	"github.com/danielhkuo/team-election/models"
)

// Legacy clients send voting parameters as headers instead of a JSON body
const (
	headerEmail = "inEmail"
	headerToken = "token"
	headerTeam  = "votedTeam"
)

// parseOptionalJSON decodes the body into v if there is one. An empty body is
// not an error; the caller falls back to headers.
func parseOptionalJSON(r *http.Request, v interface{}) error {
	if r.Body == nil || r.Body == http.NoBody {
		return nil
	}
	err := middleware.ParseJSONBody(r, v)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

func headerOr(r *http.Request, value, header string) string {
	if value != "" {
		return value
	}
	return r.Header.Get(header)
}

func resultOK(w http.ResponseWriter) {
	middleware.JSONResponse(w, http.StatusOK, models.ResultResponse{Success: true})
}

func resultError(w http.ResponseWriter, code int) {
	status := http.StatusOK
	if code == models.ErrCodeInternalError {
		status = http.StatusInternalServerError
	}
	middleware.JSONResponse(w, status, models.ResultResponse{Success: false, Error: code})
}
