package handler

import (
	"net/http"

	"github.com/suntrail/agency-server/internal/httputil"
)

func writeJSON(w http.ResponseWriter, status int, data any) {
	httputil.WriteJSON(w, status, data)
}
