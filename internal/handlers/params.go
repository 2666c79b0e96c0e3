package handlers

import (
	"net/http"
	"strconv"
)

// pathParam reads a value captured by the pat router, which stores route
// variables in the query string under a leading colon.
func pathParam(r *http.Request, name string) string {
	return r.URL.Query().Get(":" + name)
}

// getIntParam parses a positive integer path parameter.
func getIntParam(r *http.Request, name string) (int, bool) {
	id, err := strconv.Atoi(pathParam(r, name))
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
