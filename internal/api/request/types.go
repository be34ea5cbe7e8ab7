package request

import (
	"net/http"
	"strconv"
)

// DefaultLimit is the page size used when a request gives none
const DefaultLimit = 20

// MaxLimit caps the page size a client may request
const MaxLimit = 100

// Limit reads the "limit" query parameter. Missing means DefaultLimit; values
// above MaxLimit are clamped. Returns false for non-numeric or non-positive values.
func Limit(r *http.Request) (int, bool) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return DefaultLimit, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 0, false
	}
	if n > MaxLimit {
		n = MaxLimit
	}
	return n, true
}
