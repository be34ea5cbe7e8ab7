package apierr

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/numbermaster/internal/model"
)

func TestWriteErrorMapsModelErrors(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"record not found", model.ErrPlayerRecordNotFound, http.StatusNotFound, CodePlayerNotFound},
		{"wrapped record not found", fmt.Errorf("lookup: %w", model.ErrPlayerRecordNotFound), http.StatusNotFound, CodePlayerNotFound},
		{"game not found", model.ErrGameNotFound, http.StatusNotFound, CodeGameNotFound},
		{"invalid request", NewInvalidRequestError("limit must be a positive integer"), http.StatusBadRequest, CodeInvalidRequest},
		{"store unavailable", NewStoreUnavailableError(), http.StatusServiceUnavailable, CodeStoreUnavailable},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, CodeInternalError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			WriteError(rr, tt.err)

			assert.Equal(t, tt.status, rr.Code)
			assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
			var resp ErrorResponse
			require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
			assert.Equal(t, tt.code, resp.Error.Code)
		})
	}
}
