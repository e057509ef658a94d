// internal/handlers/ledger/ledger_handler_test.go
package ledger

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"entitlement-service/internal/domain/ledger"
	xerrors "entitlement-service/internal/pkg/errors"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLedgerErrorStatusMapping(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewLedgerHandler(nil)

	tests := []struct {
		name string
		err  error
		want int
	}{
		{
			name: "unknown feature cost",
			err:  fmt.Errorf("%w: %q", ledger.ErrUnknownFeatureCost, "teleportation"),
			want: http.StatusNotFound,
		},
		{
			name: "unknown package",
			err:  fmt.Errorf("%w: %q", ledger.ErrUnknownPackage, "mega"),
			want: http.StatusNotFound,
		},
		{
			name: "insufficient balance",
			err:  fmt.Errorf("%w: need 50 tokens, have 3", ledger.ErrInsufficientBalance),
			want: http.StatusUnprocessableEntity,
		},
		{
			name: "invalid quantity",
			err:  fmt.Errorf("%w: got -1", ledger.ErrInvalidQuantity),
			want: http.StatusBadRequest,
		},
		{
			name: "version conflict maps to retryable conflict",
			err:  xerrors.ErrConcurrentModification,
			want: http.StatusConflict,
		},
		{
			name: "wrapped version conflict still maps to conflict",
			err:  fmt.Errorf("failed to apply debit: %w", xerrors.ErrConcurrentModification),
			want: http.StatusConflict,
		},
		{
			name: "missing ledger",
			err:  xerrors.ErrNotFound,
			want: http.StatusNotFound,
		},
		{
			name: "unexpected failure",
			err:  errors.New("connection reset"),
			want: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodPost, "/", nil)

			h.writeLedgerError(c, tt.err)

			assert.Equal(t, tt.want, w.Code)
			assert.True(t, c.IsAborted())

			var env struct {
				Success bool   `json:"success"`
				Message string `json:"message"`
			}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
			assert.False(t, env.Success)
			assert.NotEmpty(t, env.Message)
		})
	}
}
