// internal/handlers/entitlement/entitlement_handler_test.go
package entitlement

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"entitlement-service/internal/domain/entitlement"
	xerrors "entitlement-service/internal/pkg/errors"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEntitlementErrorStatusMapping(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewEntitlementHandler(nil)

	tests := []struct {
		name string
		err  error
		want int
	}{
		{
			name: "unknown feature",
			err:  fmt.Errorf("%w: %q", entitlement.ErrUnknownFeature, "no_such_feature"),
			want: http.StatusNotFound,
		},
		{
			name: "unknown plan",
			err:  fmt.Errorf("%w: unknown plan %q", entitlement.ErrInvalidPlanTransition, "platinum"),
			want: http.StatusNotFound,
		},
		{
			name: "feature limit exceeded",
			err:  fmt.Errorf("%w: selected 15, plan \"free\" allows 10", entitlement.ErrFeatureLimitExceeded),
			want: http.StatusUnprocessableEntity,
		},
		{
			name: "invalid billing cycle",
			err:  fmt.Errorf("%w: %q", entitlement.ErrInvalidBillingCycle, "weekly"),
			want: http.StatusBadRequest,
		},
		{
			name: "version conflict maps to retryable conflict",
			err:  fmt.Errorf("failed to apply plan change: %w", xerrors.ErrConcurrentModification),
			want: http.StatusConflict,
		},
		{
			name: "missing entitlement",
			err:  xerrors.ErrNotFound,
			want: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodPut, "/", nil)

			h.writeEntitlementError(c, tt.err)

			assert.Equal(t, tt.want, w.Code)
			assert.True(t, c.IsAborted())

			var env struct {
				Success bool `json:"success"`
			}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
			assert.False(t, env.Success)
		})
	}
}
