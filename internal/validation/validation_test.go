package validation

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/voltmart/backoffice-api/internal/presentation/http/dto/request"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	m.Run()
}

func TestFieldNamesComeFromJSONTags(t *testing.T) {
	v := New()

	req := request.CreateSaleRequest{
		SaleType: 2,
		Items: []request.SaleItemRequest{
			{ProductID: uuid.New(), Quantity: 0, DiscountPercent: 150},
		},
	}

	err := v.Struct(req)
	require.Error(t, err)

	fields := make(map[string]string)
	for _, fe := range toFieldErrors(err) {
		fields[fe.Field] = fe.Message
	}

	require.Equal(t, "This field is required", fields["warehouse_id"])
	require.Equal(t, "This field is required", fields["items[0].quantity"])
	require.Equal(t, "Must be at most 100", fields["items[0].discount_percent"])
}

func TestDiscountLimitScopeIsExclusive(t *testing.T) {
	v := New()
	roleID := uint(2)
	employeeID := uuid.New()

	cases := []struct {
		name    string
		req     request.CreateDiscountLimitRequest
		wantErr bool
	}{
		{
			name:    "neither scope set",
			req:     request.CreateDiscountLimitRequest{MaxDiscountPercent: 10},
			wantErr: true,
		},
		{
			name: "both scopes set",
			req: request.CreateDiscountLimitRequest{
				RoleID:             &roleID,
				EmployeeID:         &employeeID,
				MaxDiscountPercent: 10,
			},
			wantErr: true,
		},
		{
			name: "role scope only",
			req: request.CreateDiscountLimitRequest{
				RoleID:             &roleID,
				MaxDiscountPercent: 10,
			},
		},
		{
			name: "employee scope only",
			req: request.CreateDiscountLimitRequest{
				EmployeeID:         &employeeID,
				MaxDiscountPercent: 10,
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := v.Struct(tc.req)
			if !tc.wantErr {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			ferrs := toFieldErrors(err)
			require.Len(t, ferrs, 1)
			require.Equal(t, "role_id", ferrs[0].Field)
			require.Equal(t, "Exactly one of role_id or employee_id must be set", ferrs[0].Message)
		})
	}
}

func TestBindAndValidate(t *testing.T) {
	v := New()

	newCtx := func(body string) (*gin.Context, *httptest.ResponseRecorder) {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(body))
		c.Request.Header.Set("Content-Type", "application/json")
		return c, w
	}

	t.Run("malformed body returns 400", func(t *testing.T) {
		c, w := newCtx("{not json")
		var req request.CreateSaleRequest
		require.Error(t, BindAndValidate(c, &req, v))
		require.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("validation failure returns 422", func(t *testing.T) {
		c, w := newCtx(`{"warehouse_id":null,"items":[]}`)
		var req request.CreateSaleRequest
		require.Error(t, BindAndValidate(c, &req, v))
		require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})

	t.Run("valid body binds", func(t *testing.T) {
		c, w := newCtx(`{
			"warehouse_id": "` + uuid.NewString() + `",
			"sale_type": 1,
			"items": [{"product_id": "` + uuid.NewString() + `", "quantity": 2, "discount_percent": 5}]
		}`)
		var req request.CreateSaleRequest
		require.NoError(t, BindAndValidate(c, &req, v))
		require.Equal(t, http.StatusOK, w.Code)
		require.Len(t, req.Items, 1)
		require.Equal(t, 2, req.Items[0].Quantity)
	})
}
