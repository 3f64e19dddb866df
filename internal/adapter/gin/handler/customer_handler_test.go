package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"commerce-service/internal/adapter/gin/response"
	"commerce-service/internal/domain/page"
	"commerce-service/internal/usecase/customer"
	apperrors "commerce-service/pkg/errors"
)

func setupCustomerTest(t *testing.T) (*gin.Engine, *MockCustomerUsecase) {
	gin.SetMode(gin.TestMode)
	mockUsecase := new(MockCustomerUsecase)
	h := NewCustomerHandler(mockUsecase, zaptest.NewLogger(t))

	r := gin.New()
	h.Register(r.Group("/api"))
	return r, mockUsecase
}

func doJSON(r http.Handler, method, target string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) response.ErrorResponse {
	t.Helper()
	var resp response.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

var jane = &customer.Customer{ID: 1, FirstName: "Jane", LastName: "Doe", Email: "jane@example.com", CustomerType: "REGULAR"}

func TestCustomerHandler_Create(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		r, mockUsecase := setupCustomerTest(t)

		reqBody := customer.CreateCustomerRequest{FirstName: "Jane", LastName: "Doe", Email: "jane@example.com"}
		mockUsecase.On("CreateCustomer", mock.Anything, reqBody).Return(jane, nil)

		w := doJSON(r, http.MethodPost, "/api/customers", reqBody)

		assert.Equal(t, http.StatusCreated, w.Code)
		var resp customer.Customer
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, int64(1), resp.ID)
		mockUsecase.AssertExpectations(t)
	})

	t.Run("Invalid Request Body", func(t *testing.T) {
		r, mockUsecase := setupCustomerTest(t)

		req := httptest.NewRequest(http.MethodPost, "/api/customers", bytes.NewBufferString("invalid json"))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		mockUsecase.AssertNotCalled(t, "CreateCustomer", mock.Anything, mock.Anything)
	})

	t.Run("Validation Errors", func(t *testing.T) {
		r, mockUsecase := setupCustomerTest(t)

		fields := map[string]string{"email": "email must be a valid email"}
		mockUsecase.On("CreateCustomer", mock.Anything, mock.Anything).
			Return(nil, apperrors.NewFieldsValidationError("email must be a valid email", fields))

		w := doJSON(r, http.MethodPost, "/api/customers", customer.CreateCustomerRequest{Email: "nope"})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		resp := decodeError(t, w)
		assert.Equal(t, http.StatusBadRequest, resp.Status)
		assert.Equal(t, "Bad Request", resp.Error)
		assert.Equal(t, "Validation failed", resp.Message)
		assert.Equal(t, fields, resp.ValidationErrors)
		assert.False(t, resp.Timestamp.IsZero())
	})

	t.Run("Duplicate Email", func(t *testing.T) {
		r, mockUsecase := setupCustomerTest(t)

		mockUsecase.On("CreateCustomer", mock.Anything, mock.Anything).
			Return(nil, apperrors.NewAlreadyExistsError("customer", "Customer with email jane@example.com already exists"))

		w := doJSON(r, http.MethodPost, "/api/customers", customer.CreateCustomerRequest{Email: "jane@example.com"})

		assert.Equal(t, http.StatusConflict, w.Code)
	})
}

func TestCustomerHandler_Get(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		r, mockUsecase := setupCustomerTest(t)
		mockUsecase.On("GetCustomer", mock.Anything, int64(1)).Return(jane, nil)

		w := doJSON(r, http.MethodGet, "/api/customers/1", nil)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"email":"jane@example.com"`)
	})

	t.Run("Invalid ID", func(t *testing.T) {
		r, _ := setupCustomerTest(t)

		w := doJSON(r, http.MethodGet, "/api/customers/abc", nil)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Not Found", func(t *testing.T) {
		r, mockUsecase := setupCustomerTest(t)
		mockUsecase.On("GetCustomer", mock.Anything, int64(99)).
			Return(nil, apperrors.NewNotFoundError("customer", "Customer not found with id: 99"))

		w := doJSON(r, http.MethodGet, "/api/customers/99", nil)

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "Not Found", decodeError(t, w).Error)
	})

	t.Run("Internal Error Hides Details", func(t *testing.T) {
		r, mockUsecase := setupCustomerTest(t)
		mockUsecase.On("GetCustomer", mock.Anything, int64(2)).
			Return(nil, assert.AnError)

		w := doJSON(r, http.MethodGet, "/api/customers/2", nil)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.NotContains(t, w.Body.String(), assert.AnError.Error())
	})
}

func TestCustomerHandler_GetByEmail(t *testing.T) {
	r, mockUsecase := setupCustomerTest(t)
	mockUsecase.On("GetCustomerByEmail", mock.Anything, "jane@example.com").Return(jane, nil)

	w := doJSON(r, http.MethodGet, "/api/customers/email/jane%40example.com", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	mockUsecase.AssertExpectations(t)
}

func TestCustomerHandler_List(t *testing.T) {
	t.Run("Defaults", func(t *testing.T) {
		r, mockUsecase := setupCustomerTest(t)
		req := page.Request{Page: 0, Size: page.DefaultSize}
		mockUsecase.On("ListCustomers", mock.Anything, req).
			Return(page.New([]customer.Customer{*jane}, req, 1), nil)

		w := doJSON(r, http.MethodGet, "/api/customers", nil)

		assert.Equal(t, http.StatusOK, w.Code)
		var resp page.Page[customer.Customer]
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, int64(1), resp.TotalElements)
		assert.Len(t, resp.Content, 1)
	})

	t.Run("Paging And Sort", func(t *testing.T) {
		r, mockUsecase := setupCustomerTest(t)
		req := page.Request{Page: 2, Size: page.MaxSize, Sort: "lastName", Desc: true}
		mockUsecase.On("ListCustomers", mock.Anything, req).
			Return(page.New([]customer.Customer{}, req, 0), nil)

		w := doJSON(r, http.MethodGet, "/api/customers?page=2&size=500&sort=lastName,desc", nil)

		assert.Equal(t, http.StatusOK, w.Code)
		mockUsecase.AssertExpectations(t)
	})

	t.Run("Bad Page", func(t *testing.T) {
		r, _ := setupCustomerTest(t)

		w := doJSON(r, http.MethodGet, "/api/customers?page=x", nil)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestCustomerHandler_Search(t *testing.T) {
	t.Run("Missing Name", func(t *testing.T) {
		r, _ := setupCustomerTest(t)

		w := doJSON(r, http.MethodGet, "/api/customers/search", nil)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Success", func(t *testing.T) {
		r, mockUsecase := setupCustomerTest(t)
		req := page.NewRequest(0, 20)
		mockUsecase.On("SearchCustomers", mock.Anything, "doe", req).
			Return(page.New([]customer.Customer{*jane}, req, 1), nil)

		w := doJSON(r, http.MethodGet, "/api/customers/search?name=doe", nil)

		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestCustomerHandler_Active(t *testing.T) {
	r, mockUsecase := setupCustomerTest(t)
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 1, 31, 23, 59, 59, 0, time.UTC)
	mockUsecase.On("ActiveCustomers", mock.Anything, start, end, 1).Return([]customer.Customer{*jane}, nil)

	w := doJSON(r, http.MethodGet, "/api/customers/active?startDate=2024-01-01T00:00:00&endDate=2024-01-31T23:59:59Z", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	mockUsecase.AssertExpectations(t)
}

func TestCustomerHandler_Reports(t *testing.T) {
	t.Run("High Value", func(t *testing.T) {
		r, mockUsecase := setupCustomerTest(t)
		since := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
		mockUsecase.On("HighValueCustomers", mock.Anything, mock.MatchedBy(func(d decimal.Decimal) bool {
			return d.Equal(decimal.NewFromInt(500))
		}), since).Return([]customer.Customer{}, nil)

		w := doJSON(r, http.MethodGet, "/api/customers/high-value?minAmount=500&since=2024-01-01T00:00:00", nil)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, "[]", w.Body.String())
	})

	t.Run("Bad Decimal", func(t *testing.T) {
		r, _ := setupCustomerTest(t)

		w := doJSON(r, http.MethodGet, "/api/customers/by-spending?totalSpent=lots", nil)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Bad Date", func(t *testing.T) {
		r, _ := setupCustomerTest(t)

		w := doJSON(r, http.MethodGet, "/api/customers/stats/new-since?date=yesterday", nil)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("New Since", func(t *testing.T) {
		r, mockUsecase := setupCustomerTest(t)
		mockUsecase.On("CountNewCustomersSince", mock.Anything, mock.Anything).Return(int64(7), nil)

		w := doJSON(r, http.MethodGet, "/api/customers/stats/new-since?date=2024-01-01T00:00:00", nil)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "7", w.Body.String())
	})

	t.Run("Order Count", func(t *testing.T) {
		r, mockUsecase := setupCustomerTest(t)
		mockUsecase.On("CustomerOrderCount", mock.Anything, int64(1)).Return(int64(3), nil)

		w := doJSON(r, http.MethodGet, "/api/customers/1/order-count", nil)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "3", w.Body.String())
	})
}

func TestCustomerHandler_Update(t *testing.T) {
	r, mockUsecase := setupCustomerTest(t)
	reqBody := customer.UpdateCustomerRequest{Phone: "555-0100"}
	mockUsecase.On("UpdateCustomer", mock.Anything, int64(1), reqBody).Return(jane, nil)

	w := doJSON(r, http.MethodPut, "/api/customers/1", reqBody)

	assert.Equal(t, http.StatusOK, w.Code)
	mockUsecase.AssertExpectations(t)
}

func TestCustomerHandler_Delete(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		r, mockUsecase := setupCustomerTest(t)
		mockUsecase.On("DeleteCustomer", mock.Anything, int64(1)).Return(nil)

		w := doJSON(r, http.MethodDelete, "/api/customers/1", nil)

		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Empty(t, w.Body.String())
	})

	t.Run("Has Orders", func(t *testing.T) {
		r, mockUsecase := setupCustomerTest(t)
		mockUsecase.On("DeleteCustomer", mock.Anything, int64(1)).
			Return(apperrors.NewConflictError("Cannot delete customer with existing orders"))

		w := doJSON(r, http.MethodDelete, "/api/customers/1", nil)

		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Equal(t, "Cannot delete customer with existing orders", decodeError(t, w).Message)
	})
}
