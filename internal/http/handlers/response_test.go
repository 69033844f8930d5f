package handlers

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/tbourn/sparrow-design-service/internal/http/middleware"
	"github.com/tbourn/sparrow-design-service/internal/services"
	"github.com/tbourn/sparrow-design-service/internal/workflow"
)

func TestFail_500LogsWithRequestLogger(t *testing.T) {
	gin.SetMode(gin.TestMode)
	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set(middleware.HeaderRequestID, "rid-500")
		c.Set("logger", &logger)
		c.Next()
	})
	r.GET("/boom", func(c *gin.Context) { failErr(c, errors.New("db locked")) })
	r.GET("/missing", func(c *gin.Context) { Fail(c, http.StatusNotFound, ErrCodeNotFound, "route not found") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", w.Code)
	}
	resp := decode[ErrorResponse](t, w)
	if resp.RequestID != "rid-500" || resp.Code != ErrCodeInternal || resp.Message != "internal server error" {
		t.Fatalf("body = %+v", resp)
	}
	if !strings.Contains(buf.String(), `"level":"error"`) || !strings.Contains(buf.String(), "db locked") {
		t.Fatalf("expected error log with cause, got: %s", buf.String())
	}

	buf.Reset()
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/missing", nil))
	if w.Code != http.StatusNotFound || decode[ErrorResponse](t, w).Code != ErrCodeNotFound {
		t.Fatalf("got %d %s", w.Code, w.Body.String())
	}
	if buf.Len() != 0 {
		t.Fatalf("4xx must not be logged here: %s", buf.String())
	}
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err    error
		status int
		code   string
	}{
		{fmt.Errorf("%w: x", services.ErrInvalidTransition), http.StatusConflict, ErrCodeInvalidTransition},
		{services.ErrUnauthorized, http.StatusForbidden, ErrCodeUnauthorized},
		{services.ErrInvalidQuoteAmount, http.StatusBadRequest, ErrCodeInvalidQuoteAmount},
		{services.ErrInvalidInput, http.StatusBadRequest, ErrCodeBadRequest},
		{services.ErrNotFound, http.StatusNotFound, ErrCodeNotFound},
		{services.ErrOrderNotFound, http.StatusNotFound, ErrCodeNotFound},
		{services.ErrMissingAddress, http.StatusUnprocessableEntity, ErrCodeMissingAddress},
		{services.ErrAlreadyConverted, http.StatusConflict, ErrCodeAlreadyConverted},
		{services.ErrDependencyFailure, http.StatusBadGateway, ErrCodeDependencyFailure},
		{errors.New("other"), http.StatusInternalServerError, ErrCodeInternal},
	}
	for _, tc := range tests {
		status, code := statusFor(tc.err)
		if status != tc.status || code != tc.code {
			t.Errorf("statusFor(%v) = (%d, %q); want (%d, %q)", tc.err, status, code, tc.status, tc.code)
		}
	}
}

func TestActor(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	if a := actor(c); a.ID != "" || a.Role != workflow.RoleCustomer {
		t.Fatalf("anonymous actor = %+v", a)
	}
	c.Set("userID", "seller-1")
	c.Set("role", middleware.RoleSeller)
	if a := actor(c); a != (workflow.Actor{ID: "seller-1", Role: workflow.RoleSeller}) {
		t.Fatalf("seller actor = %+v", a)
	}
}
