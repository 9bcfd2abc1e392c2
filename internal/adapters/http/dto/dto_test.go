package dto

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestNewErrorResponse(t *testing.T) {
	resp := NewErrorResponse(ErrorCodeNotFound, "quote not found")

	assert.Equal(t, ErrorCodeNotFound, resp.Error.Code)
	assert.Equal(t, "quote not found", resp.Error.Message)
	assert.Nil(t, resp.Error.Details)
	assert.Empty(t, resp.TraceID)
}

func TestNewErrorResponseWithDetails(t *testing.T) {
	details := map[string]string{"text": "this field is required"}

	resp := NewErrorResponseWithDetails(ErrorCodeValidation, "request validation failed", details)

	assert.Equal(t, ErrorCodeValidation, resp.Error.Code)
	assert.Equal(t, details, resp.Error.Details)
}

func TestTraceIDFromContext(t *testing.T) {
	t.Run("no span", func(t *testing.T) {
		assert.Empty(t, TraceIDFromContext(context.Background()))
		assert.Empty(t, NewErrorResponse(ErrorCodeInternal, "x").WithTraceFrom(context.Background()).TraceID)
	})

	t.Run("span in context", func(t *testing.T) {
		traceID, err := trace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
		require.NoError(t, err)

		spanID, err := trace.SpanIDFromHex("00f067aa0ba902b7")
		require.NoError(t, err)

		ctx := trace.ContextWithSpanContext(context.Background(), trace.NewSpanContext(trace.SpanContextConfig{
			TraceID: traceID,
			SpanID:  spanID,
		}))

		assert.Equal(t, "4bf92f3577b34da6a3ce929d0e0e4736", TraceIDFromContext(ctx))
		assert.Equal(t, "4bf92f3577b34da6a3ce929d0e0e4736",
			NewErrorResponse(ErrorCodeInternal, "x").WithTraceFrom(ctx).TraceID)
	})
}

func TestHTTPStatusFromCode(t *testing.T) {
	tests := []struct {
		code string
		want int
	}{
		{ErrorCodeNotFound, http.StatusNotFound},
		{ErrorCodeValidation, http.StatusBadRequest},
		{ErrorCodeBadRequest, http.StatusBadRequest},
		{ErrorCodeUnavailable, http.StatusServiceUnavailable},
		{ErrorCodeTimeout, http.StatusGatewayTimeout},
		{ErrorCodeWriteVerification, http.StatusInternalServerError},
		{ErrorCodeInternal, http.StatusInternalServerError},
		{"SOMETHING_ELSE", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatusFromCode(tt.code))
		})
	}
}

func TestValidator(t *testing.T) {
	assert.Same(t, Validator(), Validator())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		input   QuoteRequest
		wantErr bool
	}{
		{"valid", QuoteRequest{Text: "Be here now.", Author: "Ram Dass", Category: "mind"}, false},
		{"author optional", QuoteRequest{Text: "Be here now."}, false},
		{"missing text", QuoteRequest{Author: "Ram Dass"}, true},
		{"blank text", QuoteRequest{Text: " \t "}, true},
		{"text too long", QuoteRequest{Text: strings.Repeat("a", 2001)}, true},
		{"bad category", QuoteRequest{Text: "x", Category: "mind/body"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(&tt.input)

			if tt.wantErr {
				require.ErrorIs(t, err, ErrValidation)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestBindAndValidate(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		errType error
	}{
		{"valid JSON", `{"text":"Be here now.","author":"Ram Dass"}`, nil},
		{"invalid JSON", `{invalid}`, ErrBinding},
		{"empty body", ``, ErrBinding},
		{"validation fails", `{"text":"","author":"Ram Dass"}`, ErrValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
			c.Request.Header.Set("Content-Type", "application/json")

			var input QuoteRequest
			err := BindAndValidate(c, &input)

			if tt.errType != nil {
				require.ErrorIs(t, err, tt.errType)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, "Be here now.", input.Text)
			assert.Equal(t, "Ram Dass", input.Author)
		})
	}
}

func TestBindQueryAndValidate(t *testing.T) {
	tests := []struct {
		name    string
		query   string
		wantErr bool
	}{
		{"valid query", "?limit=10&cursor=abc", false},
		{"empty query", "", false},
		{"limit out of range", "?limit=150", true},
		{"negative limit", "?limit=-1", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/favorites"+tt.query, nil)

			var input PaginationRequest
			err := BindQueryAndValidate(c, &input)

			if tt.wantErr {
				require.ErrorIs(t, err, ErrValidation)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestBindURIAndValidate(t *testing.T) {
	tests := []struct {
		category string
		wantErr  bool
	}{
		{"wisdom", false},
		{"self-love", false},
		{"bad!name", true},
	}

	for _, tt := range tests {
		t.Run(tt.category, func(t *testing.T) {
			engine := gin.New()

			var gotErr error

			engine.GET("/category/:category", func(c *gin.Context) {
				var param CategoryParam
				gotErr = BindURIAndValidate(c, &param)
			})

			engine.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/category/"+tt.category, nil))

			if tt.wantErr {
				require.ErrorIs(t, gotErr, ErrValidation)
			} else {
				require.NoError(t, gotErr)
			}
		})
	}
}

func TestValidationErrors(t *testing.T) {
	err := Validate(&QuoteRequest{Text: "", Author: strings.Repeat("a", 201), Category: "a/b"})
	require.Error(t, err)

	got := ValidationErrors(err)
	assert.Len(t, got, 3)
	assert.Equal(t, "this field is required", got["text"])
	assert.Equal(t, "must be at most 200 characters", got["author"])
	assert.Equal(t, "must contain only letters, digits, spaces, or hyphens", got["category"])

	assert.Empty(t, ValidationErrors(errors.New("some error")))
}

func TestIsValidationError(t *testing.T) {
	assert.True(t, IsValidationError(Validate(&QuoteRequest{})))
	assert.False(t, IsValidationError(errors.New("some error")))
	assert.False(t, IsValidationError(nil))
}

func TestValidationMessage(t *testing.T) {
	type testStruct struct {
		Name     string `validate:"required"`
		Count    int    `validate:"min=1,max=10"`
		Role     string `validate:"oneof=admin user"`
		Text     string `validate:"min=5,max=100"`
		Age      int    `validate:"gte=0,lte=120"`
		Score    int    `validate:"gt=0,lt=100"`
		Topic    string `validate:"category"`
		Username string `validate:"notempty"`
		Code     string `validate:"alpha"`
	}

	input := &testStruct{
		Count:    20,
		Role:     "invalid",
		Text:     "abc",
		Age:      150,
		Score:    150,
		Topic:    "a_b",
		Username: "  ",
		Code:     "123",
	}

	err := Validator().Struct(input)

	var validationErrs validator.ValidationErrors
	require.ErrorAs(t, err, &validationErrs)

	expected := map[string]string{
		"Name":     "this field is required",
		"Count":    "must be at most 10",
		"Role":     "must be one of: admin user",
		"Text":     "must be at least 5 characters",
		"Age":      "must be less than or equal to 120",
		"Score":    "must be less than 100",
		"Topic":    "must contain only letters, digits, spaces, or hyphens",
		"Username": "must not be empty",
		"Code":     "failed validation: alpha",
	}

	for _, fe := range validationErrs {
		want, ok := expected[fe.Field()]
		require.True(t, ok, "unexpected field %s", fe.Field())
		assert.Equal(t, want, validationMessage(fe), "field: %s", fe.Field())
	}
}

func TestMinMaxMessage(t *testing.T) {
	tests := []struct {
		name  string
		tag   string
		param string
		kind  reflect.Kind
		want  string
	}{
		{"min for string", "min", "5", reflect.String, "must be at least 5 characters"},
		{"max for string", "max", "100", reflect.String, "must be at most 100 characters"},
		{"min for int", "min", "1", reflect.Int, "must be at least 1"},
		{"max for int", "max", "10", reflect.Int, "must be at most 10"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, minMaxMessage(tt.tag, tt.param, tt.kind))
		})
	}
}
