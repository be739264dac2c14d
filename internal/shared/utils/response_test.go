package utils

import (
	stderrors "errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/hopperkey/phatdev/internal/shared/constants"
	"github.com/hopperkey/phatdev/internal/shared/errors"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestEnvelope(t *testing.T) {
	tests := []struct {
		name    string
		success bool
		message string
		payload Payload
		want    gin.H
	}{
		{name: "bare success", success: true, want: gin.H{"success": true}},
		{name: "failure with message", message: "Limit reached!", want: gin.H{"success": false, "message": "Limit reached!"}},
		{
			name:    "payload merged at top level",
			success: true,
			message: "Login successful!",
			payload: Payload{"expires_at": "2026-05-01T08:00:00.000Z"},
			want:    gin.H{"success": true, "message": "Login successful!", "expires_at": "2026-05-01T08:00:00.000Z"},
		},
		{
			name:    "reserved keys ignored",
			success: true,
			payload: Payload{"success": false, "message": "nope", "key": "VIP-ABCDEFGH"},
			want:    gin.H{"success": true, "key": "VIP-ABCDEFGH"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Envelope(tt.success, tt.message, tt.payload))
		})
	}
}

func TestErrorMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{name: "validation", err: errors.NewValidationError("Days must be at least 1!"), want: "Days must be at least 1!"},
		{name: "not found", err: errors.NewNotFoundError("Key not found!"), want: "Key not found!"},
		{name: "internal", err: errors.NewInternalError("database exploded"), want: constants.ErrMsgInternalServerError},
		{name: "plain error", err: stderrors.New("boom"), want: constants.ErrMsgInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ErrorMessage(tt.err))
		})
	}
}

func TestResponsesUseStatusOK(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	ErrorResponseWithError(c, errors.NewForbiddenError("Permission denied!"))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":false,"message":"Permission denied!"}`, w.Body.String())

	w = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(w)
	SuccessResponse(c, "", Payload{"is_admin": true})
	assert.JSONEq(t, `{"success":true,"is_admin":true}`, w.Body.String())
}

func TestMaskKey(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "VIP-AB12CD34", want: "VIP-AB******"},
		{in: "AK-XYZ", want: "AK-XY*"},
		{in: "NOPREFIX", want: "NO******"},
		{in: "K-1", want: "K-***"},
		{in: "", want: "***"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, MaskKey(tt.in))
		})
	}
}

type sample struct {
	Name   string `json:"name" validate:"required,max=5"`
	Prefix string `json:"prefix" validate:"omitempty,printascii"`
	Kind   string `json:"kind" validate:"omitempty,oneof=a b"`
}

func TestValidateStruct(t *testing.T) {
	tests := []struct {
		name    string
		in      sample
		wantErr string
	}{
		{name: "valid", in: sample{Name: "ok"}},
		{name: "required", in: sample{}, wantErr: "name is required!"},
		{name: "too long", in: sample{Name: "toolong"}, wantErr: "name must be at most 5 characters long!"},
		{name: "non ascii", in: sample{Name: "ok", Prefix: "VÍP"}, wantErr: "prefix must contain only printable ASCII characters!"},
		{name: "oneof", in: sample{Name: "ok", Kind: "c"}, wantErr: "kind must be one of [a b]!"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateStruct(&tt.in)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.True(t, errors.IsValidationError(err))
			assert.Equal(t, tt.wantErr, ErrorMessage(err))
		})
	}
}
