package common

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestCustomErrorIsMatchesByCode(t *testing.T) {
	cause := errors.New("tesseract exited 1")
	err := fmt.Errorf("receipt r1: %w", ErrOCRFailure.Wrap(cause))

	assert.ErrorIs(t, err, ErrOCRFailure)
	assert.ErrorIs(t, err, cause)
	assert.NotErrorIs(t, err, ErrOCRTimeout)
	assert.Equal(t, "無法辨識收據內容: tesseract exited 1", ErrOCRFailure.Wrap(cause).Error())
}

func TestToResponse(t *testing.T) {
	status, resp := ToResponse(NewValidationError("name is required"), false)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, ErrorResponse{Code: ErrCodeInvalidRequest, Message: "name is required"}, resp)

	wrapped := fmt.Errorf("delete: %w", ErrNotFound)
	status, resp = ToResponse(wrapped, false)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, ErrCodeNotFound, resp.Code)

	status, resp = ToResponse(ErrOCRTimeout.Wrap(errors.New("deadline")), true)
	assert.Equal(t, http.StatusGatewayTimeout, status)
	assert.Equal(t, "deadline", resp.Details)

	status, resp = ToResponse(errors.New("disk full"), false)
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, ErrCodeInternalError, resp.Code)
	assert.Empty(t, resp.Details)

	_, resp = ToResponse(errors.New("disk full"), true)
	assert.Equal(t, "disk full", resp.Details)
}

func TestResolveUserID(t *testing.T) {
	assert.Equal(t, DefaultUserID, ResolveUserID(""))
	assert.Equal(t, DefaultUserID, ResolveUserID("   "))
	assert.Equal(t, "ana", ResolveUserID(" ana "))
	assert.NotEqual(t, GenerateUUID(), GenerateUUID())
}

func TestJSONHelpers(t *testing.T) {
	var v struct {
		Name string `json:"name"`
	}
	require.NoError(t, ParseJSON(`{"name":"tomate"}`, &v))
	assert.Equal(t, "tomate", v.Name)

	assert.Error(t, ParseJSONBytes([]byte(`{"name":"a"} {"name":"b"}`), &v))

	out, err := ToJSON([]string{"a"})
	require.NoError(t, err)
	assert.Equal(t, `["a"]`, out)
	assert.Equal(t, "a, b", StringSliceToString([]string{"a", "b"}))
}

func TestFilterFields(t *testing.T) {
	fields := filterFields([]zap.Field{
		zap.String("image", "..."),
		zap.String("raw_text", "..."),
		zap.String("receipt_base64", "..."),
		zap.String("receipt_id", "r1"),
	})
	require.Len(t, fields, 1)
	assert.Equal(t, "receipt_id", fields[0].Key)
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, "debug", parseLevel("DEBUG").String())
	assert.Equal(t, "info", parseLevel("verbose").String())
}

func TestInitLoggerWritesFile(t *testing.T) {
	prev := Logger
	t.Cleanup(func() { Logger = prev })

	dir := t.TempDir()
	require.NoError(t, InitLogger("debug", dir))
	LogInfo("Receipt processed", zap.String("receipt_id", "r1"))
	Sync()
	assert.FileExists(t, dir+"/app.log")
}
