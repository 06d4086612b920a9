package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromContextFallsBackToDefault(t *testing.T) {
	assert.Equal(t, slog.Default(), FromContext(context.Background()))

	l := slog.New(NewHandler(&bytes.Buffer{}, "info"))
	ctx := IntoContext(context.Background(), l)
	assert.Same(t, l, FromContext(ctx))
}

func TestNewHandlerLevel(t *testing.T) {
	var buf bytes.Buffer
	l := slog.New(NewHandler(&buf, "warn"))

	l.Info("ignored")
	require.Zero(t, buf.Len())

	l.Warn("kept", "status", 400)
	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "kept", rec["msg"])
	assert.EqualValues(t, 400, rec["status"])
}

func TestMultiHandlerFansOut(t *testing.T) {
	var info, errs bytes.Buffer
	l := slog.New(NewMultiHandler(NewHandler(&info, "info"), NewHandler(&errs, "error"))).
		With("service", "clothing-shop")

	l.Info("order_created")
	assert.Contains(t, info.String(), `"service":"clothing-shop"`)
	assert.Zero(t, errs.Len())

	l.Error("order_create_error")
	assert.Contains(t, errs.String(), "order_create_error")
	assert.Contains(t, info.String(), "order_create_error")
}
