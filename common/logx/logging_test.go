package logx

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLevel(t *testing.T) {
	lev, src := Level("debug")
	assert.Equal(t, slog.LevelDebug, lev)
	assert.True(t, src)
	lev, src = Level("warn")
	assert.Equal(t, slog.LevelWarn, lev)
	assert.False(t, src)
	lev, _ = Level("nonsense")
	assert.Equal(t, slog.LevelError, lev)
}

func TestContextLoggerCarriesAttributes(t *testing.T) {
	buf := &bytes.Buffer{}
	base := slog.New(NewHandler("text", buf, slog.LevelDebug, false))
	ctx := NewContext(context.Background(), base)

	ctx, _ = LoggingEntrypoint(ctx, "batch", "abc123")
	_, log := ContextWith(ctx, "extract")
	log.Info("hello")

	out := buf.String()
	assert.Contains(t, out, "sub=batch")
	assert.Contains(t, out, "cid=abc123")
	assert.Contains(t, out, "loc=extract")
	assert.Equal(t, "abc123", CorrelationID(ctx))
	assert.Equal(t, "", CorrelationID(context.Background()))
}

func TestErrLogsAndWraps(t *testing.T) {
	buf := &bytes.Buffer{}
	ctx := NewContext(context.Background(), slog.New(NewHandler("json", buf, slog.LevelDebug, false)))
	cause := errors.New("boom")

	err := Err(ctx, "download artifact", cause, "iflow", "X")
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "download artifact")
	assert.Contains(t, buf.String(), `"msg":"download artifact"`)
	assert.Contains(t, buf.String(), `"iflow":"X"`)

	err = Err(context.Background(), "plain", cause)
	assert.Equal(t, "plain: boom", err.Error())
}

func TestErrKeepsPercentInMessage(t *testing.T) {
	cause := errors.New("boom")
	err := Err(context.Background(), "filter 100% done", cause)
	assert.Equal(t, "filter 100% done: boom", err.Error())
	assert.ErrorIs(t, err, cause)

	err = Err(context.Background(), "rate %d", cause, "k", "v")
	assert.Equal(t, "rate %d kv : boom", err.Error())
}
