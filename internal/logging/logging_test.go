package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONLoggerFields(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Level: "debug", Format: "json", Output: &buf})

	log.With(String("line", "L101")).Info(context.Background(), "field assembled",
		Int("cells", 1300), Float("vnmo_max", 1994.75), Seconds("elapsed", 1500*time.Millisecond),
		Err(errors.New("none")))

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "INFO", rec["level"])
	assert.Equal(t, "field assembled", rec["msg"])
	assert.Equal(t, "L101", rec["line"])
	assert.Equal(t, 1300.0, rec["cells"])
	assert.Equal(t, 1994.75, rec["vnmo_max"])
	assert.Equal(t, 1.5, rec["elapsed"])
	assert.Equal(t, "none", rec["error"])
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Level: "warn", Output: &buf})

	log.Info(context.Background(), "hidden")
	assert.Zero(t, buf.Len())

	log.Warn(context.Background(), "shown")
	assert.Contains(t, buf.String(), "shown")
}

func TestWithRunLogger(t *testing.T) {
	var buf bytes.Buffer
	ctx, log := WithRunLogger(context.Background(), New(Config{Format: "json", Output: &buf}))

	id := RunID(ctx)
	_, err := uuid.Parse(id)
	require.NoError(t, err)

	log.Info(ctx, "start")
	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, id, rec["run_id"])

	again, _ := WithRunLogger(ctx, nil)
	assert.Equal(t, id, RunID(again))
}

func TestNoop(t *testing.T) {
	log := Noop().With(String("k", "v"))
	log.Error(context.Background(), "dropped")
}
