package logging_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/m-mizutani/burrow/pkg/utils/logging"
	"github.com/m-mizutani/gt"
)

func TestNew(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := logging.New("info", "console", buf)
	gt.V(t, logger).NotNil()

	logger.Info("test message")
	gt.S(t, buf.String()).Contains("test message")
}

func TestNewJSONFormat(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := logging.New("info", "json", buf)

	logger.Info("test message", "model_id", "abc")
	gt.S(t, buf.String()).Contains(`"msg":"test message"`)
	gt.S(t, buf.String()).Contains(`"model_id":"abc"`)
}

func TestLevelFiltering(t *testing.T) {
	testCases := []struct {
		level       string
		expectDebug bool
		expectInfo  bool
	}{
		{"debug", true, true},
		{"info", false, true},
		{"warn", false, false},
		{"warning", false, false},
		{"error", false, false},
	}

	for _, tc := range testCases {
		t.Run(tc.level, func(t *testing.T) {
			buf := &bytes.Buffer{}
			logger := logging.New(tc.level, "json", buf)

			logger.Debug("debug message")
			gt.Equal(t, tc.expectDebug, bytes.Contains(buf.Bytes(), []byte("debug message")))

			logger.Info("info message")
			gt.Equal(t, tc.expectInfo, bytes.Contains(buf.Bytes(), []byte("info message")))
		})
	}
}

func TestContextLogger(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := logging.New("debug", "json", buf)

	ctx := logging.With(context.Background(), logger)
	gt.Equal(t, logging.From(ctx), logger)

	// Without a logger in the context the default is returned
	gt.V(t, logging.From(context.Background())).NotNil()
}

func TestSetDefault(t *testing.T) {
	original := logging.Default()
	defer logging.SetDefault(original)

	buf := &bytes.Buffer{}
	logger := slog.New(slog.NewJSONHandler(buf, nil))
	logging.SetDefault(logger)
	gt.Equal(t, logging.Default(), logger)
}
