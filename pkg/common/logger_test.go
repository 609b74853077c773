package common

import (
	"bytes"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	_ "liyu1981.xyz/poultry-house-service/pkg/testing"
)

func TestLoggingCapture(t *testing.T) {
	var buf bytes.Buffer
	SetTestCaptureLogger(&buf, zapcore.InfoLevel)

	logger := GetLoggerWith(LoggerNameBroker, zap.String(LoggerFieldIOTCategory, LoggerCategoryBrokerSecurity))
	logger.Warn("Test log message", zap.String("key", "value"))
	logger.Debug("filtered out")

	logOutput := buf.String()
	if !strings.Contains(logOutput, "Test log message") {
		t.Errorf("expected log output to contain message, got: %s", logOutput)
	}
	if !strings.Contains(logOutput, `"logger":"broker"`) || !strings.Contains(logOutput, `"category":"security"`) {
		t.Errorf("expected named logger with category, got: %s", logOutput)
	}
	if strings.Contains(logOutput, "filtered out") {
		t.Errorf("expected debug entry to be filtered, got: %s", logOutput)
	}
}
