package iot

import (
	"bytes"
	"context"
	"fmt"

	"go.uber.org/zap"
	"liyu1981.xyz/poultry-house-service/pkg/common"
)

// broadcast runs after a commit. A failing or panicking live channel is logged
// and never reaches the caller.
func (i *IOT) broadcast(ctx context.Context, userID, event string, payload any) {
	if i.Live == nil {
		return
	}

	logger := common.GetLoggerWith(common.LoggerNameIOTCore, zap.String(common.LoggerFieldIOTCategory, event))

	defer func() {
		if r := recover(); r != nil {
			logger.Error("Live broadcast panicked", zap.String("user_id", userID), zap.Any("panic", r))
		}
	}()

	if err := i.Live.Broadcast(ctx, userID, event, payload); err != nil {
		logger.Warn("Live broadcast failed", zap.String("user_id", userID), zap.Error(err))
	}
}

func isJSONObject(payload []byte) error {
	trimmed := bytes.TrimSpace(payload)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return fmt.Errorf("payload is not a JSON object")
	}
	return nil
}
