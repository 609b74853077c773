package iot

import (
	"bufio"
	"encoding/json"
	"io"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"liyu1981.xyz/poultry-house-service/pkg/db"
	"liyu1981.xyz/poultry-house-service/pkg/iot/mocks"
)

// GetMockIOTWithMemorySqliteDialector builds an IOT over a private in-memory
// database. The live channel and mirror are gomock mocks when requested and
// nil otherwise.
func GetMockIOTWithMemorySqliteDialector(t *testing.T, useMockLive, useMockMirror bool) (
	*gomock.Controller,
	*IOT,
	*mocks.MockILiveChannel,
	*mocks.MockIReadingMirror,
) {
	ctrl := gomock.NewController(t)

	mockLive := mocks.NewMockILiveChannel(ctrl)
	mockMirror := mocks.NewMockIReadingMirror(ctrl)

	dbInstance, err := db.OpenIsolatedMemory()
	require.NoError(t, err)

	iotInstance := (&IOT{Db: *dbInstance}).WithDefaultServices()

	if useMockLive {
		iotInstance.Live = mockLive
	}
	if useMockMirror {
		iotInstance.Mirror = mockMirror
	}

	return ctrl, iotInstance, mockLive, mockMirror
}

func ParseLogs(r io.Reader) []any {
	scanner := bufio.NewScanner(r)
	var logs []any

	for scanner.Scan() {
		line := scanner.Text()
		var j any
		if err := json.Unmarshal([]byte(line), &j); err == nil {
			logs = append(logs, j)
		}
	}
	return logs
}

func ptr[T any](v T) *T {
	return &v
}
