package common

import (
	"os"
	"strconv"
	"strings"
	"testing"
)

func IsTestEnv() bool {
	return testing.Testing()
}
func IsDevelopment() bool {
	return os.Getenv(EnvKeyGoEnv) == "development"
}

func IsProduction() bool {
	return os.Getenv(EnvKeyGoEnv) == "production"
}

func GetEnvOrDefault(key string, fallback string) string {
	if v, found := os.LookupEnv(key); found && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v)
	}
	return fallback
}

func GetEnvInt(key string, fallback int) int {
	v, err := strconv.Atoi(GetEnvOrDefault(key, ""))
	if err != nil {
		return fallback
	}
	return v
}

func GetEnvFloat(key string, fallback float64) float64 {
	v, err := strconv.ParseFloat(GetEnvOrDefault(key, ""), 64)
	if err != nil {
		return fallback
	}
	return v
}

// SplitList splits a comma separated env value, dropping empty entries.
func SplitList(value string) []string {
	return Reducer(strings.Split(value, ","), func(acc []string, item string) []string {
		if item = strings.TrimSpace(item); item != "" {
			acc = append(acc, item)
		}
		return acc
	}, []string{})
}

func Mapper[T any, R any](items []T, mapFn func(T) R) []R {
	mapped := make([]R, len(items))
	for i := range len(items) {
		mapped[i] = mapFn(items[i])
	}
	return mapped
}

func Reducer[T any, R any](items []T, reduceFn func(R, T) R, initAcc R) R {
	finalAcc := initAcc
	for i := range len(items) {
		finalAcc = reduceFn(finalAcc, items[i])
	}
	return finalAcc
}
