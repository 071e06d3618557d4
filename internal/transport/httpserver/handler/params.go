package handler

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

func parseIntParam(value string, fallback int) (int, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return fallback, nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil || parsed < 0 {
		return 0, fmt.Errorf("invalid int")
	}
	return parsed, nil
}

func parseDateRequired(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, fmt.Errorf("date is required")
	}
	return time.Parse("2006-01-02", value)
}

func parseDateParam(value *string) (*time.Time, error) {
	if value == nil {
		return nil, nil
	}
	parsed, err := parseDateRequired(*value)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}
