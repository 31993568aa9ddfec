package services

import (
	"strconv"
	"strings"
)

const channelIDPrefix = "-100"

// IsCode 报告 s 是否为合法的标题代码（非空、仅含数字）。
func IsCode(s string) bool {
	return s != "" && isDigits(s)
}

// ParsePositiveInt 解析正整数，用于集数与 total_parts。
func ParsePositiveInt(raw string) (int, bool) {
	raw = strings.TrimSpace(raw)
	if !IsCode(raw) {
		return 0, false
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

// ParsePartNumber 解析 1-based 集数。
func ParsePartNumber(raw string) (int, error) {
	n, ok := ParsePositiveInt(raw)
	if !ok {
		return 0, ErrInvalidPartNumber
	}
	return n, nil
}

// ParseChannelID 接受 "-100xxxx" 或纯数字（自动补 -100 前缀）。
func ParseChannelID(raw string) (int64, error) {
	raw = strings.TrimSpace(raw)
	switch {
	case strings.HasPrefix(raw, channelIDPrefix) && IsCode(raw[len(channelIDPrefix):]):
	case IsCode(raw):
		raw = channelIDPrefix + raw
	default:
		return 0, ErrInvalidChannelID
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, ErrInvalidChannelID
	}
	return id, nil
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
