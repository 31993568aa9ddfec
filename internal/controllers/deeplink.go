package controllers

import (
	"strconv"
	"strings"

	"github.com/bionicotaku/lingo-services-animebot/internal/services"
)

const partPayloadPrefix = "part_"

// parsePartRef 解析 "<code><sep><n>"，代码须为纯数字、n 为正整数。
func parsePartRef(raw, sep string) (string, int, bool) {
	i := strings.LastIndex(raw, sep)
	if i <= 0 {
		return "", 0, false
	}
	code := raw[:i]
	if !services.IsCode(code) {
		return "", 0, false
	}
	n, ok := services.ParsePositiveInt(raw[i+len(sep):])
	if !ok {
		return "", 0, false
	}
	return code, n, true
}

// startPayload 是 /start 参数的解析结果。
type startPayload struct {
	code string
	part int // 0 表示领取作品卡片
}

// parseStartPayload 识别 "<code>" 与 "part_<code>_<n>"。
func parseStartPayload(raw string) (startPayload, bool) {
	raw = strings.TrimSpace(raw)
	if rest, ok := strings.CutPrefix(raw, partPayloadPrefix); ok {
		code, n, ok := parsePartRef(rest, "_")
		if !ok {
			return startPayload{}, false
		}
		return startPayload{code: code, part: n}, true
	}
	if services.IsCode(raw) {
		return startPayload{code: raw}, true
	}
	return startPayload{}, false
}

func parseUserID(raw string) (int64, bool) {
	raw = strings.TrimSpace(raw)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
