package repositories

import (
	"encoding/json"
	"fmt"
	"strings"
)

// encodeParts 将集数列表序列化为 JSONB 文本，nil 视为空数组。
func encodeParts(parts []string) (string, error) {
	if parts == nil {
		parts = []string{}
	}
	raw, err := json.Marshal(parts)
	if err != nil {
		return "", fmt.Errorf("encode parts: %w", err)
	}
	return string(raw), nil
}

// decodeParts 解析 parts_file_ids::text。
func decodeParts(raw string) ([]string, error) {
	if strings.TrimSpace(raw) == "" {
		return []string{}, nil
	}
	var parts []string
	if err := json.Unmarshal([]byte(raw), &parts); err != nil {
		return nil, fmt.Errorf("decode parts: %w", err)
	}
	if parts == nil {
		parts = []string{}
	}
	return parts, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern 构造 ILIKE 子串匹配模式，转义通配符。
func containsPattern(query string) string {
	return "%" + likeEscaper.Replace(query) + "%"
}
