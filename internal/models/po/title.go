// Package po 定义面向持久化的数据对象（Persistent Objects），由 Repository 层使用。
// PO 对象映射数据库表结构，不直接暴露给上层业务逻辑。
package po

import "time"

// PosterKind 表示宣传海报的媒体类型
type PosterKind string

// 海报类型常量定义
const (
	PosterNone     PosterKind = ""         // 无海报，仅发送文本
	PosterPhoto    PosterKind = "photo"    // 图片
	PosterVideo    PosterKind = "video"    // 视频
	PosterDocument PosterKind = "document" // 文件
)

// Title 表示 titles 表的数据库实体。
// Code 是对外寻址键（深链与用户直接输入），Parts 的顺序决定集数编号（从 1 开始）。
type Title struct {
	Code         string     `db:"code"`           // 主键（纯数字字符串）
	Title        string     `db:"title"`          // 展示名称
	Genre        string     `db:"genre"`          // 类型，空格分隔
	Season       string     `db:"season"`         // 季
	Quality      string     `db:"quality"`        // 画质标签
	ChannelName  string     `db:"channel_name"`   // 署名频道
	DubbedBy     string     `db:"dubbed_by"`      // 配音
	TotalParts   int        `db:"total_parts"`    // 计划集数（录入时声明）
	Parts        []string   `db:"parts_file_ids"` // 各集文件引用（JSONB 数组）
	PosterFileID string     `db:"poster_file_id"` // 海报文件引用
	PosterType   PosterKind `db:"poster_type"`    // 海报类型
	Caption      string     `db:"caption"`        // 自由文本说明
	CreatedAt    time.Time  `db:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at"`
}

// PartCount 返回已上传的集数。
func (t *Title) PartCount() int {
	if t == nil {
		return 0
	}
	return len(t.Parts)
}

// Part 返回第 n 集（1-based）的文件引用，越界返回 false。
func (t *Title) Part(n int) (string, bool) {
	if t == nil || n < 1 || n > len(t.Parts) {
		return "", false
	}
	return t.Parts[n-1], true
}

// TitleSummary 是列表与搜索使用的精简投影。
type TitleSummary struct {
	Code  string `db:"code"`
	Title string `db:"title"`
}

// TitleField 枚举允许在编辑向导中修改的字段。
type TitleField string

// 可编辑字段
const (
	FieldTitle       TitleField = "title"
	FieldGenre       TitleField = "genre"
	FieldSeason      TitleField = "season"
	FieldQuality     TitleField = "quality"
	FieldChannelName TitleField = "channel_name"
	FieldDubbedBy    TitleField = "dubbed_by"
	FieldTotalParts  TitleField = "total_parts"
)

// EditableFields 以菜单顺序列出可编辑字段。
var EditableFields = []TitleField{
	FieldTitle,
	FieldGenre,
	FieldSeason,
	FieldQuality,
	FieldChannelName,
	FieldDubbedBy,
	FieldTotalParts,
}

// Valid 报告字段是否在白名单内。
func (f TitleField) Valid() bool {
	for _, candidate := range EditableFields {
		if f == candidate {
			return true
		}
	}
	return false
}
