// Package session 保存管理员向导与用户输入流程的临时会话状态，按用户 ID 寻址并受 TTL 约束。
package session

import "github.com/bionicotaku/lingo-services-animebot/internal/models/po"

// Kind 标识当前所处的流程，零值表示无活动流程。
type Kind string

// 流程类型
const (
	KindNone        Kind = ""
	KindSearch      Kind = "search"
	KindContact     Kind = "contact"
	KindAdminReply  Kind = "admin_reply"
	KindAddTitle    Kind = "add_title"
	KindEditTitle   Kind = "edit_title"
	KindDeleteTitle Kind = "delete_title"
	KindCodeStats   Kind = "code_stats"
	KindChannel     Kind = "channel"
	KindAdminAdd    Kind = "admin_add"
	KindAdminRemove Kind = "admin_remove"
	KindBroadcast   Kind = "broadcast"
	KindPostTitle   Kind = "post_title"
	KindPostPart    Kind = "post_part"
)

// Step 是流程内的步骤，取值由各流程自行定义。
type Step string

// State 是带标签的联合体：Kind 决定哪个载荷字段有效。
type State struct {
	Kind    Kind          `json:"kind"`
	Step    Step          `json:"step,omitempty"`
	Title   *TitleDraft   `json:"title,omitempty"`   // KindAddTitle
	Edit    *EditDraft    `json:"edit,omitempty"`    // KindEditTitle
	Channel *ChannelDraft `json:"channel,omitempty"` // KindChannel
	Post    *PostDraft    `json:"post,omitempty"`    // KindPostPart
	ReplyTo int64         `json:"reply_to,omitempty"`
}

// Active 报告是否处于某个流程中。
func (s State) Active() bool { return s.Kind != KindNone }

// TitleDraft 是录入向导逐步填充的作品草稿。
type TitleDraft struct {
	Code         string        `json:"code"`
	Title        string        `json:"title"`
	Genre        string        `json:"genre"`
	Season       string        `json:"season"`
	Quality      string        `json:"quality"`
	ChannelName  string        `json:"channel_name"`
	DubbedBy     string        `json:"dubbed_by"`
	TotalParts   int           `json:"total_parts"`
	PosterFileID string        `json:"poster_file_id"`
	PosterType   po.PosterKind `json:"poster_type"`
	Caption      string        `json:"caption"`
	Parts        []string      `json:"parts"`
}

// ToTitle 把草稿转为持久化实体。
func (d *TitleDraft) ToTitle() *po.Title {
	return &po.Title{
		Code:         d.Code,
		Title:        d.Title,
		Genre:        d.Genre,
		Season:       d.Season,
		Quality:      d.Quality,
		ChannelName:  d.ChannelName,
		DubbedBy:     d.DubbedBy,
		TotalParts:   d.TotalParts,
		Parts:        append([]string(nil), d.Parts...),
		PosterFileID: d.PosterFileID,
		PosterType:   d.PosterType,
		Caption:      d.Caption,
	}
}

// EditDraft 记录编辑向导的目标与暂存的新增集。
type EditDraft struct {
	Code     string        `json:"code"`
	Field    po.TitleField `json:"field,omitempty"`
	NewParts []string      `json:"new_parts,omitempty"`
}

// ChannelDraft 记录频道管理流程的选择。
type ChannelDraft struct {
	Kind      po.ChannelKind `json:"kind"`
	Mode      po.AccessMode  `json:"mode,omitempty"`
	ChannelID int64          `json:"channel_id,omitempty"`
	Title     string         `json:"title,omitempty"`
}

// PostDraft 记录单集发帖流程的选择。
type PostDraft struct {
	Code  string `json:"code"`
	Title string `json:"title,omitempty"`
	Parts int    `json:"parts,omitempty"` // 已上传集数，用于校验集号
	Part  int    `json:"part,omitempty"`
}
