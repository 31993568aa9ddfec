// Package vo 定义视图对象（View Objects），用于向上层传递业务数据。
// VO 对象由 Service 层返回，经 Views 层渲染为消息文本与键盘，隔离内部数据结构。
package vo

import (
	"fmt"

	"github.com/bionicotaku/lingo-services-animebot/internal/models/po"
)

// TitleCard 是宣传帖所需的全部数据。
type TitleCard struct {
	Code         string
	Title        string
	Genre        string
	Season       string
	Quality      string
	ChannelName  string
	DubbedBy     string
	PartCount    int
	PosterFileID string
	PosterType   po.PosterKind
	Views        int64
}

// NewTitleCard 由持久化实体与计数构造宣传卡片。
func NewTitleCard(title *po.Title, stats *po.UsageStats) *TitleCard {
	if title == nil {
		return nil
	}
	card := &TitleCard{
		Code:         title.Code,
		Title:        title.Title,
		Genre:        title.Genre,
		Season:       title.Season,
		Quality:      title.Quality,
		ChannelName:  title.ChannelName,
		DubbedBy:     title.DubbedBy,
		PartCount:    title.PartCount(),
		PosterFileID: title.PosterFileID,
		PosterType:   title.PosterType,
	}
	if stats != nil {
		card.Views = stats.Viewed
	}
	return card
}

// PartDelivery 描述一次单集投递。
type PartDelivery struct {
	Code    string
	Title   string
	Number  int
	FileID  string
	Caption string // "<title> [N-qism]"
}

// CodeStats 是单个代码的计数视图。
type CodeStats struct {
	Code     string
	Searched int64
	Viewed   int64
}

// GlobalStats 是管理员统计面板。
type GlobalStats struct {
	PingMillis  float64
	TotalUsers  int64
	TodayUsers  int64
	CatalogSize int64
}

// NewPartDelivery 构造单集投递视图，n 为 1-based 集数。
func NewPartDelivery(title *po.Title, n int, fileID string) *PartDelivery {
	return &PartDelivery{
		Code:    title.Code,
		Title:   title.Title,
		Number:  n,
		FileID:  fileID,
		Caption: fmt.Sprintf("%s [%d-qism]", title.Title, n),
	}
}

// ChatInfo 是平台侧会话（频道）的最小描述。
type ChatInfo struct {
	ID       int64
	Title    string
	Username string
}
