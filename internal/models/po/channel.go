package po

import "time"

// ChannelKind 区分强制订阅频道与公告频道
type ChannelKind string

// 频道类型
const (
	ChannelSub  ChannelKind = "sub"  // 领取内容前必须订阅
	ChannelMain ChannelKind = "main" // 发布宣传帖的主频道
)

// Valid 报告类型是否合法。
func (k ChannelKind) Valid() bool {
	return k == ChannelSub || k == ChannelMain
}

// AccessMode 决定订阅校验方式
type AccessMode string

// 访问模式
const (
	ModeOpen    AccessMode = "open"    // 直接查询成员状态
	ModeRequest AccessMode = "request" // 以入群申请记录代替成员状态
)

// Valid 报告模式是否合法。
func (m AccessMode) Valid() bool {
	return m == ModeOpen || m == ModeRequest
}

// Channel 表示 channels 表记录，(ChannelID, Kind) 联合唯一。
type Channel struct {
	ChannelID int64       `db:"channel_id"`
	Kind      ChannelKind `db:"type"`
	Title     string      `db:"title"`
	Link      string      `db:"link"`
	Mode      AccessMode  `db:"mode"`
	CreatedAt time.Time   `db:"created_at"`
}

// JoinRequest 表示 join_requests 表记录，每个 (user, channel) 仅一条。
type JoinRequest struct {
	UserID    int64     `db:"user_id"`
	ChannelID int64     `db:"channel_id"`
	CreatedAt time.Time `db:"created_at"`
}
