package po

// UsageStats 表示 stats 表记录，与 Title 同生共死。
type UsageStats struct {
	Code     string `db:"code"`
	Searched int64  `db:"searched"`
	Viewed   int64  `db:"viewed"`
}

// StatField 标识可自增的计数列。
type StatField string

// 计数列
const (
	StatSearched StatField = "searched"
	StatViewed   StatField = "viewed"
)
