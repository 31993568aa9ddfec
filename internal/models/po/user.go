package po

import "time"

// User 表示 users 表记录，首次交互时写入，之后不再修改。
type User struct {
	UserID    int64     `db:"user_id"`
	CreatedAt time.Time `db:"created_at"`
}

// Admin 表示 admins 表记录。
type Admin struct {
	UserID    int64     `db:"user_id"`
	CreatedAt time.Time `db:"created_at"`
}
