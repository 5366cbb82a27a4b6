package invitation

import "time"

// Log 邀请发送记录
type Log struct {
	ID        int64     `db:"id"`
	Inviter   string    `db:"inviter"`
	Invitee   string    `db:"invitee"`
	ClassSlug string    `db:"class_slug"`
	Role      string    `db:"role"`
	Timestamp time.Time `db:"timestamp"`
}
