package class

import (
	"time"

	"classhub/biz/infrastructure/repository/user"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ClassView 班级聚合视图, owner/lecturers/students 关联 users 集合展开
type ClassView struct {
	ID         primitive.ObjectID `bson:"_id" json:"id"`
	Name       string             `bson:"name" json:"name"`
	Cid        string             `bson:"cid" json:"cid"`
	Slug       string             `bson:"slug" json:"slug"`
	InviteCode string             `bson:"invite_code" json:"inviteCode"`
	Banner     string             `bson:"banner,omitempty" json:"banner"`
	Owner      user.User          `bson:"owner" json:"owner"`
	Lecturers  []user.User        `bson:"lecturers" json:"lecturers"`
	Students   []user.User        `bson:"students" json:"students"`
	CreateTime time.Time          `bson:"create_time" json:"createTime"`
	UpdateTime time.Time          `bson:"update_time" json:"updateTime"`
}
