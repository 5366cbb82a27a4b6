package class

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Class struct {
	ID         primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Name       string               `bson:"name" json:"name"`
	Cid        string               `bson:"cid" json:"cid"`
	Slug       string               `bson:"slug" json:"slug"`
	InviteCode string               `bson:"invite_code" json:"inviteCode"`
	Banner     string               `bson:"banner,omitempty" json:"banner"`
	Owner      primitive.ObjectID   `bson:"owner" json:"owner"`
	Lecturers  []primitive.ObjectID `bson:"lecturers" json:"lecturers"`
	Students   []primitive.ObjectID `bson:"students" json:"students"`
	CreateTime time.Time            `bson:"create_time" json:"createTime"`
	UpdateTime time.Time            `bson:"update_time" json:"updateTime"`
}
