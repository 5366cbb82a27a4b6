package class

import (
	"context"
	"errors"
	"time"

	"classhub/biz/infrastructure/config"
	"classhub/biz/infrastructure/consts"
	"classhub/biz/infrastructure/repository/user"
	"classhub/biz/infrastructure/util/log"

	"github.com/zeromicro/go-zero/core/stores/monc"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const CollectionName = "classes"

type IClassMapper interface {
	Insert(ctx context.Context, class *Class) error
	FindOneBySlug(ctx context.Context, slug string) (*Class, error)
	FindViewBySlug(ctx context.Context, slug, viewerID string) (*ClassView, error)
	FindViewsByMember(ctx context.Context, viewerID string) ([]*ClassView, error)
	FindByStudent(ctx context.Context, userID string) ([]*Class, error)
	IsOwnerOrLecturer(ctx context.Context, slug, userID string) (bool, error)
	AppendLecturer(ctx context.Context, slug, userID string) error
}

type MongoMapper struct {
	conn *monc.Model
}

func NewMongoMapper(config *config.Config) *MongoMapper {
	log.Info("NewClassMongoMapper collection: %s", CollectionName)
	conn := monc.MustNewModel(config.Mongo.URL, config.Mongo.DB, CollectionName, config.Cache)
	return &MongoMapper{
		conn: conn,
	}
}

func (m *MongoMapper) Insert(ctx context.Context, class *Class) error {
	if class.ID.IsZero() {
		class.ID = primitive.NewObjectID()
		class.CreateTime = time.Now()
		class.UpdateTime = class.CreateTime
	}
	if class.Lecturers == nil {
		class.Lecturers = []primitive.ObjectID{}
	}
	if class.Students == nil {
		class.Students = []primitive.ObjectID{}
	}
	_, err := m.conn.InsertOneNoCache(ctx, class)
	return err
}

func (m *MongoMapper) FindOneBySlug(ctx context.Context, slug string) (*Class, error) {
	var c Class
	err := m.conn.FindOneNoCache(ctx, &c, bson.M{
		consts.Slug: slug,
	})
	switch {
	case err == nil:
		return &c, nil
	case errors.Is(err, monc.ErrNotFound):
		return nil, consts.ErrClassNotFound
	default:
		return nil, err
	}
}

// memberLookups 关联 users 集合展开 owner/lecturers/students
func memberLookups() []bson.M {
	return []bson.M{
		{"$lookup": bson.M{
			"from":         user.CollectionName,
			"localField":   consts.Lecturers,
			"foreignField": consts.ID,
			"as":           consts.Lecturers,
		}},
		{"$lookup": bson.M{
			"from":         user.CollectionName,
			"localField":   consts.Students,
			"foreignField": consts.ID,
			"as":           consts.Students,
		}},
		{"$lookup": bson.M{
			"from":         user.CollectionName,
			"localField":   consts.Owner,
			"foreignField": consts.ID,
			"as":           consts.Owner,
		}},
		{"$unwind": "$" + consts.Owner},
	}
}

func (m *MongoMapper) aggregateViews(ctx context.Context, pipeline []bson.M) ([]*ClassView, error) {
	var views []*ClassView
	if err := m.conn.Aggregate(ctx, &views, pipeline); err != nil {
		return nil, err
	}
	return views, nil
}

// FindViewBySlug 查询班级聚合视图, 仅 owner 或 lecturer 可见
func (m *MongoMapper) FindViewBySlug(ctx context.Context, slug, viewerID string) (*ClassView, error) {
	uid, err := primitive.ObjectIDFromHex(viewerID)
	if err != nil {
		return nil, consts.ErrInvalidObjectId
	}

	pipeline := append(memberLookups(),
		bson.M{"$match": bson.M{
			"$and": bson.A{
				bson.M{consts.Slug: slug},
				bson.M{"$or": bson.A{
					bson.M{"lecturers._id": uid},
					bson.M{"owner._id": uid},
				}},
			},
		}},
		bson.M{"$limit": 1},
	)

	views, err := m.aggregateViews(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	if len(views) == 0 {
		return nil, consts.ErrClassNotFound
	}
	return views[0], nil
}

// FindViewsByMember 查询用户创建或执教的全部班级视图
func (m *MongoMapper) FindViewsByMember(ctx context.Context, viewerID string) ([]*ClassView, error) {
	uid, err := primitive.ObjectIDFromHex(viewerID)
	if err != nil {
		return nil, consts.ErrInvalidObjectId
	}

	pipeline := append(memberLookups(),
		bson.M{"$match": bson.M{
			"$or": bson.A{
				bson.M{"lecturers._id": uid},
				bson.M{"owner._id": uid},
			},
		}},
	)

	return m.aggregateViews(ctx, pipeline)
}

func (m *MongoMapper) FindByStudent(ctx context.Context, userID string) ([]*Class, error) {
	uid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, consts.ErrInvalidObjectId
	}

	var classes []*Class
	err = m.conn.Find(ctx, &classes, bson.M{consts.Students: uid}, &options.FindOptions{
		Sort: bson.M{consts.CreateTime: -1},
	})
	if err != nil {
		return nil, err
	}
	return classes, nil
}

// IsOwnerOrLecturer 与读路径相同的成员判定: owner ∪ lecturers
func (m *MongoMapper) IsOwnerOrLecturer(ctx context.Context, slug, userID string) (bool, error) {
	uid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return false, consts.ErrInvalidObjectId
	}

	var c Class
	err = m.conn.FindOneNoCache(ctx, &c, bson.M{
		consts.Slug: slug,
		"$or": bson.A{
			bson.M{consts.Owner: uid},
			bson.M{consts.Lecturers: uid},
		},
	})
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, monc.ErrNotFound):
		return false, nil
	default:
		return false, err
	}
}

// AppendLecturer 单次条件更新追加 lecturer, 并发重复加入只会有一次生效
func (m *MongoMapper) AppendLecturer(ctx context.Context, slug, userID string) error {
	uid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return consts.ErrInvalidObjectId
	}

	filter := bson.M{
		consts.Slug:      slug,
		consts.Owner:     bson.M{consts.NotEqual: uid},
		consts.Lecturers: bson.M{consts.NotEqual: uid},
	}
	update := bson.M{
		"$addToSet": bson.M{consts.Lecturers: uid},
		"$set":      bson.M{consts.UpdateTime: time.Now()},
	}

	res, err := m.conn.UpdateOneNoCache(ctx, filter, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		if _, err := m.FindOneBySlug(ctx, slug); err != nil {
			return consts.ErrClassNotFound
		}
		return consts.ErrAlreadyMember
	}
	return nil
}
