package cache

import (
	"context"
	"encoding/json"
	"fmt"

	"classhub/biz/infrastructure/config"
	"classhub/biz/infrastructure/redis"
	"classhub/biz/infrastructure/repository/class"

	gozero_redis "github.com/zeromicro/go-zero/core/stores/redis"
)

const (
	classCacheExpire = 3600 // 1小时
)

// Key 班级视图缓存key, slug 为空表示班级列表
func Key(slug, ownerID string) string {
	return fmt.Sprintf("class?id=%s&owner=%s", slug, ownerID)
}

type IClassCacheMapper interface {
	GetView(ctx context.Context, slug, ownerID string) (*class.ClassView, error)
	SetView(ctx context.Context, slug, ownerID string, view *class.ClassView) error
	GetViews(ctx context.Context, ownerID string) ([]*class.ClassView, error)
	SetViews(ctx context.Context, ownerID string, views []*class.ClassView) error
	Delete(ctx context.Context, slug, ownerID string) error
}

type ClassCacheMapper struct {
	rds *gozero_redis.Redis
}

func NewClassCacheMapper(config *config.Config) *ClassCacheMapper {
	return &ClassCacheMapper{
		rds: redis.GetRedis(config),
	}
}

func (m *ClassCacheMapper) GetView(ctx context.Context, slug, ownerID string) (*class.ClassView, error) {
	cachedData, err := m.rds.GetCtx(ctx, Key(slug, ownerID))
	if err != nil {
		return nil, err
	}
	if cachedData == "" {
		return nil, fmt.Errorf("cache miss")
	}

	var view class.ClassView
	if err := json.Unmarshal([]byte(cachedData), &view); err != nil {
		return nil, fmt.Errorf("unmarshal cached data failed: %w", err)
	}
	return &view, nil
}

func (m *ClassCacheMapper) SetView(ctx context.Context, slug, ownerID string, view *class.ClassView) error {
	data, err := json.Marshal(view)
	if err != nil {
		return fmt.Errorf("marshal data failed: %w", err)
	}
	return m.rds.SetexCtx(ctx, Key(slug, ownerID), string(data), classCacheExpire)
}

func (m *ClassCacheMapper) GetViews(ctx context.Context, ownerID string) ([]*class.ClassView, error) {
	cachedData, err := m.rds.GetCtx(ctx, Key("", ownerID))
	if err != nil {
		return nil, err
	}
	if cachedData == "" {
		return nil, fmt.Errorf("cache miss")
	}

	var views []*class.ClassView
	if err := json.Unmarshal([]byte(cachedData), &views); err != nil {
		return nil, fmt.Errorf("unmarshal cached data failed: %w", err)
	}
	return views, nil
}

func (m *ClassCacheMapper) SetViews(ctx context.Context, ownerID string, views []*class.ClassView) error {
	data, err := json.Marshal(views)
	if err != nil {
		return fmt.Errorf("marshal data failed: %w", err)
	}
	return m.rds.SetexCtx(ctx, Key("", ownerID), string(data), classCacheExpire)
}

// Delete 同时删除单班级视图与列表视图, 成员变更会让两者都失效
func (m *ClassCacheMapper) Delete(ctx context.Context, slug, ownerID string) error {
	keys := []string{Key("", ownerID)}
	if slug != "" {
		keys = append(keys, Key(slug, ownerID))
	}
	_, err := m.rds.DelCtx(ctx, keys...)
	return err
}
