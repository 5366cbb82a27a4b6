package service

import (
	"context"

	"classhub/biz/infrastructure/realtime"
	"classhub/biz/infrastructure/repository/class"
	"classhub/biz/infrastructure/util/log"

	"github.com/google/wire"
	"github.com/samber/lo"
)

type ISubscribeService interface {
	Subscribe(ctx context.Context, conn *realtime.Conn)
}

type SubscribeService struct {
	ClassMapper class.IClassMapper
	Hub         *realtime.Hub
}

var SubscribeServiceSet = wire.NewSet(
	wire.Struct(new(SubscribeService), "*"),
	wire.Bind(new(ISubscribeService), new(*SubscribeService)),
)

// Subscribe 把连接加入其作为学生所属班级的房间
// 查询失败只降级不断开, 重连后可恢复订阅
func (s *SubscribeService) Subscribe(ctx context.Context, conn *realtime.Conn) {
	classes, err := s.ClassMapper.FindByStudent(ctx, conn.UserID)
	if err != nil {
		log.CtxError(ctx, "load subscriptions for user %s failed: %v", conn.UserID, err)
		return
	}

	slugs := lo.Map(classes, func(c *class.Class, _ int) string { return c.Slug })
	pending := lo.Filter(slugs, func(slug string, _ int) bool { return !conn.InRoom(slug) })
	if len(pending) > 0 {
		s.Hub.Join(conn, pending...)
	}
}
