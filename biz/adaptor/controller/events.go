package controller

import (
	"context"
	"encoding/json"
	"net/http"

	"classhub/biz/adaptor"
	"classhub/biz/infrastructure/util/log"
	"classhub/provider"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/protocol/sse"
)

// SubscribeEvents 建立SSE连接并订阅所属班级的房间广播
func SubscribeEvents(ctx context.Context, c *app.RequestContext) {
	ctx = adaptor.InjectContext(ctx, c)
	meta := adaptor.ExtractUserMeta(ctx)

	p := provider.Get()
	conn := p.Hub.Connect(meta.GetUserId())
	defer p.Hub.Disconnect(conn)

	p.SubscribeService.Subscribe(ctx, conn)

	c.SetStatusCode(http.StatusOK)
	w := sse.NewWriter(c)

	for {
		select {
		case ev, ok := <-conn.Events():
			if !ok {
				return
			}
			payload, err := json.Marshal(ev)
			if err != nil {
				log.CtxError(ctx, "marshal event failed: %v", err)
				continue
			}
			if err := w.WriteEvent("", ev.Name, payload); err != nil {
				log.CtxInfo(ctx, "subscriber %s gone: %v", meta.GetUserId(), err)
				return
			}
		case <-ctx.Done():
			return
		}
	}
}
