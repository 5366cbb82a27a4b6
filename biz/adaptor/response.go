package adaptor

import (
	"context"
	"net/http"

	"classhub/biz/application/dto/basic"
	"classhub/biz/infrastructure/util/log"

	"github.com/cloudwego/hertz/pkg/app"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Protect 认证中间件, 解析Authorization并注入用户信息
func Protect(ctx context.Context, c *app.RequestContext) {
	meta := parseUserMeta(ctx, c)
	if meta.GetUserId() == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, basic.Fail("please sign in to continue"))
		return
	}
	c.Set(userMetaKey, meta)
	c.Next(ctx)
}

// Fail 把业务错误统一转换为 {status:'fail', message} 响应
func Fail(ctx context.Context, c *app.RequestContext, err error) {
	st, ok := status.FromError(err)
	if !ok {
		log.CtxError(ctx, "unclassified error: %v", err)
		c.JSON(http.StatusInternalServerError, basic.Fail("internal server error"))
		return
	}
	log.CtxInfo(ctx, "request failed: code=%s, message=%s", st.Code(), st.Message())
	c.JSON(httpStatus(st.Code()), basic.Fail(st.Message()))
}

func httpStatus(code codes.Code) int {
	switch code {
	case codes.OK:
		return http.StatusOK
	case codes.InvalidArgument:
		return http.StatusBadRequest
	case codes.Unauthenticated:
		return http.StatusUnauthorized
	case codes.PermissionDenied:
		return http.StatusForbidden
	case codes.NotFound:
		return http.StatusNotFound
	case codes.AlreadyExists:
		return http.StatusConflict
	case codes.Internal, codes.Unknown:
		return http.StatusInternalServerError
	default:
		return http.StatusBadRequest
	}
}
