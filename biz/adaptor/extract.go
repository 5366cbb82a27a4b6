package adaptor

import (
	"context"
	"errors"

	"classhub/biz/application/dto/basic"
	"classhub/biz/infrastructure/config"
	"classhub/biz/infrastructure/util/log"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/golang-jwt/jwt/v4"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/cast"
)

const hertzContext = "hertz_context"
const userMetaKey = "user_meta"

type userMetaCtxKey struct{}

func InjectContext(ctx context.Context, c *app.RequestContext) context.Context {
	return context.WithValue(ctx, hertzContext, c)
}

func ExtractContext(ctx context.Context) (*app.RequestContext, error) {
	c, ok := ctx.Value(hertzContext).(*app.RequestContext)
	if !ok {
		return nil, errors.New("hertz context not found")
	}
	return c, nil
}

// WithUserMeta 直接注入用户信息, 绕过请求头解析
func WithUserMeta(ctx context.Context, meta *basic.UserMeta) context.Context {
	return context.WithValue(ctx, userMetaCtxKey{}, meta)
}

func ExtractUserMeta(ctx context.Context) *basic.UserMeta {
	if meta, ok := ctx.Value(userMetaCtxKey{}).(*basic.UserMeta); ok {
		return meta
	}
	c, err := ExtractContext(ctx)
	if err != nil {
		return new(basic.UserMeta)
	}
	if v, ok := c.Get(userMetaKey); ok {
		if meta, ok := v.(*basic.UserMeta); ok {
			return meta
		}
	}
	return parseUserMeta(ctx, c)
}

func parseUserMeta(ctx context.Context, c *app.RequestContext) (user *basic.UserMeta) {
	user = new(basic.UserMeta)
	var err error
	defer func() {
		if err != nil {
			log.CtxInfo(ctx, "extract user meta fail, err=%v", err)
		}
	}()
	tokenString := c.GetHeader("Authorization")
	token, err := jwt.Parse(string(tokenString), func(_ *jwt.Token) (interface{}, error) {
		return jwt.ParseECPublicKeyFromPEM([]byte(config.GetConfig().Auth.PublicKey))
	})
	if err != nil {
		return
	}
	if !token.Valid {
		err = errors.New("token is not valid")
		return
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		err = errors.New("unexpected claims type")
		return
	}
	err = mapstructure.Decode(map[string]any(claims), user)
	if user.UserId == "" {
		// 部分签发方把userId编码为数字
		user.UserId = cast.ToString(claims["userId"])
	}
	return
}
