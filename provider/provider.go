package provider

import (
	"classhub/biz/application/service"
	"classhub/biz/infrastructure/cache"
	"classhub/biz/infrastructure/config"
	"classhub/biz/infrastructure/mailer"
	"classhub/biz/infrastructure/realtime"
	"classhub/biz/infrastructure/repository/class"
	"classhub/biz/infrastructure/repository/invitation"
	"classhub/biz/infrastructure/repository/user"
	"classhub/biz/infrastructure/token"

	"github.com/google/wire"
)

var provider *Provider

func Init() {
	var err error
	provider, err = NewProvider()
	if err != nil {
		panic(err)
	}
}

// Provider 提供controller依赖的对象
type Provider struct {
	Config           *config.Config
	ClassService     service.IClassService
	SubscribeService service.ISubscribeService
	Hub              *realtime.Hub
}

func Get() *Provider {
	return provider
}

var ApplicationSet = wire.NewSet(
	service.ClassServiceSet,
	service.SubscribeServiceSet,
)

var InfrastructureSet = wire.NewSet(
	config.NewConfig,
	class.NewMongoMapper,
	wire.Bind(new(class.IClassMapper), new(*class.MongoMapper)),
	user.NewMongoMapper,
	wire.Bind(new(user.IUserMapper), new(*user.MongoMapper)),
	invitation.NewMySQLMapper,
	wire.Bind(new(invitation.ILogMapper), new(*invitation.MySQLMapper)),
	cache.NewClassCacheMapper,
	wire.Bind(new(cache.IClassCacheMapper), new(*cache.ClassCacheMapper)),
	token.NewService,
	mailer.NewEmailService,
	realtime.NewHub,
)

var AllProvider = wire.NewSet(
	ApplicationSet,
	InfrastructureSet,
)
