package main

import (
	"classhub/biz/adaptor"
	"classhub/biz/adaptor/controller"

	"github.com/cloudwego/hertz/pkg/app/server"
)

// customizedRegister registers customize routers.
func customizedRegister(r *server.Hertz) {
	r.GET("/ping", controller.Ping)

	classes := r.Group("/classes", adaptor.Protect)
	{
		classes.POST("/", controller.CreateClass)
		classes.GET("/", controller.ListClasses)
		classes.GET("/:id", controller.GetClass)
		classes.POST("/invite/:id", controller.InviteClass)
		classes.GET("/invite/:id", controller.ListInvitations)
		classes.POST("/join/:id", controller.JoinClass)
	}

	events := r.Group("/events", adaptor.Protect)
	{
		events.GET("/subscribe", controller.SubscribeEvents)
	}
}
