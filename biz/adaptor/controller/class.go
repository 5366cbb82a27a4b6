package controller

import (
	"context"

	"classhub/biz/adaptor"
	"classhub/biz/application/dto/basic"
	"classhub/biz/application/dto/classhub/show"
	"classhub/provider"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
)

func CreateClass(ctx context.Context, c *app.RequestContext) {
	ctx = adaptor.InjectContext(ctx, c)
	var req show.CreateClassReq
	if err := c.BindAndValidate(&req); err != nil {
		c.JSON(consts.StatusBadRequest, basic.Fail(err.Error()))
		return
	}

	resp, err := provider.Get().ClassService.CreateClass(ctx, &req)
	if err != nil {
		adaptor.Fail(ctx, c, err)
		return
	}
	c.JSON(consts.StatusCreated, basic.Success("Create class successfully", resp.Class))
}

func GetClass(ctx context.Context, c *app.RequestContext) {
	ctx = adaptor.InjectContext(ctx, c)
	var req show.GetClassReq
	if err := c.BindAndValidate(&req); err != nil {
		c.JSON(consts.StatusBadRequest, basic.Fail(err.Error()))
		return
	}

	resp, err := provider.Get().ClassService.GetClass(ctx, &req)
	if err != nil {
		adaptor.Fail(ctx, c, err)
		return
	}
	c.JSON(consts.StatusOK, basic.Success("Get class successfully", resp.Class))
}

func ListClasses(ctx context.Context, c *app.RequestContext) {
	ctx = adaptor.InjectContext(ctx, c)
	var req show.ListClassesReq

	resp, err := provider.Get().ClassService.ListClasses(ctx, &req)
	if err != nil {
		adaptor.Fail(ctx, c, err)
		return
	}
	classes := resp.Classes
	if classes == nil {
		classes = []*show.ClassInfo{}
	}
	c.JSON(consts.StatusOK, basic.Success("Get classes successfully", classes))
}

func InviteClass(ctx context.Context, c *app.RequestContext) {
	ctx = adaptor.InjectContext(ctx, c)
	var req show.InviteClassReq
	if err := c.BindAndValidate(&req); err != nil {
		c.JSON(consts.StatusBadRequest, basic.Fail(err.Error()))
		return
	}

	resp, err := provider.Get().ClassService.InviteMembers(ctx, &req)
	if err != nil {
		adaptor.Fail(ctx, c, err)
		return
	}
	c.JSON(consts.StatusOK, basic.Success("Send invited message successfully", resp))
}

func ListInvitations(ctx context.Context, c *app.RequestContext) {
	ctx = adaptor.InjectContext(ctx, c)
	var req show.ListInvitationsReq
	if err := c.BindAndValidate(&req); err != nil {
		c.JSON(consts.StatusBadRequest, basic.Fail(err.Error()))
		return
	}

	resp, err := provider.Get().ClassService.ListInvitations(ctx, &req)
	if err != nil {
		adaptor.Fail(ctx, c, err)
		return
	}
	c.JSON(consts.StatusOK, basic.Success("Get invitations successfully", resp.Invitations))
}

func JoinClass(ctx context.Context, c *app.RequestContext) {
	ctx = adaptor.InjectContext(ctx, c)
	var req show.JoinClassReq
	if err := c.BindAndValidate(&req); err != nil {
		c.JSON(consts.StatusBadRequest, basic.Fail(err.Error()))
		return
	}

	resp, err := provider.Get().ClassService.JoinClass(ctx, &req)
	if err != nil {
		adaptor.Fail(ctx, c, err)
		return
	}
	c.JSON(consts.StatusOK, basic.Success("Join class successfully", resp.Class))
}
