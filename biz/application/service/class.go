package service

import (
	"context"
	"crypto/rand"
	"math/big"
	"regexp"
	"strings"
	"time"

	"classhub/biz/adaptor"
	"classhub/biz/application/dto/classhub/show"
	"classhub/biz/infrastructure/cache"
	"classhub/biz/infrastructure/config"
	"classhub/biz/infrastructure/consts"
	"classhub/biz/infrastructure/mailer"
	"classhub/biz/infrastructure/realtime"
	"classhub/biz/infrastructure/repository/class"
	"classhub/biz/infrastructure/repository/invitation"
	"classhub/biz/infrastructure/repository/user"
	"classhub/biz/infrastructure/token"
	"classhub/biz/infrastructure/util"
	"classhub/biz/infrastructure/util/log"

	"github.com/google/uuid"
	"github.com/google/wire"
	"github.com/jinzhu/copier"
	"github.com/samber/lo"
)

type IClassService interface {
	CreateClass(ctx context.Context, req *show.CreateClassReq) (*show.CreateClassResp, error)
	GetClass(ctx context.Context, req *show.GetClassReq) (*show.GetClassResp, error)
	ListClasses(ctx context.Context, req *show.ListClassesReq) (*show.ListClassesResp, error)
	InviteMembers(ctx context.Context, req *show.InviteClassReq) (*show.InviteClassResp, error)
	ListInvitations(ctx context.Context, req *show.ListInvitationsReq) (*show.ListInvitationsResp, error)
	JoinClass(ctx context.Context, req *show.JoinClassReq) (*show.JoinClassResp, error)
}

type ClassService struct {
	Config       *config.Config
	ClassMapper  class.IClassMapper
	UserMapper   user.IUserMapper
	LogMapper    invitation.ILogMapper
	CacheMapper  cache.IClassCacheMapper
	TokenService *token.Service
	EmailService mailer.EmailService
	Hub          *realtime.Hub
}

var ClassServiceSet = wire.NewSet(
	wire.Struct(new(ClassService), "*"),
	wire.Bind(new(IClassService), new(*ClassService)),
)

var inviteCodePattern = regexp.MustCompile(`\?code=\w*`)
var slugPattern = regexp.MustCompile(`[^a-z0-9]+`)

// CreateClass 创建班级, 创建者即为owner
func (s *ClassService) CreateClass(ctx context.Context, req *show.CreateClassReq) (*show.CreateClassResp, error) {
	meta := adaptor.ExtractUserMeta(ctx)
	if meta.GetUserId() == "" {
		return nil, consts.ErrNotAuthentication
	}

	owner, err := s.UserMapper.FindOne(ctx, meta.GetUserId())
	if err != nil {
		log.CtxError(ctx, "find owner failed: %v", err)
		return nil, consts.ErrNotFound
	}

	c := &class.Class{
		Name:       req.Name,
		Cid:        req.Cid,
		Slug:       generateSlug(req.Name),
		InviteCode: generateInviteCode(),
		Banner:     req.Banner,
		Owner:      owner.ID,
	}
	if err := s.ClassMapper.Insert(ctx, c); err != nil {
		log.CtxError(ctx, "create class failed: %v", err)
		return nil, consts.ErrCreateClass
	}

	// 列表缓存失效
	if err := s.CacheMapper.Delete(ctx, "", meta.GetUserId()); err != nil {
		log.CtxError(ctx, "invalidate class cache failed: %v", err)
	}

	view, err := s.ClassMapper.FindViewBySlug(ctx, c.Slug, meta.GetUserId())
	if err != nil {
		log.CtxError(ctx, "load created class failed: %v", err)
		return nil, consts.ErrCreateClass
	}

	return &show.CreateClassResp{Class: toClassInfo(view)}, nil
}

// GetClass 查询单个班级, 读穿缓存
func (s *ClassService) GetClass(ctx context.Context, req *show.GetClassReq) (*show.GetClassResp, error) {
	meta := adaptor.ExtractUserMeta(ctx)
	if meta.GetUserId() == "" {
		return nil, consts.ErrNotAuthentication
	}

	if view, err := s.CacheMapper.GetView(ctx, req.Id, meta.GetUserId()); err == nil {
		return &show.GetClassResp{Class: toClassInfo(view)}, nil
	}

	view, err := s.ClassMapper.FindViewBySlug(ctx, req.Id, meta.GetUserId())
	if err != nil {
		return nil, err
	}

	// 缓存尽力而为, 主存结果为准
	if err := s.CacheMapper.SetView(ctx, req.Id, meta.GetUserId(), view); err != nil {
		log.CtxError(ctx, "set class cache failed: %v", err)
	}

	return &show.GetClassResp{Class: toClassInfo(view)}, nil
}

// ListClasses 查询创建或执教的班级列表, 读穿缓存
func (s *ClassService) ListClasses(ctx context.Context, req *show.ListClassesReq) (*show.ListClassesResp, error) {
	meta := adaptor.ExtractUserMeta(ctx)
	if meta.GetUserId() == "" {
		return nil, consts.ErrNotAuthentication
	}

	if views, err := s.CacheMapper.GetViews(ctx, meta.GetUserId()); err == nil {
		return &show.ListClassesResp{Classes: lo.Map(views, func(v *class.ClassView, _ int) *show.ClassInfo {
			return toClassInfo(v)
		})}, nil
	}

	views, err := s.ClassMapper.FindViewsByMember(ctx, meta.GetUserId())
	if err != nil {
		log.CtxError(ctx, "list classes failed: %v", err)
		return nil, consts.ErrGetClassList
	}

	if err := s.CacheMapper.SetViews(ctx, meta.GetUserId(), views); err != nil {
		log.CtxError(ctx, "set class list cache failed: %v", err)
	}

	return &show.ListClassesResp{Classes: lo.Map(views, func(v *class.ClassView, _ int) *show.ClassInfo {
		return toClassInfo(v)
	})}, nil
}

// InviteMembers 仅owner可发送邀请, 邮件投递不阻塞响应
func (s *ClassService) InviteMembers(ctx context.Context, req *show.InviteClassReq) (*show.InviteClassResp, error) {
	meta := adaptor.ExtractUserMeta(ctx)
	if meta.GetUserId() == "" {
		return nil, consts.ErrNotAuthentication
	}

	c, err := s.ClassMapper.FindOneBySlug(ctx, req.Id)
	if err != nil {
		return nil, err
	}
	if c.Owner.Hex() != meta.GetUserId() {
		return nil, consts.ErrNotOwner
	}

	sender, err := s.UserMapper.FindOne(ctx, meta.GetUserId())
	if err != nil {
		log.CtxError(ctx, "find sender failed: %v", err)
		return nil, consts.ErrNotFound
	}

	inviteCode, err := s.TokenService.Issue(sender.Email, c.Slug, token.InviteTTL)
	if err != nil {
		log.CtxError(ctx, "issue invitation token failed: %v", err)
		return nil, consts.ErrSendInvitation
	}

	// 前端未传入口链接时回退到配置的加入页
	link := req.InviteLink
	if link == "" {
		link = s.Config.Api.FrontendBaseURL + s.Config.Api.ClassJoinURL + "?code="
	}
	html, err := mailer.RenderInvitation(&mailer.InvitationProps{
		Sender:     sender.Username,
		ClassID:    c.Cid,
		ClassName:  c.Name,
		Role:       req.Role,
		InviteLink: inviteCodePattern.ReplaceAllString(link, "?code="+inviteCode),
	})
	if err != nil {
		log.CtxError(ctx, "render invitation failed: %v", err)
		return nil, consts.ErrSendInvitation
	}

	// 发送记录尽力而为
	now := time.Now()
	for _, email := range req.Emails {
		if err := s.LogMapper.Insert(ctx, &invitation.Log{
			Inviter:   meta.GetUserId(),
			Invitee:   email,
			ClassSlug: c.Slug,
			Role:      req.Role,
			Timestamp: now,
		}); err != nil {
			log.CtxError(ctx, "insert invitation log failed: %v", err)
		}
	}

	s.EmailService.SendMessages(&mailer.Message{
		To:      req.Emails,
		Subject: "Class invitation",
		HTML:    html,
	})
	log.CtxInfo(ctx, "invitation dispatched, class=%s, recipients=%s", c.Slug, util.JSONF(req.Emails))

	return &show.InviteClassResp{}, nil
}

// ListInvitations 仅owner可查看邀请发送记录
func (s *ClassService) ListInvitations(ctx context.Context, req *show.ListInvitationsReq) (*show.ListInvitationsResp, error) {
	meta := adaptor.ExtractUserMeta(ctx)
	if meta.GetUserId() == "" {
		return nil, consts.ErrNotAuthentication
	}

	c, err := s.ClassMapper.FindOneBySlug(ctx, req.Id)
	if err != nil {
		return nil, err
	}
	if c.Owner.Hex() != meta.GetUserId() {
		return nil, consts.ErrNotOwner
	}

	logs, err := s.LogMapper.ListByClass(ctx, c.Slug)
	if err != nil {
		log.CtxError(ctx, "list invitations failed: %v", err)
		return nil, consts.ErrListInvitations
	}

	infos := make([]*show.InvitationInfo, 0, len(logs))
	for _, l := range logs {
		info := &show.InvitationInfo{
			Invitee: l.Invitee,
			Role:    l.Role,
			SentAt:  l.Timestamp.Unix(),
		}
		// 已注册的受邀人补充用户名
		if u, err := s.UserMapper.FindOneByEmail(ctx, l.Invitee); err == nil {
			info.Username = u.Username
		}
		infos = append(infos, info)
	}
	return &show.ListInvitationsResp{Invitations: infos}, nil
}

// JoinClass 校验邀请token后以lecturer身份加入班级
func (s *ClassService) JoinClass(ctx context.Context, req *show.JoinClassReq) (*show.JoinClassResp, error) {
	meta := adaptor.ExtractUserMeta(ctx)
	if meta.GetUserId() == "" {
		return nil, consts.ErrNotAuthentication
	}

	claims, err := s.TokenService.Verify(req.Code)
	if err != nil {
		return nil, err
	}
	// token换班级重放防护
	if claims.ClassID != req.ClassID {
		return nil, consts.ErrInvalidInvitation
	}

	joined, err := s.ClassMapper.IsOwnerOrLecturer(ctx, claims.ClassID, meta.GetUserId())
	if err != nil {
		log.CtxError(ctx, "membership check failed: %v", err)
		return nil, consts.ErrJoinClass
	}
	if joined {
		return nil, consts.ErrAlreadyMember
	}

	if err := s.ClassMapper.AppendLecturer(ctx, claims.ClassID, meta.GetUserId()); err != nil {
		return nil, err
	}

	c, err := s.ClassMapper.FindOneBySlug(ctx, claims.ClassID)
	if err != nil {
		return nil, err
	}

	// 加入者与owner的缓存视图都已过期
	if err := s.CacheMapper.Delete(ctx, c.Slug, meta.GetUserId()); err != nil {
		log.CtxError(ctx, "invalidate class cache failed: %v", err)
	}
	if err := s.CacheMapper.Delete(ctx, c.Slug, c.Owner.Hex()); err != nil {
		log.CtxError(ctx, "invalidate owner class cache failed: %v", err)
	}

	view, err := s.ClassMapper.FindViewBySlug(ctx, claims.ClassID, meta.GetUserId())
	if err != nil {
		log.CtxError(ctx, "load joined class failed: %v", err)
		return nil, consts.ErrJoinClass
	}

	s.Hub.Broadcast(c.Slug, consts.EventMemberJoined, map[string]string{
		"userId": meta.GetUserId(),
		"slug":   c.Slug,
	})

	return &show.JoinClassResp{Class: toClassInfo(view)}, nil
}

func toClassInfo(v *class.ClassView) *show.ClassInfo {
	info := &show.ClassInfo{
		Id:         v.ID.Hex(),
		Slug:       v.Slug,
		Cid:        v.Cid,
		Name:       v.Name,
		InviteCode: v.InviteCode,
		Banner:     v.Banner,
		Owner:      userInfo(v.Owner),
		Lecturers:  lo.Map(v.Lecturers, func(u user.User, _ int) *show.UserInfo { return userInfo(u) }),
		Students:   lo.Map(v.Students, func(u user.User, _ int) *show.UserInfo { return userInfo(u) }),
		CreateTime: v.CreateTime.Unix(),
	}
	return info
}

func userInfo(u user.User) *show.UserInfo {
	info := new(show.UserInfo)
	if err := copier.Copy(info, &u); err != nil {
		log.Error("copy user info failed: %v", err)
	}
	info.Id = u.ID.Hex()
	return info
}

// generateSlug 基于名称生成全局唯一的URL安全标识
func generateSlug(name string) string {
	base := strings.Trim(slugPattern.ReplaceAllString(strings.ToLower(name), "-"), "-")
	suffix := strings.SplitN(uuid.NewString(), "-", 2)[0]
	if base == "" {
		return suffix
	}
	return base + "-" + suffix
}

// generateInviteCode 生成展示用邀请码
func generateInviteCode() string {
	const charset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	code := make([]byte, 10)
	for i := range code {
		randomIndex, _ := rand.Int(rand.Reader, big.NewInt(int64(len(charset))))
		code[i] = charset[randomIndex.Int64()]
	}
	return string(code)
}
