package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"testing"
	"time"

	"classhub/biz/adaptor"
	"classhub/biz/application/dto/basic"
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

	"github.com/samber/lo"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type fakeClassMapper struct {
	classes       map[string]*class.Class
	users         map[string]*user.User
	findByStudent error
}

func (f *fakeClassMapper) Insert(_ context.Context, c *class.Class) error {
	if c.ID.IsZero() {
		c.ID = primitive.NewObjectID()
		c.CreateTime = time.Now()
		c.UpdateTime = c.CreateTime
	}
	if c.Lecturers == nil {
		c.Lecturers = []primitive.ObjectID{}
	}
	if c.Students == nil {
		c.Students = []primitive.ObjectID{}
	}
	f.classes[c.Slug] = c
	return nil
}

func (f *fakeClassMapper) FindOneBySlug(_ context.Context, slug string) (*class.Class, error) {
	c, ok := f.classes[slug]
	if !ok {
		return nil, consts.ErrClassNotFound
	}
	return c, nil
}

func (f *fakeClassMapper) view(c *class.Class) *class.ClassView {
	resolve := func(ids []primitive.ObjectID) []user.User {
		return lo.Map(ids, func(id primitive.ObjectID, _ int) user.User { return *f.users[id.Hex()] })
	}
	return &class.ClassView{
		ID:         c.ID,
		Name:       c.Name,
		Cid:        c.Cid,
		Slug:       c.Slug,
		InviteCode: c.InviteCode,
		Owner:      *f.users[c.Owner.Hex()],
		Lecturers:  resolve(c.Lecturers),
		Students:   resolve(c.Students),
		CreateTime: c.CreateTime,
	}
}

func (f *fakeClassMapper) isOwnerOrLecturer(c *class.Class, viewerID string) bool {
	if c.Owner.Hex() == viewerID {
		return true
	}
	return lo.ContainsBy(c.Lecturers, func(id primitive.ObjectID) bool { return id.Hex() == viewerID })
}

func (f *fakeClassMapper) FindViewBySlug(_ context.Context, slug, viewerID string) (*class.ClassView, error) {
	c, ok := f.classes[slug]
	if !ok || !f.isOwnerOrLecturer(c, viewerID) {
		return nil, consts.ErrClassNotFound
	}
	return f.view(c), nil
}

func (f *fakeClassMapper) FindViewsByMember(_ context.Context, viewerID string) ([]*class.ClassView, error) {
	var views []*class.ClassView
	for _, c := range f.classes {
		if f.isOwnerOrLecturer(c, viewerID) {
			views = append(views, f.view(c))
		}
	}
	return views, nil
}

func (f *fakeClassMapper) FindByStudent(_ context.Context, userID string) ([]*class.Class, error) {
	if f.findByStudent != nil {
		return nil, f.findByStudent
	}
	var classes []*class.Class
	for _, c := range f.classes {
		if lo.ContainsBy(c.Students, func(id primitive.ObjectID) bool { return id.Hex() == userID }) {
			classes = append(classes, c)
		}
	}
	return classes, nil
}

func (f *fakeClassMapper) IsOwnerOrLecturer(_ context.Context, slug, userID string) (bool, error) {
	c, ok := f.classes[slug]
	if !ok {
		return false, nil
	}
	return f.isOwnerOrLecturer(c, userID), nil
}

func (f *fakeClassMapper) AppendLecturer(_ context.Context, slug, userID string) error {
	c, ok := f.classes[slug]
	if !ok {
		return consts.ErrClassNotFound
	}
	uid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return consts.ErrInvalidObjectId
	}
	if f.isOwnerOrLecturer(c, userID) {
		return consts.ErrAlreadyMember
	}
	c.Lecturers = append(c.Lecturers, uid)
	return nil
}

type fakeUserMapper struct {
	users map[string]*user.User
}

func (f *fakeUserMapper) FindOne(_ context.Context, id string) (*user.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, consts.ErrNotFound
	}
	return u, nil
}

func (f *fakeUserMapper) FindOneByEmail(_ context.Context, email string) (*user.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, consts.ErrNotFound
}

type fakeLogMapper struct {
	logs []*invitation.Log
}

func (f *fakeLogMapper) Insert(_ context.Context, l *invitation.Log) error {
	f.logs = append(f.logs, l)
	return nil
}

func (f *fakeLogMapper) ListByClass(_ context.Context, classSlug string) ([]*invitation.Log, error) {
	return lo.Filter(f.logs, func(l *invitation.Log, _ int) bool { return l.ClassSlug == classSlug }), nil
}

type fakeClassCache struct {
	views map[string]*class.ClassView
	lists map[string][]*class.ClassView
}

func newFakeClassCache() *fakeClassCache {
	return &fakeClassCache{
		views: make(map[string]*class.ClassView),
		lists: make(map[string][]*class.ClassView),
	}
}

func (f *fakeClassCache) GetView(_ context.Context, slug, ownerID string) (*class.ClassView, error) {
	v, ok := f.views[cache.Key(slug, ownerID)]
	if !ok {
		return nil, fmt.Errorf("cache miss")
	}
	return v, nil
}

func (f *fakeClassCache) SetView(_ context.Context, slug, ownerID string, view *class.ClassView) error {
	f.views[cache.Key(slug, ownerID)] = view
	return nil
}

func (f *fakeClassCache) GetViews(_ context.Context, ownerID string) ([]*class.ClassView, error) {
	v, ok := f.lists[cache.Key("", ownerID)]
	if !ok {
		return nil, fmt.Errorf("cache miss")
	}
	return v, nil
}

func (f *fakeClassCache) SetViews(_ context.Context, ownerID string, views []*class.ClassView) error {
	f.lists[cache.Key("", ownerID)] = views
	return nil
}

func (f *fakeClassCache) Delete(_ context.Context, slug, ownerID string) error {
	delete(f.lists, cache.Key("", ownerID))
	if slug != "" {
		delete(f.views, cache.Key(slug, ownerID))
	}
	return nil
}

type fakeMailer struct {
	messages []*mailer.Message
}

func (f *fakeMailer) SendMessages(messages ...*mailer.Message) {
	f.messages = append(f.messages, messages...)
}

type classFixture struct {
	svc     *ClassService
	mapper  *fakeClassMapper
	cache   *fakeClassCache
	mail    *fakeMailer
	logs    *fakeLogMapper
	owner   *user.User
	student *user.User
}

func newClassFixture(t *testing.T) *classFixture {
	t.Helper()

	owner := &user.User{ID: primitive.NewObjectID(), Username: "Alice", Email: "owner@x.com"}
	student := &user.User{ID: primitive.NewObjectID(), Username: "Bob", Email: "student@x.com"}
	users := map[string]*user.User{
		owner.ID.Hex():   owner,
		student.ID.Hex(): student,
	}

	mapper := &fakeClassMapper{classes: make(map[string]*class.Class), users: users}
	mapper.classes["cs101-x7z"] = &class.Class{
		ID:         primitive.NewObjectID(),
		Name:       "Intro to CS",
		Cid:        "CS101",
		Slug:       "cs101-x7z",
		InviteCode: "ABCDEFGH12",
		Owner:      owner.ID,
		Lecturers:  []primitive.ObjectID{},
		Students:   []primitive.ObjectID{},
		CreateTime: time.Now(),
	}

	cc := newFakeClassCache()
	fm := &fakeMailer{}
	logs := &fakeLogMapper{}

	cfg := &config.Config{
		Auth: config.Auth{InviteSecret: "test-secret"},
		Api:  config.API{FrontendBaseURL: "http://localhost:3000", ClassJoinURL: "/classes/join"},
	}
	svc := &ClassService{
		Config:       cfg,
		ClassMapper:  mapper,
		UserMapper:   &fakeUserMapper{users: users},
		LogMapper:    logs,
		CacheMapper:  cc,
		TokenService: token.NewService(cfg),
		EmailService: fm,
		Hub:          realtime.NewHub(),
	}

	return &classFixture{svc: svc, mapper: mapper, cache: cc, mail: fm, logs: logs, owner: owner, student: student}
}

func metaCtx(u *user.User) context.Context {
	return adaptor.WithUserMeta(context.Background(), &basic.UserMeta{
		UserId:   u.ID.Hex(),
		Email:    u.Email,
		Username: u.Username,
	})
}

var codePattern = regexp.MustCompile(`\?code=([A-Za-z0-9._-]+)`)

func (fx *classFixture) invite(t *testing.T, slug, role string) string {
	t.Helper()
	_, err := fx.svc.InviteMembers(metaCtx(fx.owner), &show.InviteClassReq{
		Id:         slug,
		Emails:     []string{fx.student.Email},
		Role:       role,
		InviteLink: "http://localhost:3000/classes/join?code=abcdefg",
	})
	if err != nil {
		t.Fatalf("InviteMembers() error = %v", err)
	}
	if len(fx.mail.messages) == 0 {
		t.Fatal("InviteMembers() sent no mail")
	}
	match := codePattern.FindStringSubmatch(fx.mail.messages[len(fx.mail.messages)-1].HTML)
	if match == nil {
		t.Fatal("invitation mail carries no code")
	}
	return match[1]
}

func TestInviteAndJoinAddsLecturerOnce(t *testing.T) {
	fx := newClassFixture(t)

	code := fx.invite(t, "cs101-x7z", "student")

	resp, err := fx.svc.JoinClass(metaCtx(fx.student), &show.JoinClassReq{
		Id:      "cs101-x7z",
		Code:    code,
		ClassID: "cs101-x7z",
	})
	if err != nil {
		t.Fatalf("JoinClass() error = %v", err)
	}

	// 邀请时的role不影响加入结果: 始终以lecturer身份入班
	if got := len(resp.Class.Lecturers); got != 1 {
		t.Fatalf("len(Lecturers) = %d, want 1", got)
	}
	if resp.Class.Lecturers[0].Id != fx.student.ID.Hex() {
		t.Errorf("Lecturers[0].Id = %v, want %v", resp.Class.Lecturers[0].Id, fx.student.ID.Hex())
	}
	if got := len(resp.Class.Students); got != 0 {
		t.Errorf("len(Students) = %d, want 0", got)
	}

	c := fx.mapper.classes["cs101-x7z"]
	if got := len(c.Lecturers); got != 1 {
		t.Errorf("stored lecturers = %d, want 1", got)
	}
}

func TestJoinReplayFailsAlreadyMember(t *testing.T) {
	fx := newClassFixture(t)

	code := fx.invite(t, "cs101-x7z", "lecturer")
	req := &show.JoinClassReq{Id: "cs101-x7z", Code: code, ClassID: "cs101-x7z"}

	if _, err := fx.svc.JoinClass(metaCtx(fx.student), req); err != nil {
		t.Fatalf("first JoinClass() error = %v", err)
	}
	if _, err := fx.svc.JoinClass(metaCtx(fx.student), req); !errors.Is(err, consts.ErrAlreadyMember) {
		t.Errorf("second JoinClass() error = %v, want %v", err, consts.ErrAlreadyMember)
	}

	if got := len(fx.mapper.classes["cs101-x7z"].Lecturers); got != 1 {
		t.Errorf("stored lecturers = %d, want 1", got)
	}
}

func TestJoinRejectsTokenForAnotherClass(t *testing.T) {
	fx := newClassFixture(t)
	fx.mapper.classes["ml201-a2b"] = &class.Class{
		ID:        primitive.NewObjectID(),
		Name:      "Machine Learning",
		Cid:       "ML201",
		Slug:      "ml201-a2b",
		Owner:     fx.owner.ID,
		Lecturers: []primitive.ObjectID{},
		Students:  []primitive.ObjectID{},
	}

	code := fx.invite(t, "cs101-x7z", "lecturer")

	_, err := fx.svc.JoinClass(metaCtx(fx.student), &show.JoinClassReq{
		Id:      "ml201-a2b",
		Code:    code,
		ClassID: "ml201-a2b",
	})
	if !errors.Is(err, consts.ErrInvalidInvitation) {
		t.Errorf("JoinClass() error = %v, want %v", err, consts.ErrInvalidInvitation)
	}
}

func TestJoinRejectsExpiredToken(t *testing.T) {
	fx := newClassFixture(t)

	code, err := fx.svc.TokenService.Issue(fx.owner.Email, "cs101-x7z", -time.Minute)
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	_, err = fx.svc.JoinClass(metaCtx(fx.student), &show.JoinClassReq{
		Id:      "cs101-x7z",
		Code:    code,
		ClassID: "cs101-x7z",
	})
	if !errors.Is(err, consts.ErrTokenExpired) {
		t.Errorf("JoinClass() error = %v, want %v", err, consts.ErrTokenExpired)
	}
}

func TestInviteRequiresOwner(t *testing.T) {
	fx := newClassFixture(t)

	_, err := fx.svc.InviteMembers(metaCtx(fx.student), &show.InviteClassReq{
		Id:         "cs101-x7z",
		Emails:     []string{"someone@x.com"},
		Role:       "lecturer",
		InviteLink: "http://localhost:3000/classes/join?code=abcdefg",
	})
	if !errors.Is(err, consts.ErrNotOwner) {
		t.Errorf("InviteMembers() error = %v, want %v", err, consts.ErrNotOwner)
	}
	if len(fx.mail.messages) != 0 {
		t.Errorf("mail sent despite guard failure")
	}
}

func TestInviteWritesAuditLog(t *testing.T) {
	fx := newClassFixture(t)

	fx.invite(t, "cs101-x7z", "student")

	if got := len(fx.logs.logs); got != 1 {
		t.Fatalf("audit rows = %d, want 1", got)
	}
	l := fx.logs.logs[0]
	if l.Invitee != fx.student.Email || l.ClassSlug != "cs101-x7z" || l.Role != "student" {
		t.Errorf("audit row = %+v", l)
	}
}

func TestInviteFallsBackToConfiguredJoinLink(t *testing.T) {
	fx := newClassFixture(t)

	_, err := fx.svc.InviteMembers(metaCtx(fx.owner), &show.InviteClassReq{
		Id:     "cs101-x7z",
		Emails: []string{fx.student.Email},
		Role:   "lecturer",
	})
	if err != nil {
		t.Fatalf("InviteMembers() error = %v", err)
	}
	if len(fx.mail.messages) != 1 {
		t.Fatalf("sent mails = %d, want 1", len(fx.mail.messages))
	}
	if !strings.Contains(fx.mail.messages[0].HTML, "http://localhost:3000/classes/join?code=") {
		t.Error("invitation mail does not use the configured join link")
	}
	if codePattern.FindStringSubmatch(fx.mail.messages[0].HTML) == nil {
		t.Error("fallback link carries no code")
	}
}

func TestListInvitationsResolvesRegisteredInvitees(t *testing.T) {
	fx := newClassFixture(t)

	_, err := fx.svc.InviteMembers(metaCtx(fx.owner), &show.InviteClassReq{
		Id:         "cs101-x7z",
		Emails:     []string{fx.student.Email, "stranger@x.com"},
		Role:       "student",
		InviteLink: "http://localhost:3000/classes/join?code=abcdefg",
	})
	if err != nil {
		t.Fatalf("InviteMembers() error = %v", err)
	}

	resp, err := fx.svc.ListInvitations(metaCtx(fx.owner), &show.ListInvitationsReq{Id: "cs101-x7z"})
	if err != nil {
		t.Fatalf("ListInvitations() error = %v", err)
	}
	if got := len(resp.Invitations); got != 2 {
		t.Fatalf("len(Invitations) = %d, want 2", got)
	}

	byInvitee := map[string]*show.InvitationInfo{}
	for _, inv := range resp.Invitations {
		byInvitee[inv.Invitee] = inv
	}
	if got := byInvitee[fx.student.Email].Username; got != fx.student.Username {
		t.Errorf("registered invitee username = %q, want %q", got, fx.student.Username)
	}
	if got := byInvitee["stranger@x.com"].Username; got != "" {
		t.Errorf("unregistered invitee username = %q, want empty", got)
	}

	if _, err := fx.svc.ListInvitations(metaCtx(fx.student), &show.ListInvitationsReq{Id: "cs101-x7z"}); !errors.Is(err, consts.ErrNotOwner) {
		t.Errorf("non-owner ListInvitations() error = %v, want %v", err, consts.ErrNotOwner)
	}
}

func TestJoinInvalidatesCachedViews(t *testing.T) {
	fx := newClassFixture(t)

	// owner先读一次, 填充缓存
	if _, err := fx.svc.GetClass(metaCtx(fx.owner), &show.GetClassReq{Id: "cs101-x7z"}); err != nil {
		t.Fatalf("GetClass() error = %v", err)
	}
	if _, err := fx.cache.GetView(context.Background(), "cs101-x7z", fx.owner.ID.Hex()); err != nil {
		t.Fatalf("cache not primed: %v", err)
	}

	code := fx.invite(t, "cs101-x7z", "lecturer")
	if _, err := fx.svc.JoinClass(metaCtx(fx.student), &show.JoinClassReq{
		Id: "cs101-x7z", Code: code, ClassID: "cs101-x7z",
	}); err != nil {
		t.Fatalf("JoinClass() error = %v", err)
	}

	if _, err := fx.cache.GetView(context.Background(), "cs101-x7z", fx.owner.ID.Hex()); err == nil {
		t.Error("owner view still cached after join")
	}

	resp, err := fx.svc.GetClass(metaCtx(fx.owner), &show.GetClassReq{Id: "cs101-x7z"})
	if err != nil {
		t.Fatalf("GetClass() error = %v", err)
	}
	if got := len(resp.Class.Lecturers); got != 1 {
		t.Errorf("owner view lecturers = %d, want 1", got)
	}
}

func TestCreateClassGeneratesSlugAndInvalidatesList(t *testing.T) {
	fx := newClassFixture(t)
	fx.cache.lists[cache.Key("", fx.owner.ID.Hex())] = []*class.ClassView{}

	resp, err := fx.svc.CreateClass(metaCtx(fx.owner), &show.CreateClassReq{
		Name: "Operating Systems",
		Cid:  "OS301",
	})
	if err != nil {
		t.Fatalf("CreateClass() error = %v", err)
	}
	if resp.Class.Slug == "" {
		t.Fatal("created class has empty slug")
	}
	if resp.Class.Owner.Id != fx.owner.ID.Hex() {
		t.Errorf("Owner.Id = %v, want %v", resp.Class.Owner.Id, fx.owner.ID.Hex())
	}
	if _, ok := fx.cache.lists[cache.Key("", fx.owner.ID.Hex())]; ok {
		t.Error("class list cache not invalidated on create")
	}
}

func TestGenerateSlugIsURLSafe(t *testing.T) {
	slug := generateSlug("Intro to CS: Fall '26!")
	if matched := regexp.MustCompile(`^[a-z0-9-]+$`).MatchString(slug); !matched {
		t.Errorf("generateSlug() = %q, not url-safe", slug)
	}
	if slug == generateSlug("Intro to CS: Fall '26!") {
		t.Error("generateSlug() not unique across calls")
	}
}
