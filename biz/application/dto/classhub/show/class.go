package show

type UserInfo struct {
	Id       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Avatar   string `json:"avatar,omitempty"`
}

type ClassInfo struct {
	Id         string      `json:"id"`
	Slug       string      `json:"slug"`
	Cid        string      `json:"cid"`
	Name       string      `json:"name"`
	InviteCode string      `json:"inviteCode"`
	Banner     string      `json:"banner,omitempty"`
	Owner      *UserInfo   `json:"owner"`
	Lecturers  []*UserInfo `json:"lecturers"`
	Students   []*UserInfo `json:"students"`
	CreateTime int64       `json:"createTime"`
}

type CreateClassReq struct {
	Name   string `json:"name,required"`
	Cid    string `json:"cid,required"`
	Banner string `json:"banner"`
}

type CreateClassResp struct {
	Class *ClassInfo `json:"class"`
}

type GetClassReq struct {
	Id string `path:"id" json:"id"`
}

type GetClassResp struct {
	Class *ClassInfo `json:"class"`
}

type ListClassesReq struct {
}

type ListClassesResp struct {
	Classes []*ClassInfo `json:"classes"`
}

type InviteClassReq struct {
	Id         string   `path:"id" json:"id"`
	Emails     []string `json:"emails,required"`
	Role       string   `json:"role,required"`
	InviteLink string   `json:"inviteLink"`
}

type InviteClassResp struct {
}

type InvitationInfo struct {
	Invitee  string `json:"invitee"`
	Username string `json:"username,omitempty"`
	Role     string `json:"role"`
	SentAt   int64  `json:"sentAt"`
}

type ListInvitationsReq struct {
	Id string `path:"id" json:"id"`
}

type ListInvitationsResp struct {
	Invitations []*InvitationInfo `json:"invitations"`
}

type JoinClassReq struct {
	Id      string `path:"id" json:"id"`
	Code    string `json:"code,required"`
	ClassID string `json:"classID,required"`
}

type JoinClassResp struct {
	Class *ClassInfo `json:"class"`
}

type SubscribeReq struct {
}
