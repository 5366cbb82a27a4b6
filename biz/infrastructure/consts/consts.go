package consts

// 数据库相关
const (
	ID         = "_id"
	Slug       = "slug"
	Owner      = "owner"
	Lecturers  = "lecturers"
	Students   = "students"
	CreateTime = "create_time"
	UpdateTime = "update_time"
	NotEqual   = "$ne"
)

// 角色
const (
	RoleOwner    = "owner"
	RoleLecturer = "lecturer"
	RoleStudent  = "student"
)

// http
const (
	ContentTypeJson = "application/json"
	CharSetUTF8     = "UTF-8"
)

// 实时事件
const (
	EventMemberJoined = "member:joined"
)
