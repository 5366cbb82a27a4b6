package basic

// UserMeta 认证层注入的用户信息
type UserMeta struct {
	UserId   string `json:"userId" mapstructure:"userId"`
	Email    string `json:"email" mapstructure:"email"`
	Username string `json:"username" mapstructure:"username"`
}

func (m *UserMeta) GetUserId() string {
	if m == nil {
		return ""
	}
	return m.UserId
}

func (m *UserMeta) GetEmail() string {
	if m == nil {
		return ""
	}
	return m.Email
}

func (m *UserMeta) GetUsername() string {
	if m == nil {
		return ""
	}
	return m.Username
}

// Response 统一响应格式 {status, message, data}
type Response struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

func Success(message string, data any) *Response {
	return &Response{
		Status:  "success",
		Message: message,
		Data:    data,
	}
}

func Fail(message string) *Response {
	return &Response{
		Status:  "fail",
		Message: message,
	}
}
