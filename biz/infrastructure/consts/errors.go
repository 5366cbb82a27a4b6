package consts

import (
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type Errno struct {
	err  error
	code codes.Code
}

func (en *Errno) GRPCStatus() *status.Status {
	return status.New(en.code, en.err.Error())
}

func (en *Errno) Error() string {
	return en.err.Error()
}

func (en *Errno) Code() codes.Code {
	return en.code
}

// NewErrno 创建自定义错误
func NewErrno(code codes.Code, err error) *Errno {
	return &Errno{
		err:  err,
		code: code,
	}
}

// 业务错误
var (
	ErrForbidden         = NewErrno(codes.PermissionDenied, errors.New("forbidden"))
	ErrNotAuthentication = NewErrno(codes.Unauthenticated, errors.New("not authentication"))
	ErrNotOwner          = NewErrno(codes.PermissionDenied, errors.New("only the class owner can send invitations"))
	ErrAlreadyMember     = NewErrno(codes.AlreadyExists, errors.New("you have joined this class"))
	ErrInvalidInvitation = NewErrno(codes.InvalidArgument, errors.New("invalid invitation code"))
	ErrTokenExpired      = NewErrno(codes.InvalidArgument, errors.New("invitation code has expired"))
	ErrTokenMalformed    = NewErrno(codes.InvalidArgument, errors.New("malformed invitation code"))
	ErrBadSignature      = NewErrno(codes.InvalidArgument, errors.New("invitation code signature mismatch"))
	ErrClassNotFound     = NewErrno(codes.NotFound, errors.New("no class found with that ID"))
	ErrCreateClass       = NewErrno(codes.Code(1015), errors.New("create class failed"))
	ErrGetClassList      = NewErrno(codes.Code(1016), errors.New("get class list failed"))
	ErrJoinClass         = NewErrno(codes.Code(1017), errors.New("join class failed"))
	ErrSendInvitation    = NewErrno(codes.Code(1018), errors.New("send invitation failed"))
	ErrListInvitations   = NewErrno(codes.Code(1019), errors.New("get invitation list failed"))
)

// ErrInvalidParams 调用时错误
var (
	ErrInvalidParams = NewErrno(codes.InvalidArgument, errors.New("invalid params"))
)

// 数据库相关错误
var (
	ErrNotFound        = NewErrno(codes.NotFound, errors.New("not found"))
	ErrInvalidObjectId = NewErrno(codes.InvalidArgument, errors.New("invalid object id"))
	ErrUpdate          = NewErrno(codes.Code(2001), errors.New("update failed"))
)
