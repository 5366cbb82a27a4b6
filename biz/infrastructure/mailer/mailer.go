package mailer

import (
	"bytes"
	_ "embed"
	"html/template"

	"classhub/biz/infrastructure/config"
)

//go:embed invitation.gohtml
var invitationHTML string

var invitationTmpl = template.Must(template.New("invitation").Parse(invitationHTML))

type Message struct {
	To      []string
	Subject string
	HTML    string
}

// EmailService 发送邮件, 投递失败只记录日志不回传
type EmailService interface {
	SendMessages(messages ...*Message)
}

func NewEmailService(config *config.Config) EmailService {
	if config.Mail.Console || config.Mail.Region == "" {
		return NewConsoleService()
	}
	return NewSESService(config)
}

// InvitationProps 邀请邮件模板参数
type InvitationProps struct {
	Sender     string
	ClassID    string
	ClassName  string
	Role       string
	InviteLink string
}

func RenderInvitation(props *InvitationProps) (string, error) {
	var buff bytes.Buffer
	if err := invitationTmpl.Execute(&buff, props); err != nil {
		return "", err
	}
	return buff.String(), nil
}
