package mailer

import (
	"classhub/biz/infrastructure/util/log"
)

// ConsoleService 本地开发用, 邮件只打印日志
type ConsoleService struct{}

func NewConsoleService() *ConsoleService {
	return &ConsoleService{}
}

func (s *ConsoleService) SendMessages(messages ...*Message) {
	for _, msg := range messages {
		log.Info("mail to=%v subject=%q body=%d bytes", msg.To, msg.Subject, len(msg.HTML))
	}
}
