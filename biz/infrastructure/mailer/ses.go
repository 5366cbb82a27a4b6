package mailer

import (
	"classhub/biz/infrastructure/config"
	"classhub/biz/infrastructure/consts"
	"classhub/biz/infrastructure/util/log"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/ses"
	"github.com/bytedance/gopkg/util/gopool"
)

type SESService struct {
	client *ses.SES
	sender string
}

func NewSESService(config *config.Config) *SESService {
	sess := session.Must(session.NewSession(aws.NewConfig().WithRegion(config.Mail.Region)))
	return &SESService{
		client: ses.New(sess),
		sender: config.Mail.Sender,
	}
}

// SendMessages 异步投递, 不阻塞调用方
func (s *SESService) SendMessages(messages ...*Message) {
	for _, msg := range messages {
		msg := msg
		gopool.Go(func() {
			input := &ses.SendEmailInput{
				Source: aws.String(s.sender),
				Destination: &ses.Destination{
					ToAddresses: aws.StringSlice(msg.To),
				},
				Message: &ses.Message{
					Subject: &ses.Content{
						Charset: aws.String(consts.CharSetUTF8),
						Data:    aws.String(msg.Subject),
					},
					Body: &ses.Body{
						Html: &ses.Content{
							Charset: aws.String(consts.CharSetUTF8),
							Data:    aws.String(msg.HTML),
						},
					},
				},
			}
			if _, err := s.client.SendEmail(input); err != nil {
				log.Error("send mail to %v failed: %v", msg.To, err)
			}
		})
	}
}
