package token

import (
	"errors"
	"time"

	"classhub/biz/infrastructure/config"
	"classhub/biz/infrastructure/consts"

	"github.com/golang-jwt/jwt/v4"
)

// InviteTTL 邀请链接有效期 (10 * 60 * 60 * 1000 秒)
const InviteTTL = 10 * 60 * 60 * 1000 * time.Second

// NowFunc mockable
var NowFunc = time.Now

// InviteClaims 邀请token负载: 发起人邮箱 + 班级slug
type InviteClaims struct {
	Email   string `json:"email"`
	ClassID string `json:"classID"`
	jwt.RegisteredClaims
}

type Service struct {
	secret []byte
}

func NewService(config *config.Config) *Service {
	return &Service{
		secret: []byte(config.Auth.InviteSecret),
	}
}

func (s *Service) Issue(email, classID string, ttl time.Duration) (string, error) {
	now := NowFunc()
	claims := InviteClaims{
		Email:   email,
		ClassID: classID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// Verify 校验失败时关闭式拒绝, 只返回类型化错误
func (s *Service) Verify(tokenString string) (*InviteClaims, error) {
	claims := new(InviteClaims)
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, consts.ErrTokenMalformed
		}
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		var vErr *jwt.ValidationError
		if errors.As(err, &vErr) {
			switch {
			case vErr.Errors&jwt.ValidationErrorExpired != 0:
				return nil, consts.ErrTokenExpired
			case vErr.Errors&jwt.ValidationErrorSignatureInvalid != 0:
				return nil, consts.ErrBadSignature
			default:
				return nil, consts.ErrTokenMalformed
			}
		}
		return nil, consts.ErrTokenMalformed
	}
	if !token.Valid {
		return nil, consts.ErrTokenMalformed
	}
	return claims, nil
}
