package token

import (
	"errors"
	"testing"
	"time"

	"classhub/biz/infrastructure/config"
	"classhub/biz/infrastructure/consts"
)

func newTestService(secret string) *Service {
	return NewService(&config.Config{
		Auth: config.Auth{InviteSecret: secret},
	})
}

func TestIssueAndVerify(t *testing.T) {
	svc := newTestService("test-secret")

	tok, err := svc.Issue("owner@x.com", "cs101-x7z", time.Minute)
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	claims, err := svc.Verify(tok)
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}
	if claims.Email != "owner@x.com" {
		t.Errorf("claims.Email = %v, want owner@x.com", claims.Email)
	}
	if claims.ClassID != "cs101-x7z" {
		t.Errorf("claims.ClassID = %v, want cs101-x7z", claims.ClassID)
	}
}

func TestVerifyRejections(t *testing.T) {
	svc := newTestService("test-secret")
	other := newTestService("another-secret")

	expired, err := svc.Issue("owner@x.com", "cs101-x7z", -time.Minute)
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}
	tampered, err := other.Issue("owner@x.com", "cs101-x7z", time.Minute)
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	tests := []struct {
		name    string
		token   string
		wantErr error
	}{
		{name: "no token", token: "", wantErr: consts.ErrTokenMalformed},
		{name: "garbage token", token: "lmaooolol", wantErr: consts.ErrTokenMalformed},
		{name: "expired token", token: expired, wantErr: consts.ErrTokenExpired},
		{name: "wrong secret", token: tampered, wantErr: consts.ErrBadSignature},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.Verify(tt.token); !errors.Is(err, tt.wantErr) {
				t.Errorf("Verify() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestVerifyHonorsNowFunc(t *testing.T) {
	svc := newTestService("test-secret")

	NowFunc = func() time.Time { return time.Now().Add(-2 * InviteTTL) }
	tok, err := svc.Issue("owner@x.com", "cs101-x7z", InviteTTL)
	NowFunc = time.Now
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	if _, err := svc.Verify(tok); !errors.Is(err, consts.ErrTokenExpired) {
		t.Errorf("Verify() error = %v, want %v", err, consts.ErrTokenExpired)
	}
}
