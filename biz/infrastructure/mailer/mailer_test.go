package mailer

import (
	"strings"
	"testing"
)

func TestRenderInvitation(t *testing.T) {
	html, err := RenderInvitation(&InvitationProps{
		Sender:     "Alice",
		ClassID:    "CS101",
		ClassName:  "Intro to CS",
		Role:       "student",
		InviteLink: "https://app.example.com/join?code=abc.def.ghi",
	})
	if err != nil {
		t.Fatalf("RenderInvitation() error = %v", err)
	}

	for _, want := range []string{"Alice", "CS101", "Intro to CS", "student", "https://app.example.com/join?code=abc.def.ghi"} {
		if !strings.Contains(html, want) {
			t.Errorf("rendered invitation missing %q", want)
		}
	}
}
