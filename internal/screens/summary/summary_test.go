package summary

import (
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/gachadeck/internal/router"
	"github.com/abhisek/gachadeck/internal/session"
)

func testSummary() session.Summary {
	return session.Summary{
		Duration:     4*time.Minute + 5*time.Second,
		Answers:      8,
		Correct:      6,
		PointsGained: 640,
	}
}

func testState() *session.State {
	st := session.New()
	st.AwardKnown("nn")
	st.AwardKnown("cnn")
	return st
}

func TestSummaryScreen_Title(t *testing.T) {
	s := New(session.ModeQuiz, testSummary(), testState(), 10)
	if s.Title() != "Run Summary" {
		t.Errorf("Title = %q, want %q", s.Title(), "Run Summary")
	}
}

func TestSummaryScreen_Display(t *testing.T) {
	view := New(session.ModeQuiz, testSummary(), testState(), 10).View(80, 24)
	for _, want := range []string{"Quiz run complete!", "4:05", "75%", "+640 points", "Mastered 2/10"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestSummaryScreen_GachaLabel(t *testing.T) {
	view := New(session.ModeGacha, testSummary(), nil, 0).View(80, 24)
	if !strings.Contains(view, "Cards rated: 8") {
		t.Error("gacha summary should count rated cards")
	}
	if strings.Contains(view, "Mastered") {
		t.Error("no state means no mastered line")
	}
}

func TestSummaryScreen_Navigation(t *testing.T) {
	for _, k := range []tea.KeyPressMsg{
		{Code: tea.KeyEnter},
		{Code: tea.KeyEscape},
		{Code: 'q', Text: "q"},
	} {
		s := New(session.ModeGacha, testSummary(), testState(), 10)
		_, cmd := s.Update(k)
		if cmd == nil {
			t.Fatalf("%s: expected a command", k.String())
		}
		if _, ok := cmd().(router.PopScreenMsg); !ok {
			t.Errorf("%s: expected PopScreenMsg", k.String())
		}
	}
}

func TestSummaryScreen_IgnoresOtherKeys(t *testing.T) {
	s := New(session.ModeGacha, testSummary(), testState(), 10)
	if _, cmd := s.Update(tea.KeyPressMsg{Code: 'x', Text: "x"}); cmd != nil {
		t.Error("unexpected command for x")
	}
}
