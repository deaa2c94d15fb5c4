package script

import (
	"strings"
	"testing"

	"github.com/cricketcast/cricketcast/internal/match"
)

func TestBuildPrompt(t *testing.T) {
	snap := match.Demo()

	for _, segType := range []string{"summary", "key_moment", "statistics"} {
		prompt := buildPrompt(snap, segType)
		if !strings.Contains(prompt, snap.Teams.Batting) || !strings.Contains(prompt, snap.Teams.Bowling) {
			t.Errorf("%s prompt should name both teams", segType)
		}
		if !strings.Contains(prompt, "176/4") {
			t.Errorf("%s prompt should carry the score", segType)
		}
	}

	moment := snap.KeyMoments[len(snap.KeyMoments)-1].Description
	if !strings.Contains(buildPrompt(snap, "key_moment"), moment) {
		t.Error("key_moment prompt should quote the latest moment")
	}
	if !strings.Contains(buildPrompt(snap, "statistics"), "partnership") {
		t.Error("statistics prompt should mention the partnership")
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 10); got != "short" {
		t.Errorf("Expected untouched string, got %q", got)
	}
	if got := truncate("a long response body", 6); got != "a long..." {
		t.Errorf("Expected truncated string, got %q", got)
	}
}
