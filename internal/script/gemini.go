package script

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cricketcast/cricketcast/internal/chart"
	"github.com/cricketcast/cricketcast/internal/match"
)

const geminiEndpoint = "https://generativelanguage.googleapis.com/v1beta/models/gemini-2.0-flash:generateContent"

// GeminiGenerator asks the Gemini API for commentary text, one request per
// segment type. Chart hints stay fixed; only the prose is generated.
type GeminiGenerator struct {
	apiKey string
	client *http.Client
}

func NewGeminiGenerator(apiKey string) *GeminiGenerator {
	return &GeminiGenerator{
		apiKey: apiKey,
		client: &http.Client{Timeout: 30 * time.Second},
	}
}

func (g *GeminiGenerator) Generate(ctx context.Context, snap *match.Snapshot) ([]Block, error) {
	segmentPlan := []struct {
		id      int
		segType string
		chart   chart.Kind
	}{
		{1, "summary", chart.KindRunRate},
		{2, "key_moment", chart.KindNone},
		{3, "statistics", chart.KindManhattan},
	}

	blocks := make([]Block, 0, len(segmentPlan))
	for _, seg := range segmentPlan {
		text, err := g.generateText(ctx, snap, seg.segType)
		if err != nil {
			return nil, fmt.Errorf("script segment %d (%s): %w", seg.id, seg.segType, err)
		}
		blocks = append(blocks, Block{
			ID:    seg.id,
			Type:  seg.segType,
			Text:  text,
			Chart: seg.chart,
			Fade:  true,
		})
	}
	return blocks, nil
}

func (g *GeminiGenerator) generateText(ctx context.Context, snap *match.Snapshot, segType string) (string, error) {
	payload := map[string]any{
		"contents": []map[string]any{
			{"parts": []map[string]string{{"text": buildPrompt(snap, segType)}}},
		},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		geminiEndpoint+"?key="+g.apiKey, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("gemini status %d: %s", resp.StatusCode, truncate(string(raw), 200))
	}

	var parsed struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
	}
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", err
	}
	if len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("gemini returned no candidates")
	}
	return parsed.Candidates[0].Content.Parts[0].Text, nil
}

func buildPrompt(snap *match.Snapshot, segType string) string {
	base := fmt.Sprintf(
		"You are an expert cricket commentator. Match: %s vs %s. Score: %d/%d in %.1f overs. "+
			"Current run rate %.2f, required %.2f. ",
		snap.Teams.Batting, snap.Teams.Bowling,
		snap.Score.Runs, snap.Score.Wickets, snap.Score.Overs,
		snap.RunRate.Current, snap.RunRate.Required)

	switch segType {
	case "key_moment":
		return base + fmt.Sprintf(
			"Generate exciting 15-20 second commentary for this key moment: %s. "+
				"Make it dramatic and capture the excitement.", latestMoment(snap))
	case "statistics":
		stats := ""
		if len(snap.Partnerships) > 0 {
			p := snap.Partnerships[len(snap.Partnerships)-1]
			stats = fmt.Sprintf("Current partnership: %d runs. ", p.Runs)
		}
		return base + stats +
			"Generate a 15-20 second statistical analysis of the recent overs and run rates. " +
			"Keep it informative but engaging."
	default: // summary
		return base +
			"Generate a 15-20 second engaging summary of the match situation, " +
			"including the score and what is at stake, as if speaking to viewers."
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
