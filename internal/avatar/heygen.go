package avatar

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/cricketcast/cricketcast/internal/asset"
	"github.com/cricketcast/cricketcast/internal/script"
)

const (
	heygenCreateURL = "https://api.heygen.com/v2/video/generate"
	heygenStatusURL = "https://api.heygen.com/v1/video_status.get"

	heygenAvatarID = "Thaddeus_Black_Suit_public"
	heygenVoiceID  = "2b5a8ab8a0a74166a031d6eda4321600"
)

// HeyGenProvider drives the HeyGen video API: create a generation job,
// poll until it completes, download the clip.
type HeyGenProvider struct {
	apiKey   string
	client   *http.Client
	pollWait time.Duration
}

func NewHeyGenProvider(apiKey string) *HeyGenProvider {
	return &HeyGenProvider{
		apiKey:   apiKey,
		client:   &http.Client{Timeout: 60 * time.Second},
		pollWait: 5 * time.Second,
	}
}

func (p *HeyGenProvider) Synthesize(ctx context.Context, text string, outPath string) (asset.Rendered, error) {
	videoID, err := p.createVideo(ctx, text)
	if err != nil {
		return asset.Rendered{}, fmt.Errorf("heygen create: %w", err)
	}

	videoURL, err := p.waitForVideo(ctx, videoID)
	if err != nil {
		return asset.Rendered{}, fmt.Errorf("heygen video %s: %w", videoID, err)
	}

	if err := downloadFile(ctx, p.client, videoURL, outPath); err != nil {
		return asset.Rendered{}, fmt.Errorf("heygen download: %w", err)
	}

	return asset.Rendered{
		Path:     outPath,
		Kind:     asset.KindAvatar,
		Duration: script.EstimateDuration(text),
		Width:    1280,
		Height:   720,
	}, nil
}

func (p *HeyGenProvider) createVideo(ctx context.Context, text string) (string, error) {
	payload := map[string]any{
		"video_inputs": []map[string]any{{
			"character": map[string]string{
				"type":      "avatar",
				"avatar_id": heygenAvatarID,
			},
			"voice": map[string]string{
				"type":       "text",
				"input_text": text,
				"voice_id":   heygenVoiceID,
			},
		}},
		"dimension": map[string]int{"width": 1280, "height": 720},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, heygenCreateURL, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("x-api-key", p.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("accept", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("status %d: %s", resp.StatusCode, raw)
	}

	var parsed struct {
		Data struct {
			VideoID string `json:"video_id"`
		} `json:"data"`
	}
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", err
	}
	if parsed.Data.VideoID == "" {
		return "", fmt.Errorf("no video_id in response")
	}
	return parsed.Data.VideoID, nil
}

func (p *HeyGenProvider) waitForVideo(ctx context.Context, videoID string) (string, error) {
	for {
		status, videoURL, err := p.videoStatus(ctx, videoID)
		if err != nil {
			return "", err
		}
		switch status {
		case "completed":
			return videoURL, nil
		case "failed":
			return "", fmt.Errorf("generation failed")
		}

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(p.pollWait):
		}
	}
}

func (p *HeyGenProvider) videoStatus(ctx context.Context, videoID string) (status, videoURL string, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		heygenStatusURL+"?video_id="+videoID, nil)
	if err != nil {
		return "", "", err
	}
	req.Header.Set("x-api-key", p.apiKey)

	resp, err := p.client.Do(req)
	if err != nil {
		return "", "", err
	}
	defer resp.Body.Close()

	var parsed struct {
		Data struct {
			Status   string `json:"status"`
			VideoURL string `json:"video_url"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", "", err
	}
	return parsed.Data.Status, parsed.Data.VideoURL, nil
}

func downloadFile(ctx context.Context, client *http.Client, url, outPath string) error {
	if err := os.MkdirAll(filepath.Dir(outPath), 0755); err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("download status %d", resp.StatusCode)
	}

	f, err := os.Create(outPath)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = io.Copy(f, resp.Body)
	return err
}
