package avatar

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cricketcast/cricketcast/internal/asset"
	"github.com/cricketcast/cricketcast/internal/script"
)

const (
	didTalksURL = "https://api.d-id.com/talks"

	didPresenterID = "amy-Aq6OmGZnMt"
	didVoiceID     = "en-US-JennyNeural"
)

// DIDProvider drives the D-ID talks API, the alternative avatar vendor.
type DIDProvider struct {
	apiKey   string
	client   *http.Client
	pollWait time.Duration
}

func NewDIDProvider(apiKey string) *DIDProvider {
	return &DIDProvider{
		apiKey:   apiKey,
		client:   &http.Client{Timeout: 60 * time.Second},
		pollWait: 5 * time.Second,
	}
}

func (p *DIDProvider) Synthesize(ctx context.Context, text string, outPath string) (asset.Rendered, error) {
	talkID, err := p.createTalk(ctx, text)
	if err != nil {
		return asset.Rendered{}, fmt.Errorf("d-id create: %w", err)
	}

	resultURL, err := p.waitForTalk(ctx, talkID)
	if err != nil {
		return asset.Rendered{}, fmt.Errorf("d-id talk %s: %w", talkID, err)
	}

	if err := downloadFile(ctx, p.client, resultURL, outPath); err != nil {
		return asset.Rendered{}, fmt.Errorf("d-id download: %w", err)
	}

	return asset.Rendered{
		Path:     outPath,
		Kind:     asset.KindAvatar,
		Duration: script.EstimateDuration(text),
		Width:    1280,
		Height:   720,
	}, nil
}

func (p *DIDProvider) createTalk(ctx context.Context, text string) (string, error) {
	payload := map[string]any{
		"script": map[string]any{
			"type":  "text",
			"input": text,
			"provider": map[string]string{
				"type":     "microsoft",
				"voice_id": didVoiceID,
			},
		},
		"config": map[string]any{
			"fluent":    true,
			"pad_audio": 0,
		},
		"source_url": fmt.Sprintf(
			"https://create-images-results.d-id.com/DefaultPresenters/%s/image.png", didPresenterID),
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, didTalksURL, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Basic "+p.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return "", fmt.Errorf("status %d: %s", resp.StatusCode, raw)
	}

	var parsed struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", err
	}
	if parsed.ID == "" {
		return "", fmt.Errorf("no talk id in response")
	}
	return parsed.ID, nil
}

func (p *DIDProvider) waitForTalk(ctx context.Context, talkID string) (string, error) {
	for {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, didTalksURL+"/"+talkID, nil)
		if err != nil {
			return "", err
		}
		req.Header.Set("Authorization", "Basic "+p.apiKey)

		resp, err := p.client.Do(req)
		if err != nil {
			return "", err
		}
		var parsed struct {
			Status    string `json:"status"`
			ResultURL string `json:"result_url"`
		}
		err = json.NewDecoder(resp.Body).Decode(&parsed)
		resp.Body.Close()
		if err != nil {
			return "", err
		}

		switch parsed.Status {
		case "done":
			return parsed.ResultURL, nil
		case "error", "rejected":
			return "", fmt.Errorf("generation failed with status %s", parsed.Status)
		}

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(p.pollWait):
		}
	}
}
