// internal/infra/whatsapp/aisensy_sender.go
package whatsapp

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"time"
)

// DefaultBaseURL is the AiSensy campaign API endpoint.
const DefaultBaseURL = "https://backend.aisensy.com/campaign/t1/api/v2"

// AiSensySender implements the notify.WhatsAppSender interface against the
// AiSensy campaign API. AiSensy has no Go SDK, so this is a plain HTTP
// adapter.
type AiSensySender struct {
	apiKey       string
	campaignName string
	baseURL      string
	httpClient   *http.Client
}

func NewAiSensySender(apiKey, campaignName string) *AiSensySender {
	return &AiSensySender{
		apiKey:       apiKey,
		campaignName: campaignName,
		baseURL:      DefaultBaseURL,
		httpClient:   &http.Client{Timeout: 15 * time.Second},
	}
}

// NewAiSensySenderWithBaseURL exists for tests pointing at a local server.
func NewAiSensySenderWithBaseURL(apiKey, campaignName, baseURL string) *AiSensySender {
	s := NewAiSensySender(apiKey, campaignName)
	s.baseURL = baseURL
	return s
}

type campaignRequest struct {
	APIKey         string   `json:"apiKey"`
	CampaignName   string   `json:"campaignName"`
	Destination    string   `json:"destination"`
	UserName       string   `json:"userName"`
	TemplateName   string   `json:"templateName"`
	TemplateParams []string `json:"templateParams"`
	Source         string   `json:"source"`
}

// Send posts one templated message. The campaign API takes template params
// as a positional list; map values are flattened in key order, so template
// param keys must sort in substitution order.
func (s *AiSensySender) Send(toPhone, templateName string, params map[string]string) error {
	userName := toPhone
	if name, ok := params["student_name"]; ok {
		userName = name
	}

	body := campaignRequest{
		APIKey:         s.apiKey,
		CampaignName:   s.campaignName,
		Destination:    toPhone,
		UserName:       userName,
		TemplateName:   templateName,
		TemplateParams: flattenParams(params),
		Source:         "scheduler",
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("error encoding aisensy payload: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, s.baseURL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("error building aisensy request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("aisensy request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("aisensy returned status %d: %s", resp.StatusCode, respBody)
	}
	return nil
}

func flattenParams(params map[string]string) []string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	values := make([]string, len(keys))
	for i, k := range keys {
		values[i] = params[k]
	}
	return values
}
