package translate

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	deeplFreeURL = "https://api-free.deepl.com/v2/translate"
	deeplProURL  = "https://api.deepl.com/v2/translate"
)

// DeepLTranslator translates text using the DeepL API
type DeepLTranslator struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

func NewDeepLTranslator(apiKey string, opts Options) (*DeepLTranslator, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}

	d := &DeepLTranslator{
		apiKey:     apiKey,
		baseURL:    opts.BaseURL,
		httpClient: opts.HTTPClient,
	}
	if d.baseURL == "" {
		// free-tier keys end in ":fx"
		d.baseURL = deeplProURL
		if strings.HasSuffix(apiKey, ":fx") {
			d.baseURL = deeplFreeURL
		}
	}
	if d.httpClient == nil {
		d.httpClient = &http.Client{Timeout: 1 * time.Minute}
	}
	return d, nil
}

func (d *DeepLTranslator) Translate(ctx context.Context, text, sourceLang, targetLang string) (string, error) {
	form := url.Values{}
	form.Add("text", text)
	form.Set("target_lang", deeplTargetCode(targetLang))
	if sourceLang != "" && sourceLang != "auto" {
		form.Set("source_lang", deeplSourceCode(sourceLang))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.baseURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Authorization", "DeepL-Auth-Key "+d.apiKey)

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("DeepL API request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("DeepL API error (status %d): %s", resp.StatusCode, truncateString(string(body), 200))
	}

	var deeplResp struct {
		Translations []struct {
			Text string `json:"text"`
		} `json:"translations"`
	}
	if err := json.Unmarshal(body, &deeplResp); err != nil {
		return "", fmt.Errorf("parse response: %w", err)
	}
	if len(deeplResp.Translations) == 0 {
		return "", fmt.Errorf("DeepL returned no translations")
	}
	return deeplResp.Translations[0].Text, nil
}

// deeplSourceCode converts a language code to a DeepL source_lang. Source
// languages carry no regional variant.
func deeplSourceCode(code string) string {
	base, _, _ := strings.Cut(strings.ReplaceAll(code, "_", "-"), "-")
	return strings.ToUpper(base)
}

// deeplTargetCode converts a language code to a DeepL target_lang. English
// and Portuguese need a variant as targets.
func deeplTargetCode(code string) string {
	code = strings.ToUpper(strings.ReplaceAll(code, "_", "-"))
	switch code {
	case "EN":
		return "EN-US"
	case "PT":
		return "PT-BR"
	default:
		return code
	}
}
