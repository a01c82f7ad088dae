package translate

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// Translator maps one text between two languages.
type Translator interface {
	Translate(ctx context.Context, text, sourceLang, targetLang string) (string, error)
}

// translation service provider
type Provider string

const (
	ProviderGoogle    Provider = "google"
	ProviderDeepL     Provider = "deepl"
	ProviderOpenAI    Provider = "openai"
	ProviderGemini    Provider = "gemini"
	ProviderAnthropic Provider = "anthropic"
)

// Providers lists every supported provider.
func Providers() []Provider {
	return []Provider{ProviderGoogle, ProviderDeepL, ProviderOpenAI, ProviderGemini, ProviderAnthropic}
}

// RequiresAPIKey reports whether the provider needs credentials.
func (p Provider) RequiresAPIKey() bool {
	return p != ProviderGoogle
}

type Options struct {
	Model      string
	Prompt     string       // extra instructions for LLM providers
	BaseURL    string       // endpoint override, used by tests and proxies
	HTTPClient *http.Client // for the plain HTTP providers
}

// creates Translator based on provider
func Factory(
	ctx context.Context,
	provider Provider,
	apiKey string,
	opts Options,
) (Translator, error) {
	switch provider {
	case ProviderGoogle, "":
		return NewGoogleTranslator(opts), nil
	case ProviderDeepL:
		return NewDeepLTranslator(apiKey, opts)
	case ProviderGemini:
		return NewGeminiTranslator(ctx, apiKey, opts)
	case ProviderOpenAI:
		return NewOpenAITranslator(ctx, apiKey, opts)
	case ProviderAnthropic:
		return NewAnthropicTranslator(ctx, apiKey, opts)
	default:
		return nil, fmt.Errorf("unsupported translation provider: %s", provider)
	}
}

// single text item to translate
type TranslationItem struct {
	Index int    `json:"index"`
	Text  string `json:"text"`
}

// translated text item
type TranslationResult struct {
	Index int    `json:"index"`
	Text  string `json:"text"`
}

// LanguageName returns the English name for a language code, or the code
// itself when it does not parse.
func LanguageName(code string) string {
	tag, err := language.Parse(code)
	if err != nil {
		return code
	}
	if name := display.English.Tags().Name(tag); name != "" {
		return name
	}
	return code
}

// BuildPrompt creates the translation prompt for LLM providers
func BuildPrompt(sourceLang, targetLang, extra string, items []TranslationItem) string {
	var sb strings.Builder

	target := LanguageName(targetLang)
	if sourceLang != "" && sourceLang != "auto" {
		sb.WriteString(fmt.Sprintf(
			"Translate the following %s subtitle texts to %s.\n\n",
			LanguageName(sourceLang),
			target,
		))
	} else {
		sb.WriteString(fmt.Sprintf(
			"Translate the following subtitle texts to %s.\n\n",
			target,
		))
	}

	sb.WriteString("IMPORTANT INSTRUCTIONS:\n")
	sb.WriteString("1. Translate ONLY the text content, preserving the meaning.\n")
	sb.WriteString("2. Keep any formatting tags (like <i>, <b>, {\\an8}) unchanged.\n")
	sb.WriteString("3. Return ONLY a JSON array with the same structure.\n")
	sb.WriteString("4. Each object must have 'index' and 'text' fields.\n")
	sb.WriteString("5. The 'index' values must match the input indices exactly.\n")
	sb.WriteString("6. Do not add any explanation or markdown formatting.\n\n")

	if extra != "" {
		sb.WriteString(fmt.Sprintf("Additional instructions: %s\n\n", extra))
	}

	sb.WriteString("Input JSON:\n")
	inputJSON, _ := json.MarshalIndent(items, "", "  ")
	sb.Write(inputJSON)
	sb.WriteString("\n\nOutput the translated JSON array only:")

	return sb.String()
}

// completeFunc sends one prompt to an LLM and returns its text reply.
type completeFunc func(ctx context.Context, prompt string) (string, error)

// translateWithLLM wraps a single text in the JSON prompt shared by all LLM
// providers and extracts the reply.
func translateWithLLM(ctx context.Context, complete completeFunc, extra, text, sourceLang, targetLang string) (string, error) {
	prompt := BuildPrompt(sourceLang, targetLang, extra, []TranslationItem{{Index: 0, Text: text}})

	reply, err := complete(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("translation failed: %w", err)
	}
	if strings.TrimSpace(reply) == "" {
		return "", fmt.Errorf("empty response")
	}

	reply = cleanJSONResponse(reply)
	results, err := extractTranslationResults(reply)
	if err != nil {
		return "", fmt.Errorf(
			"failed to parse JSON response: %w (response: %s)",
			err,
			truncateString(reply, 200),
		)
	}
	if len(results) != 1 {
		return "", fmt.Errorf("expected 1 result, got %d", len(results))
	}
	return results[0].Text, nil
}
