package openai

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	oa "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"stockDashboard/internal/catalog"
)

var tickerPattern = regexp.MustCompile(`^\^?[A-Z0-9][A-Z0-9.\-=]{0,14}$`)

// TickerResolver asks a chat model for the Yahoo Finance ticker of a company
// name. It implements catalog.Searcher.
type TickerResolver struct {
	cli   oa.Client
	model string
}

var _ catalog.Searcher = (*TickerResolver)(nil)

func NewTickerResolver(apiKey string, opts ...option.RequestOption) *TickerResolver {
	opts = append([]option.RequestOption{option.WithAPIKey(apiKey)}, opts...)
	client := oa.NewClient(opts...)
	return &TickerResolver{cli: client, model: "gpt-4o-mini"}
}

func (r *TickerResolver) Search(ctx context.Context, name string) (catalog.Match, bool, error) {
	systemPrompt := `You map company names to Yahoo Finance ticker symbols.

Rules:
- Reply with the ticker only, nothing else
- Use the exchange suffix Yahoo uses (e.g. .NS for NSE India, .L for London)
- Prefer the primary listing of the company
- If you are not sure the company is listed, reply NONE`

	resp, err := r.cli.Chat.Completions.New(ctx, oa.ChatCompletionNewParams{
		Model: r.model,
		Messages: []oa.ChatCompletionMessageParamUnion{
			oa.SystemMessage(systemPrompt),
			oa.UserMessage(fmt.Sprintf("Company: %s", name)),
		},
		MaxTokens:   oa.Int(16),
		Temperature: oa.Float(0),
	})
	if err != nil {
		return catalog.Match{}, false, fmt.Errorf("OpenAI API error: %w", err)
	}

	if len(resp.Choices) == 0 {
		return catalog.Match{}, false, fmt.Errorf("no response from OpenAI")
	}

	ticker, ok := parseTicker(resp.Choices[0].Message.Content)
	if !ok {
		return catalog.Match{}, false, nil
	}
	return catalog.Match{Name: name, Ticker: ticker}, true, nil
}

// parseTicker takes the first word of the reply and accepts it when it looks
// like a ticker.
func parseTicker(reply string) (string, bool) {
	fields := strings.Fields(reply)
	if len(fields) == 0 {
		return "", false
	}
	t := strings.ToUpper(strings.Trim(fields[0], "`*\"'.,:;"))
	if t == "NONE" || !tickerPattern.MatchString(t) {
		return "", false
	}
	return t, true
}
