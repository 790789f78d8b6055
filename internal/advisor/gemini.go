package advisor

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"text/template"

	"github.com/Ozsumit/csf-pwa/internal/engine"
	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

//go:embed prompts/next_move.txt
var nextMovePrompt string

var nextMoveTmpl = template.Must(template.New("next_move").Parse(nextMovePrompt))

// Gemini asks a Gemini model for the next move.
type Gemini struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

func NewGemini(ctx context.Context, apiKey, modelName string) (*Gemini, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, err
	}
	if modelName == "" {
		modelName = "gemini-2.5-flash"
	}
	return &Gemini{
		client: client,
		model:  client.GenerativeModel(modelName),
	}, nil
}

func (g *Gemini) Close() error {
	return g.client.Close()
}

func (g *Gemini) Suggest(ctx context.Context, snap engine.Snapshot) (Suggestion, error) {
	prompt, err := renderPrompt(snap)
	if err != nil {
		return Suggestion{}, err
	}

	resp, err := g.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return Suggestion{}, err
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return Suggestion{}, fmt.Errorf("no content returned from Gemini")
	}
	text, ok := resp.Candidates[0].Content.Parts[0].(genai.Text)
	if !ok {
		return Suggestion{}, fmt.Errorf("unexpected response type from Gemini")
	}
	return parseSuggestion(string(text))
}

type promptItem struct {
	ID     string
	Name   string
	Cost   float64
	Active bool
}

func renderPrompt(snap engine.Snapshot) (string, error) {
	s := snap.State
	items := make([]promptItem, 0, len(s.SpecialItems))
	for _, it := range s.SpecialItems {
		_, active := snap.Active(it.ID)
		items = append(items, promptItem{ID: string(it.ID), Name: it.Name, Cost: it.Cost, Active: active})
	}
	data := struct {
		Currency     float64
		ClickGain    float64
		AutoGain     float64
		AutoCost     float64
		UpgradeCost  float64
		Items        []promptItem
		TaxPhase     string
		TaxClicks    int
		TaxRequired  int
		Achievements int
	}{
		Currency:     s.Currency,
		ClickGain:    engine.ClickGain(s),
		AutoGain:     engine.AutoGain(s),
		AutoCost:     s.AutoCost,
		UpgradeCost:  s.UpgradeCost,
		Items:        items,
		TaxPhase:     snap.Tax.Phase.String(),
		TaxClicks:    snap.Tax.CurrentClicks,
		TaxRequired:  snap.Tax.RequiredClicks,
		Achievements: s.UnlockedCount(),
	}

	var buf bytes.Buffer
	if err := nextMoveTmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
