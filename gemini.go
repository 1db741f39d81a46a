package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"google.golang.org/genai"

	"github.com/bodul/xwedit/grid"
)

const analyzePrompt = `Analyse this photo of an American-style crossword grid.

Extract the layout of black squares as JSON in the following format:
{
  "rows": <number of rows>,
  "cols": <number of columns>,
  "layout": ["-.--", "----", ...]
}

Rules:
- "layout" has one string per row, top to bottom, each exactly "cols" characters long.
- Use "." for a black square and "-" for a white square.
- Ignore clue numbers and any letters written in the squares.
- Reply ONLY with the JSON, no commentary and no markdown.`

var errEmptyResponse = errors.New("empty gemini response")

type layoutResponse struct {
	Rows   int      `json:"rows"`
	Cols   int      `json:"cols"`
	Layout []string `json:"layout"`
}

// AnalyzeImage sends a photo to Gemini and returns the blocked layout it
// reads, as an empty grid.
func (g *GeminiClient) AnalyzeImage(ctx context.Context, imageData []byte, mimeType string) (*grid.Grid, error) {
	defer func(start time.Time) {
		importDuration.Observe(time.Since(start).Seconds())
	}(time.Now())

	resp, err := g.client.Models.GenerateContent(ctx, g.modelName,
		[]*genai.Content{{
			Role: "user",
			Parts: []*genai.Part{
				{Text: analyzePrompt},
				{InlineData: &genai.Blob{MIMEType: mimeType, Data: imageData}},
			},
		}},
		&genai.GenerateContentConfig{
			Temperature:      genai.Ptr(float32(0.1)),
			TopP:             genai.Ptr(float32(1)),
			ResponseMIMEType: "application/json",
		},
	)
	if err != nil {
		return nil, fmt.Errorf("gemini generate: %w", err)
	}

	text := resp.Text()
	if text == "" {
		return nil, errEmptyResponse
	}
	return parseLayoutResponse(text)
}

func parseLayoutResponse(text string) (*grid.Grid, error) {
	var lr layoutResponse
	if err := json.Unmarshal([]byte(text), &lr); err != nil {
		return nil, fmt.Errorf("parse layout JSON: %w\nraw response: %s", err, text)
	}
	if lr.Rows == 0 || lr.Cols == 0 || len(lr.Layout) != lr.Rows {
		return nil, fmt.Errorf("invalid layout: %dx%d with %d rows", lr.Rows, lr.Cols, len(lr.Layout))
	}

	g, err := grid.Parse(lr.Layout)
	if err != nil {
		return nil, fmt.Errorf("parse layout: %w", err)
	}
	if g.Cols != lr.Cols {
		return nil, fmt.Errorf("invalid layout: expected %d columns, got %d", lr.Cols, g.Cols)
	}
	blank := g.Blank()
	if err := blank.Validate(); err != nil {
		return nil, fmt.Errorf("invalid layout: %w", err)
	}
	return blank, nil
}
