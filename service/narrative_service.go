package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"homebuilder-proforma/domain"
	"homebuilder-proforma/logger"
)

const (
	defaultChatURL   = "https://api.openai.com/v1/chat/completions"
	defaultChatModel = "gpt-4o-mini"
	narrativeTimeout = 20 * time.Second
)

// NarrativeService writes a short plain-English summary of a proforma.
// Without an API key it falls back to a template built from the numbers.
type NarrativeService struct {
	apiKey     string
	apiURL     string
	model      string
	enabled    bool
	httpClient *http.Client
}

type chatRequest struct {
	Model     string        `json:"model"`
	Messages  []chatMessage `json:"messages"`
	MaxTokens int           `json:"max_tokens,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

func NewNarrativeService(apiKey string) *NarrativeService {
	return &NarrativeService{
		apiKey:  apiKey,
		apiURL:  defaultChatURL,
		model:   defaultChatModel,
		enabled: apiKey != "",
		httpClient: &http.Client{
			Timeout: narrativeTimeout,
		},
	}
}

// WithEndpoint points the service at a different chat completions URL.
func (s *NarrativeService) WithEndpoint(url string) *NarrativeService {
	s.apiURL = url
	return s
}

func (s *NarrativeService) LotDevelopmentSummary(
	ctx context.Context,
	in domain.LotDevelopmentInput,
	r domain.LotDevelopmentResult,
) string {
	fallback := lotDevelopmentFallback(in, r)
	if !s.enabled {
		return fallback
	}

	prompt := fmt.Sprintf(`Summarize this lot development proforma for an investment committee.

DEAL:
- Lots: %d at $%.2f sale price per finished lot
- Total uses: $%.2f (hard costs $%.2f, contingency $%.2f, fees $%.2f, interest reserve $%.2f)
- Senior debt: $%.2f at %.2f%% LTC; equity: $%.2f
- Gross profit: $%.2f, margin %.2f%%, equity multiple %.2fx
- Sell-out: %d months at %.2f lots/month; breakeven after %d lots%s

Write 2-3 sentences. Mention the margin, the equity multiple and the main risk.`,
		in.TotalLots, in.SalesPricePerLot,
		r.TotalUses, r.HardCostSubtotal, r.Contingency, r.Fees, r.InterestReserve,
		r.SeniorDebt, in.LoanToCost, r.Equity,
		r.GrossProfit, r.ProfitMargin, r.EquityMultiple,
		r.MonthsToSellOut, in.AbsorptionPerMonth, r.BreakevenLots, breakevenNote(r))

	text, err := s.callLLM(ctx, prompt)
	if err != nil {
		logger.FromContext(ctx).Warn("Narrative generation failed, using fallback", "kind", domain.KindLotDevelopment, "error", err)
		return fallback
	}
	return text
}

func (s *NarrativeService) LotPurchaseSummary(
	ctx context.Context,
	in domain.LotPurchaseInput,
	r domain.LotPurchaseResult,
) string {
	fallback := lotPurchaseFallback(in, r)
	if !s.enabled {
		return fallback
	}

	prompt := fmt.Sprintf(`Summarize this lot purchase (build and sell) proforma for an investment committee.

DEAL:
- Homes: %d, purchased in %d takedowns
- Per home: all-in cost $%.2f, construction interest $%.2f, sale price $%.2f, profit $%.2f (%.2f%% margin)
- Project: revenue $%.2f, cost $%.2f, profit $%.2f
- Debt $%.2f, equity $%.2f, ROI %.2f%%, equity multiple %.2fx
- Sell-out: %d months

Write 2-3 sentences. Mention per-home margin, ROI and the takedown exposure.`,
		in.TotalLots, len(r.Takedowns),
		r.AllInCostPerHome, r.ConstructionInterest, in.SalesPricePerHome, r.ProfitPerHome, r.MarginPerHome,
		r.TotalRevenue, r.TotalCost, r.TotalProfit,
		r.TotalDebt, r.TotalEquity, r.ROI, r.EquityMultiple,
		r.SelloutMonths)

	text, err := s.callLLM(ctx, prompt)
	if err != nil {
		logger.FromContext(ctx).Warn("Narrative generation failed, using fallback", "kind", domain.KindLotPurchase, "error", err)
		return fallback
	}
	return text
}

func (s *NarrativeService) callLLM(ctx context.Context, prompt string) (string, error) {
	reqBody := chatRequest{
		Model: s.model,
		Messages: []chatMessage{
			{
				Role:    "system",
				Content: "You are a real estate development analyst at a homebuilder. You write short, factual deal summaries for an investment committee. Quote the numbers you are given and do not invent new ones.",
			},
			{Role: "user", Content: prompt},
		},
		MaxTokens: 250,
	}

	data, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.apiURL, bytes.NewReader(data))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", fmt.Errorf("chat API error (status %d): %s", resp.StatusCode, string(body))
	}

	var out chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode chat response: %w", err)
	}
	if len(out.Choices) == 0 {
		return "", errors.New("chat API returned no choices")
	}
	text := strings.TrimSpace(out.Choices[0].Message.Content)
	if text == "" {
		return "", errors.New("chat API returned an empty message")
	}
	return text, nil
}

func breakevenNote(r domain.LotDevelopmentResult) string {
	if !r.BreakevenAchievable {
		return " (not reached within the lot count)"
	}
	return fmt.Sprintf(" in month %d", r.BreakevenMonth)
}

func lotDevelopmentFallback(in domain.LotDevelopmentInput, r domain.LotDevelopmentResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Developing %d lots requires $%.2f of total uses, funded with $%.2f of senior debt and $%.2f of equity. ",
		in.TotalLots, r.TotalUses, r.SeniorDebt, r.Equity)
	fmt.Fprintf(&b, "Selling at $%.2f per lot yields a gross profit of $%.2f (%.2f%% margin, %.2fx equity multiple).",
		in.SalesPricePerLot, r.GrossProfit, r.ProfitMargin, r.EquityMultiple)
	switch {
	case r.MonthsToSellOut == 0:
	case r.BreakevenAchievable:
		fmt.Fprintf(&b, " Sell-out takes %d months and the deal breaks even after %d lots in month %d.",
			r.MonthsToSellOut, r.BreakevenLots, r.BreakevenMonth)
	default:
		fmt.Fprintf(&b, " Sell-out takes %d months but revenue never covers total uses.", r.MonthsToSellOut)
	}
	return b.String()
}

func lotPurchaseFallback(in domain.LotPurchaseInput, r domain.LotPurchaseResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Each home costs $%.2f all-in plus $%.2f of construction interest and earns $%.2f of profit (%.2f%% margin). ",
		r.AllInCostPerHome, r.ConstructionInterest, r.ProfitPerHome, r.MarginPerHome)
	fmt.Fprintf(&b, "Across %d homes in %d takedowns the project returns %.2f%% on $%.2f of equity (%.2fx multiple).",
		in.TotalLots, len(r.Takedowns), r.ROI, r.TotalEquity, r.EquityMultiple)
	if r.SelloutMonths > 0 {
		fmt.Fprintf(&b, " Sell-out takes %d months.", r.SelloutMonths)
	}
	return b.String()
}
