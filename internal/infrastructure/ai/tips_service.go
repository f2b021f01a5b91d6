package ai

import (
	"context"
	"fmt"
	"net/http"

	"github.com/happy-paws/catalog-backend/internal/cfg"
	"github.com/happy-paws/catalog-backend/pkg/e"
	"github.com/happy-paws/catalog-backend/pkg/logger"
	"github.com/guonaihong/gout"
)

// TipsService — клиент Gemini generateContent. Один запрос — один ответ,
// без ретраев: транзиентная ошибка уходит вызывающему как есть.
type TipsService struct {
	cfg    *cfg.AiCfg
	logger logger.Logger
}

func NewTipsService(cfg *cfg.AiCfg, logger logger.Logger) *TipsService {
	return &TipsService{
		cfg:    cfg,
		logger: logger,
	}
}

type generateRequest struct {
	Contents []content `json:"contents"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

// GenerateText отправляет prompt и возвращает текст первого кандидата.
func (t *TipsService) GenerateText(ctx context.Context, prompt string) (string, error) {
	const op = "TipsService.GenerateText"

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s", t.cfg.Endpoint, t.cfg.Model, t.cfg.ApiKey)
	body := generateRequest{
		Contents: []content{{
			Role:  "user",
			Parts: []part{{Text: prompt}},
		}},
	}

	var (
		res  generateResponse
		code int
	)
	err := gout.POST(url).
		WithContext(ctx).
		SetTimeout(t.cfg.Timeout).
		SetJSON(body).
		Code(&code).
		BindJSON(&res).
		Do()
	if err != nil {
		return "", e.Wrap(op, err)
	}

	if code != http.StatusOK {
		return "", e.Wrap(op, fmt.Errorf("completion request failed with status %d", code))
	}

	if len(res.Candidates) == 0 || len(res.Candidates[0].Content.Parts) == 0 {
		return "", e.Wrap(op, fmt.Errorf("empty completion response"))
	}

	return res.Candidates[0].Content.Parts[0].Text, nil
}
