package usecase

import (
	"context"
	"strings"

	"github.com/happy-paws/catalog-backend/pkg/e"
)

// TipsUseCase — тонкая обёртка над внешним AI-сервисом: один запрос,
// один ответ, без состояния и без повторов.
type TipsUseCase struct {
	tips TipsInfra
}

func NewTipsUC(tips TipsInfra) *TipsUseCase {
	return &TipsUseCase{tips: tips}
}

func (t *TipsUseCase) CareTips(ctx context.Context, req *CareTipsReq) (*CareTipsRes, error) {
	const op = "TipsUseCase.CareTips"

	if strings.TrimSpace(req.Prompt) == "" {
		return nil, e.Wrap(op, e.ErrEmptyPrompt)
	}

	text, err := t.tips.GenerateText(ctx, req.Prompt)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return &CareTipsRes{Text: text}, nil
}
