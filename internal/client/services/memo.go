package services

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/dmitrijs2005/companyanalyzer/internal/client/models"
)

type MemoBackend interface {
	GetMemo(ctx context.Context, stockCode string) (*models.Memo, error)
	SaveMemo(ctx context.Context, stockCode, content string) (*models.Memo, error)
}

// MemoService reads and writes the per-favorite memo.
type MemoService interface {
	Get(ctx context.Context, stockCode string) (*models.Memo, error)
	Save(ctx context.Context, stockCode, content string) (*models.Memo, error)
}

type memoService struct {
	backend MemoBackend
}

func NewMemoService(backend MemoBackend) MemoService {
	return &memoService{backend: backend}
}

func (s *memoService) Get(ctx context.Context, stockCode string) (*models.Memo, error) {
	if strings.TrimSpace(stockCode) == "" {
		return nil, validationError("stock code is required")
	}
	return s.backend.GetMemo(ctx, stockCode)
}

// Save stores content, which may be empty to clear the memo.
func (s *memoService) Save(ctx context.Context, stockCode, content string) (*models.Memo, error) {
	if err := ValidateMemo(stockCode, content); err != nil {
		return nil, err
	}
	return s.backend.SaveMemo(ctx, stockCode, content)
}

func ValidateMemo(stockCode, content string) error {
	if strings.TrimSpace(stockCode) == "" {
		return validationError("stock code is required")
	}
	if n := utf8.RuneCountInString(content); n > models.MemoMaxRunes {
		return validationError(fmt.Sprintf("memo is %d characters, at most %d allowed", n, models.MemoMaxRunes))
	}
	return nil
}
