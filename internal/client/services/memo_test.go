package services

import (
	"context"
	"strings"
	"testing"

	"github.com/dmitrijs2005/companyanalyzer/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemo_SaveAndGet(t *testing.T) {
	backend := &fakeMemo{}
	svc := NewMemoService(backend)
	ctx := context.Background()

	m, err := svc.Save(ctx, "005930", "buy below 70k")
	require.NoError(t, err)
	assert.Equal(t, "buy below 70k", m.Content)

	m, err = svc.Get(ctx, "005930")
	require.NoError(t, err)
	assert.Equal(t, "buy below 70k", m.Content)
}

func TestValidateMemo(t *testing.T) {
	tests := []struct {
		name    string
		code    string
		content string
		wantErr bool
	}{
		{"ok", "005930", "note", false},
		{"empty clears", "005930", "", false},
		{"at limit", "005930", strings.Repeat("가", 2000), false},
		{"over limit", "005930", strings.Repeat("a", 2001), true},
		{"no code", " ", "note", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateMemo(tt.code, tt.content)
			if tt.wantErr {
				assert.ErrorIs(t, err, common.ErrValidation)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestMemo_GetRequiresCode(t *testing.T) {
	_, err := NewMemoService(&fakeMemo{}).Get(context.Background(), "")
	assert.ErrorIs(t, err, common.ErrValidation)
}
