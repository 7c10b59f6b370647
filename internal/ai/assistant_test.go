package ai

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/thebardofavon/typeface-ai-personal-finance-application/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTxStore struct {
	txs []models.Transaction
	err error
}

func (f *fakeTxStore) RecentTransactions(userID uint, limit int) ([]models.Transaction, error) {
	return f.txs, f.err
}

type fakeGenerator struct {
	prompt string
	reply  string
	err    error
}

func (f *fakeGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	f.prompt = prompt
	return f.reply, f.err
}

func sampleTxs() []models.Transaction {
	return []models.Transaction{
		{
			TransactionDate: "2024-03-14",
			Description:     "Coffee Shop Purchase",
			AmountCents:     450,
			Category:        models.Category{Name: "Food", Type: "expense"},
		},
		{
			TransactionDate: "2024-03-01",
			Description:     "Paycheck",
			AmountCents:     500000,
			Category:        models.Category{Name: "Salary", Type: "income"},
		},
	}
}

func TestAnswer_NoTransactions(t *testing.T) {
	llm := &fakeGenerator{}
	assistant := NewAssistant(&fakeTxStore{}, llm)

	reply, err := assistant.Answer(context.Background(), 1, "where does my money go?")
	require.NoError(t, err)
	assert.Equal(t, NoDataReply, reply)
	assert.Empty(t, llm.prompt, "LLM must not be called without data")
}

func TestAnswer_BuildsContextAndForwards(t *testing.T) {
	llm := &fakeGenerator{reply: "You spent most on Food."}
	assistant := NewAssistant(&fakeTxStore{txs: sampleTxs()}, llm)

	reply, err := assistant.Answer(context.Background(), 1, "biggest expense?")
	require.NoError(t, err)
	assert.Equal(t, "You spent most on Food.", reply)

	assert.Contains(t, llm.prompt, "Coffee Shop Purchase")
	assert.Contains(t, llm.prompt, "Amount: 4.50")
	assert.Contains(t, llm.prompt, "Category: Food (expense)")
	assert.Contains(t, llm.prompt, `"biggest expense?"`)
}

func TestAnswer_UpstreamFailure(t *testing.T) {
	llm := &fakeGenerator{err: errors.New("quota exceeded")}
	assistant := NewAssistant(&fakeTxStore{txs: sampleTxs()}, llm)

	_, err := assistant.Answer(context.Background(), 1, "q")
	assert.Error(t, err)
}

func TestBuildPrompt_MissingCategoryDefaults(t *testing.T) {
	txs := []models.Transaction{{
		TransactionDate: "2024-03-14",
		Description:     "Mystery",
		AmountCents:     100,
	}}
	prompt := BuildPrompt(txs, "q")
	assert.Contains(t, prompt, "Category: Uncategorized (expense)")
}

func TestBuildPrompt_OneLinePerTransaction(t *testing.T) {
	prompt := BuildPrompt(sampleTxs(), "q")
	assert.Equal(t, 2, strings.Count(prompt, "- Date: "))
}
