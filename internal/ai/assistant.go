package ai

import (
	"context"
	"fmt"
	"strings"

	"github.com/thebardofavon/typeface-ai-personal-finance-application/internal/models"
	"github.com/thebardofavon/typeface-ai-personal-finance-application/internal/util"
)

// chatContextLimit caps how many recent transactions are shared with the LLM.
const chatContextLimit = 50

// NoDataReply is returned without calling the LLM when the user has no
// transactions yet.
const NoDataReply = "I don't have any transaction data to analyze yet. Please add some transactions first!"

// Generator produces a text completion for a prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Store is the slice of the data layer the assistant needs.
type Store interface {
	RecentTransactions(userID uint, limit int) ([]models.Transaction, error)
}

// Assistant answers free-text questions about a user's spending by handing
// the LLM the user's recent transactions as context.
type Assistant struct {
	store Store
	llm   Generator
}

func NewAssistant(st Store, llm Generator) *Assistant {
	return &Assistant{store: st, llm: llm}
}

// Answer builds the transaction context for the user and asks the LLM.
func (a *Assistant) Answer(ctx context.Context, userID uint, query string) (string, error) {
	txs, err := a.store.RecentTransactions(userID, chatContextLimit)
	if err != nil {
		return "", fmt.Errorf("load transactions: %w", err)
	}
	if len(txs) == 0 {
		return NoDataReply, nil
	}

	return a.llm.Generate(ctx, BuildPrompt(txs, query))
}

// BuildPrompt renders the chat prompt: one line per transaction plus the
// user's question, with instructions that keep the model on the data.
func BuildPrompt(txs []models.Transaction, query string) string {
	var b strings.Builder
	b.WriteString("User's recent transactions:\n")
	for _, t := range txs {
		name := t.Category.Name
		catType := t.Category.Type
		if name == "" {
			name = "Uncategorized"
		}
		if catType == "" {
			catType = models.CategoryTypeExpense
		}
		fmt.Fprintf(&b, "- Date: %s, Description: %s, Amount: %s, Category: %s (%s)\n",
			t.TransactionDate, t.Description, util.FormatCents(t.AmountCents), name, catType)
	}

	return fmt.Sprintf(`You are a helpful and concise personal finance assistant. Analyze the following user transaction data to answer their question. Provide actionable insights but do not give financial advice. Base your answer ONLY on the data provided.

--- TRANSACTION DATA ---
%s------------------------

USER QUESTION: %q

YOUR ANALYSIS:`, b.String(), query)
}
