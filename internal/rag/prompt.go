package rag

import "fmt"

// The generation API has no structured-output mode; natural-language
// formatting rules in the prompt are the only lever, and FormatAnswer
// is the best-effort safety net behind them.
const answerPromptTemplate = `You are a helpful assistant. Use the following internal policy context to answer the user question.

Formatting rules for your answer:
- Plain text only. Never use markdown emphasis characters (* or **).
- Use the bullet character %s only for true multi-item lists, one item per line.
- Prefix every section title with "HEADING: ".
- Separate sections with a single blank line.
- Write concise, structured prose.

Context:
%s

Question:
%s

Answer:`

// BuildPrompt substitutes context and question into the fixed
// instruction template. Deterministic: same inputs, same prompt. An
// empty context is passed through as-is; the model answers without
// grounding.
func BuildPrompt(context, question string) string {
	return fmt.Sprintf(answerPromptTemplate, bulletMarker, context, question)
}
