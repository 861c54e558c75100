package provider

import "strings"

// defaultSystemPrompt frames every review. The reply is rendered as markdown.
const defaultSystemPrompt = `You are a senior software engineer reviewing code submitted by a colleague.

Review the code for:
- correctness and bugs
- readability and naming
- performance problems
- security issues
- idiomatic use of the language

Reply in markdown. Start with a one line verdict, then list concrete issues,
each with a short explanation and a corrected snippet where it helps. If the
code is fine, say so briefly instead of inventing problems.`

// SystemPrompt returns override when set, otherwise the built-in prompt.
func SystemPrompt(override string) string {
	if s := strings.TrimSpace(override); s != "" {
		return s
	}
	return defaultSystemPrompt
}
