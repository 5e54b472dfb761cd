package classifier

import "github.com/kirillkom/content-moderation/internal/core/domain"

const basePrompt = `You are a strict content moderation reviewer.
Return a strict JSON object with keys:
decision ("true" if the text violates policy, "false" if it does not, "unknown" if unsure),
confidence (number from 0 to 1),
violation_types (array, subset of ["porn","politics","abuse","violence","spam","illegal"]),
flagged_content (string, the offending excerpt, empty if none).
No markdown, no extra keys.
`

func systemPromptFor(hint domain.ContentHint) string {
	switch hint {
	case domain.HintComment:
		return basePrompt + "The text is a short user comment. Judge tone and targeted harassment strictly."
	case domain.HintArticle:
		return basePrompt + "The text is a published article. Judge the overall message, not isolated quotes."
	case domain.HintTitle:
		return basePrompt + "The text is a title. Clickbait alone is not a violation; explicit content is."
	case domain.HintKnowledge:
		return basePrompt + "The text is knowledge-base material. Factual descriptions of sensitive topics are acceptable."
	case domain.HintPersona:
		return basePrompt + "The text describes a persona or character card. Judge what the persona is designed to produce."
	default:
		return basePrompt + "The text is user-submitted body content."
	}
}

// userMessageFor bounds the submitted text by the endpoint's usable
// context length. Oversized units are segmented upstream, so truncation
// here only guards against descriptor/config drift.
func userMessageFor(endpoint domain.Endpoint, text string) string {
	if endpoint.MaxContextLen > 0 && len(text) > endpoint.MaxContextLen {
		return text[:endpoint.MaxContextLen]
	}
	return text
}
