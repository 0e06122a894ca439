package ai

import "github.com/kdziekansky/telegram3333/pkg/credits"

const DefaultModel = "gpt-4o-mini"

// AvailableModels maps model id to display name, in menu order.
var AvailableModels = []struct {
	ID   string
	Name string
}{
	{"gpt-4o-mini", "GPT-4o mini"},
	{"gpt-4o", "GPT-4o"},
	{"o3-mini", "o3-mini"},
	{"gpt-4", "GPT-4"},
}

// ModelName returns the display name for a model id.
func ModelName(id string) string {
	for _, m := range AvailableModels {
		if m.ID == id {
			return m.Name
		}
	}
	return id
}

// KnownModel reports whether id is a selectable model.
func KnownModel(id string) bool {
	for _, m := range AvailableModels {
		if m.ID == id {
			return true
		}
	}
	return false
}

// ChatMode is a selectable assistant persona with its own system prompt
// and, optionally, a pinned model.
type ChatMode struct {
	ID     string
	Name   string
	Prompt string
	Model  string // empty means the user's model choice applies
}

// MessageCost returns the per-message price for this mode under the
// user's selected model.
func (m ChatMode) MessageCost(userModel string) int {
	model := m.Model
	if model == "" {
		model = userModel
	}
	return credits.MessageCost(model)
}

// ChatModes lists selectable personas, in menu order.
var ChatModes = []ChatMode{
	{
		ID:     "no_mode",
		Name:   "No mode",
		Prompt: "You are a helpful assistant.",
	},
	{
		ID:     "assistant",
		Name:   "Assistant",
		Prompt: "You are a knowledgeable personal assistant. Answer precisely and helpfully, ask clarifying questions when the request is ambiguous.",
	},
	{
		ID:     "brief",
		Name:   "Brief answers",
		Prompt: "You are a helpful assistant. Answer as briefly as possible, a few sentences at most.",
		Model:  "gpt-4o-mini",
	},
	{
		ID:     "code_developer",
		Name:   "Code developer",
		Prompt: "You are an expert software developer. Provide working code with short explanations. Prefer idiomatic solutions and point out pitfalls.",
		Model:  "gpt-4o",
	},
	{
		ID:     "creative_writer",
		Name:   "Creative writer",
		Prompt: "You are a creative writer. Produce vivid, well-structured prose in the language of the request.",
	},
	{
		ID:     "translator",
		Name:   "Translator",
		Prompt: "You are a professional translator. Translate the user's text, preserving tone and formatting. If no target language is given, translate to English.",
	},
}

// ModeByID returns the chat mode for id, falling back to the first mode.
func ModeByID(id string) ChatMode {
	for _, m := range ChatModes {
		if m.ID == id {
			return m
		}
	}
	return ChatModes[0]
}

// KnownMode reports whether id is a selectable chat mode.
func KnownMode(id string) bool {
	for _, m := range ChatModes {
		if m.ID == id {
			return true
		}
	}
	return false
}
