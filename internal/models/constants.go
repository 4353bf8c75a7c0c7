// Package models contains data types and constants shared by the chatbot packages.
package models

// Model identifies a chat completion model
type Model struct {
	Name        string
	Description string
}

// Available models
var (
	ModelGPT35Turbo = Model{
		Name:        "gpt-3.5-turbo",
		Description: "Fast, inexpensive chat model",
	}

	ModelGPT4oMini = Model{
		Name:        "gpt-4o-mini",
		Description: "Small multimodal model",
	}

	ModelGPT4o = Model{
		Name:        "gpt-4o",
		Description: "Flagship multimodal model",
	}

	// DefaultModel is the model every request uses unless configured otherwise
	DefaultModel = ModelGPT35Turbo
)

// EndpointChatCompletions is the API path used for every turn
const EndpointChatCompletions = "chat/completions"

// AllModels returns a list of the known models
func AllModels() []Model {
	return []Model{ModelGPT35Turbo, ModelGPT4oMini, ModelGPT4o}
}

// ModelFromName returns a known Model by name. Unknown names are passed
// through unchanged so OpenAI-compatible endpoints can use their own ids.
func ModelFromName(name string) Model {
	if name == "" {
		return DefaultModel
	}
	for _, m := range AllModels() {
		if m.Name == name {
			return m
		}
	}
	return Model{Name: name}
}
