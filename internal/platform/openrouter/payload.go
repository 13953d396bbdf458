package openrouter

// Wire types for the OpenAI-compatible chat-completions endpoint. Only the
// fields this application sends and reads are modeled.

// Message roles accepted by the provider.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ChatMessage is a single role/content pair in the completion request.
type ChatMessage struct {
	Role    string `json:"role"    validate:"required,oneof=system user assistant"`
	Content string `json:"content" validate:"required"`
}

// JSONSchemaSpec names a strict JSON schema the provider is asked to conform
// its output to.
type JSONSchemaSpec struct {
	Name   string         `json:"name"   validate:"required"`
	Strict bool           `json:"strict"`
	Schema map[string]any `json:"schema" validate:"required"`
}

// ResponseFormat wraps a JSONSchemaSpec in the provider's response_format
// envelope.
type ResponseFormat struct {
	Type       string         `json:"type"        validate:"required,eq=json_schema"`
	JSONSchema JSONSchemaSpec `json:"json_schema" validate:"required"`
}

// ChatCompletionRequest is the payload posted to the completions endpoint.
// Message order is [system?, user]: at most one system message, exactly one
// user message.
type ChatCompletionRequest struct {
	Model            string          `json:"model"    validate:"required"`
	Messages         []ChatMessage   `json:"messages" validate:"required,min=1,max=2,dive"`
	Temperature      *float64        `json:"temperature,omitempty"`
	TopP             *float64        `json:"top_p,omitempty"`
	FrequencyPenalty *float64        `json:"frequency_penalty,omitempty"`
	PresencePenalty  *float64        `json:"presence_penalty,omitempty"`
	ResponseFormat   *ResponseFormat `json:"response_format,omitempty"`
}

// ChatCompletionResponse is the subset of the provider reply this
// application reads.
type ChatCompletionResponse struct {
	Choices []ChatChoice `json:"choices"`
}

// ChatChoice is a single completion choice.
type ChatChoice struct {
	Message      ChatMessage `json:"message"`
	FinishReason string      `json:"finish_reason,omitempty"`
}
