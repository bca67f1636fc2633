// Package openai provides an ai.Provider implementation for the OpenAI
// chat completions API and any API that speaks the same dialect
// (OpenRouter, DeepSeek, llama.cpp server, vLLM).
//
// Both synchronous requests (SendMessage) and SSE streaming
// (StreamMessage) are supported. The provider is configured from the
// OPENAI_API_KEY and OPENAI_API_BASE_URL environment variables and can
// be overridden with the WithAPIKey / WithBaseURL / WithHttpClient
// chainable setters.
package openai
