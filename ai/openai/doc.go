// Package openai implements the ai interfaces against OpenAI-compatible
// APIs (OpenAI, Ollama, LocalAI, vLLM) via langchaingo.
//
// Chat responses are requested in JSON mode at temperature 0 and parsed
// defensively: code fences are stripped and common key-quoting mistakes are
// repaired before unmarshaling.
package openai
