// Package llm holds what the LLM-backed generators share regardless of
// provider: the prompts, the request parameters and the strict parsing of
// the destination suggestions.
package llm
