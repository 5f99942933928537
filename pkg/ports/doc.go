/*
Package ports defines the driven and driving ports (interfaces) of voyage.

These interfaces decouple the conversation controller from external
implementations, allowing it to work with various LLM providers and storage
backends, and letting hosts (CLI, HTTP, MCP) drive it without knowing how
sessions are kept.

# Key Interfaces

  - SuggestionGenerator / ItineraryGenerator: the two LLM calls.
  - GeneratorFactory: builds generators for the credential of a session.
  - StateStore: Responsible for persisting and loading Sessions.
  - DistributedLocker: Provides distributed locking for handling concurrent session access.
  - Planner: the host-facing conversation API.
*/
package ports
