/*
Package domain contains the core domain models of the trip planner.

It defines the conversation states, the session snapshot and the events and
effects exchanged with the controller. This package is kept pure and free of
external dependencies like I/O or persistence, following Hexagonal
Architecture principles.

# Key Entities

  - Session: the per-user snapshot (state, answers, candidates, message log).
  - TravelDetails: the five answers, one field per question.
  - Event: an input from the host (an answer, a confirmation, a pick).
  - Effect: what the host should display or ask for next.
*/
package domain
