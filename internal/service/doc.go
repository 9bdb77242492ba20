// Package service contains the application use cases around the board
// engine. It orchestrates the engine packages (generation, session,
// telemetry, scoring, progression, rhythm) and the repositories defined in
// internal/store to fulfill the features exposed by the API.
//
// Key components:
//
// 1. GameService:
//   - Keeps live sessions in a registry keyed by session ID
//   - Forwards pointer and click input into each session's state machine and telemetry
//   - Scores a session once input stops and persists the outcome in one transaction
//
// 2. InsightService:
//   - Derives progression from aggregated outcomes
//   - Derives rhythm bins from the activity log
//   - Serves both through the snapshot cache
//
// 3. Event handlers:
//   - ActivityRecorder appends session events to the activity log
//   - CacheInvalidator drops the snapshots an event makes stale
//
// The service layer depends on domain entities and repository interfaces (from store),
// but never on specific infrastructure implementations.
package service
