// Package domain contains the core entities of the word-board memory game:
// board content, session state, telemetry records, score results, persisted
// outcomes and activity events. It is independent of any storage or delivery
// mechanism; algorithms that operate on these entities live in sibling
// packages (generation, session, telemetry, scoring, progression, rhythm).
package domain
