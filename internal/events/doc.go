// Package events provides session lifecycle events and the emitters that
// fan them out to handlers.
//
// Services emit events without knowing which handlers process them, so the
// game loop stays independent of persistence-side reactions such as
// activity logging and cache invalidation.
//
// The primary components are:
// - SessionEvent: a timestamped lifecycle event of one play session
// - EventHandler: interface for components that can handle events
// - EventEmitter: interface for components that can emit events
// - InMemoryEventEmitter: synchronous fan-out to registered handlers
// - AsyncEmitter: bounded queue drained by a worker pool
package events
