// Package session drives a single play session through its states:
// idle, showing, playing, submitting and one terminal state.
//
// A Session owns its SessionState exclusively. The display and play
// countdowns run on timers created through an injectable Clock; every exit
// from a timed state stops its timer and invalidates any callback already in
// flight, so a timer never fires into a stale or terminal state.
package session
