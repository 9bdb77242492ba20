// Package api exposes the game engine over HTTP. Handlers decode and validate
// requests, forward them to the game and insight services, and translate
// service errors into status codes and client-safe messages.
package api
