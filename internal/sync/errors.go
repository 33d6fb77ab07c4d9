package sync

import "errors"

// ErrRemoteWrite marks a failed commit against the remote document store.
// The orchestrator matches it to keep the owning trip dirty for the next
// cycle; savers never retry on their own.
var ErrRemoteWrite = errors.New("remote write failed")

// ErrRemoteRead marks a failed read from the remote document store.
var ErrRemoteRead = errors.New("remote read failed")
