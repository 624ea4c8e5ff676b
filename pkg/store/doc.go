// Package store provides the mock store: a mapping from method signature to
// the JSON text the agent should return for that method.
//
// Key types:
//
//   - MockStore: contract for store backends (Get, Put, Remove, All)
//   - Memory: thread-safe in-memory backend, the default
//   - Redis: backend sharing mocks through a Redis hash, so several bridge
//     processes and the editor can see the same entries
//   - Notifying: wrapper that reports every Put and Remove to listeners; the
//     bridge subscribes the command dispatcher to it
//
// Blank JSON text means "no mock configured". Backends store it as given;
// callers use HasMock to decide.
package store
