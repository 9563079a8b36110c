// Package core defines the contracts shared by every part of screenmesh:
//
//   - Capabilities (Activatable, GuardClose, Closeable, Child, Parent, Conductor)
//   - Lifecycle event payloads and the sync / async multicast primitives
//   - CloseStrategy and CloseResult (the guarded close protocol)
//   - PlatformProvider (the boundary to a UI dispatcher, never implemented here)
//   - Error kinds (LifecycleError, ErrInvalidItem, cancellation helpers)
//
// Concrete state machines live in the screen and conductor packages; core only
// holds small interfaces so alternative implementations can participate in a
// screen tree by satisfying the capabilities they need. Capabilities are
// optional: conductors check for them with type assertions and skip items that
// do not opt in.
package core
