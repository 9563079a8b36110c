// Package conductor provides the three stock conductors: Conductor (a single
// active item), OneActive (a collection with one active item) and AllActive (a
// collection whose members are all active while the conductor is).
//
// A conductor is itself a screen: it embeds *screen.Screen and drives the
// lifecycle of its children from its own activate and deactivate hooks.
// Whether a child may be closed is decided by a core.CloseStrategy, by default
// DefaultCloseStrategy.
//
// Item operations (ActivateItem, DeactivateItem, CanClose, Add) on one
// conductor are serialized. ActivationProcessed handlers run after the
// operation completed and may call back into the conductor; lifecycle hooks
// and events of children must not.
package conductor
