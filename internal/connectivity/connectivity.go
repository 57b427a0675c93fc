// Package connectivity exposes the online/offline signal the fallback
// executor consults at call time.
package connectivity

// State is an online/offline transition event.
type State struct {
	Online bool
}

// Signal reports connectivity. Online is read fresh at every call site;
// consumers must not cache it. Subscribe delivers transition events for
// triggers like "refresh when connectivity returns".
type Signal interface {
	Online() bool
	Subscribe() <-chan State
}
