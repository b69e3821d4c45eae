// Package card implements the vocabulary card view controller. The
// controller owns all view state, reacts to user operations, fetches entries
// from the vocabulary service and drives the speech subsystem. Front ends
// implement View and supply a dispatcher that runs closures on their UI
// thread; the controller itself knows nothing about any UI toolkit.
package card
