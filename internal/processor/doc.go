// Package processor wires the command line configuration into the
// vocabulary client, the speech backend and the chosen front end. It also
// implements the one-shot modes that print an entry or list voices.
package processor
