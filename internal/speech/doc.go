// Package speech abstracts the platform text-to-speech capability used to
// pronounce vocabulary entries. It models the subsystem the way browsers
// expose it: a capability check, a lazily populated voice list with change
// notifications, asynchronous utterances with a completion callback, and
// cancel-all. Backends exist for espeak-ng, OpenAI, Gemini and Google Cloud
// Text-to-Speech.
package speech
