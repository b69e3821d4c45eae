package internal

// Version is the application version. It is overwritten at build time by the
// magefile via -ldflags "-X codeberg.org/snonux/notecard/internal.Version=...".
var Version = "0.3.0"

// ServiceBasePath is the base URL of the vocabulary service. The magefile sets
// it from NOTECARD_BASE_PATH at build time; runtime config may override it.
var ServiceBasePath = "http://127.0.0.1:8000"
