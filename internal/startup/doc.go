// Package startup handles application initialization: environment
// configuration, directory validation, external tool checks and the
// structured startup/shutdown logging sequence.
package startup
