// Package logging provides leveled logging for the LocalTube server.
//
// The log level is read once from the LOG_LEVEL environment variable
// (debug, info, warn, error); setting DEBUG=true forces debug level.
// Output goes through the standard library logger with a level prefix.
package logging
