// Package handlers implements the bridge endpoints. Media endpoints write the
// operation's envelope as-is with status 200, whether it reports success or
// failure. Only problems with the bridge request itself use an error status.
package handlers
