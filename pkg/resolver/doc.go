// Package resolver implements the endpoint fallback resolver.
// Given an ordered pool of interchangeable descriptors it attempts each one in
// turn, treats transport failures and unusable payloads alike as "try next",
// and returns the first usable payload together with the descriptor that
// served it. Attempts never run in parallel and each gets its own timeout.
package resolver
