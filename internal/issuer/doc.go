// Package issuer provides reward issuer implementations for the engine.
//
// HTTP talks to an external token service. Log only records calls, for
// local runs without a token service. Recorder keeps calls in memory and
// can be told to fail, for tests and conformance scenarios.
package issuer
