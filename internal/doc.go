// Package internal holds crypto-adjacent helpers shared by the engine
// and not exported to integrators.
package internal
