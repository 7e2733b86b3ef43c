// Package agent implements the keyword research workflow: a directed graph
// of asynchronous nodes with conditional routing, a typed shared state with
// explicit reducer semantics, a bounded search-refinement loop, parallel
// fan-out for keyword metrics, and a progress-event protocol consumed by the
// streaming transport.
//
// The executor owns the state. Nodes receive a deep-copied snapshot and
// return a Patch; conversation messages append, everything else overwrites.
// Routing functions are pure functions of state over a closed set of node
// identifiers, so every reachable state maps to a registered node.
package agent
