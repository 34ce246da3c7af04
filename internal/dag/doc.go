// Package dag provides the generic directed-acyclic-graph structure the
// graph builder assembles frozen job specifications into. It stores nodes
// and edges and detects cycles; it deliberately produces no execution
// order, since scheduling and parallelism belong to the external executor.
package dag
