// Package registry provides the central "glue" between kind names used in
// pipeline files and the compiled Go job types that implement them.
//
// During application startup the registry is populated by the compiled-in
// modules and each kind's parameter declarations are introspected on the
// spot, so a mismatch between a declaration and its own metadata fails the
// process before any pipeline file is read.
package registry
