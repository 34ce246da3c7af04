// Package param turns a job type's declarative field metadata into the
// uniform primitives the rest of the engine consumes.
//
// It discovers role-tagged parameters once per job type (the introspector),
// resolves a parameter's run-time value into concrete file references (the
// extractor), and rewrites those references into an absolute, working
// directory independent form (the canonicalizer). The graph builder matches
// producer outputs to consumer inputs by value equality, so getting the
// canonical form wrong silently builds incorrect edges; that is why all
// three concerns live in one package and share a single value-walking core.
//
// Parameters are declared through struct tags:
//
//	Reads   []fileref.Ref `pipe:"reads,input,required" doc:"Read files to align"`
//	Pattern string        `pipe:"pattern,arg" xor:"pattern_file" doc:"Inline filter expression"`
//
// The pipe tag carries `<name>,<role>[,required]`; an empty name derives a
// snake_case name from the Go field name. The xor tag names mutually
// exclusive partner parameters and the doc tag carries the human-readable
// description used in validation messages.
package param
