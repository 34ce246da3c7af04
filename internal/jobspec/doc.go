// Package jobspec defines the job specification base every job kind embeds
// and the freeze protocol that turns a mutable, author-configured
// specification into the canonical, graph-ready form.
//
// A specification is built by pipeline-authoring code with plain field
// assignment, frozen exactly once before graph admission, and then consumed
// through pure derived queries: Inputs, Outputs, JobDirs, UpToDate and
// MissingRequired. Freezing inherits defaults from the run settings, assigns
// a unique name, derives the stdout capture file, and canonicalizes every
// discovered parameter so that equality between two specifications' file
// references is meaningful regardless of how each author phrased the paths.
package jobspec
