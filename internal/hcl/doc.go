// Package hcl is the authoring front end: it parses pipeline files into
// mutable job instances plus the run-level settings block.
//
// A pipeline file declares at most one settings block and any number of job
// blocks, each labelled with a registered kind and an instance name:
//
//	settings {
//	  name_prefix = "etl"
//	  queue       = "batch"
//	}
//
//	job "filter" "errors" {
//	  dir = "work"
//	  arguments {
//	    in      = "logs/app.log"
//	    out     = "out/errors.log"
//	    pattern = "ERROR"
//	  }
//	}
//
// Job-level attributes map onto the specification base; the arguments block
// binds values by declared parameter name through each descriptor's access
// path. Required-ness is deliberately not enforced here — that is the
// validation engine's advisory job after freezing.
package hcl
