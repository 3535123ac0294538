// Package main hosts the vocabsub CLI entrypoint and command graph.
//
// The Cobra command tree resolves configuration once, then hands the work to
// the internal packages: annotation runs go through the pipeline, history
// comes from the run store, and doctor reports on external tools and the
// reasoning backend. Add behavior to internal packages first and surface it
// here with flags.
package main
