// Package pipeline orchestrates the one-shot fetch, download, subtitle, and
// mux sequence.
//
// There is no state machine and no parallelism: each step either succeeds
// and feeds the next, or fails the run. Files written before a failure stay
// on disk; the download and subtitle steps skip work whose destination
// already exists, so rerunning after a failure resumes where it stopped.
package pipeline
