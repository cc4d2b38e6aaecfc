// Package command implements the mddiff command line: flag definitions with
// their environment & config file sources, option validation and the run
// that loads, compares & prints documents.
package command
