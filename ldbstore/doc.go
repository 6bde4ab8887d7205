// Package ldbstore checkpoints policy-iteration solutions in a LevelDB
// database, so that long-running solves can be resumed and results
// inspected without rerunning the solver.
//
// Value and policy entries are stored per state under prefixed keys,
// ordered by state index.
package ldbstore
