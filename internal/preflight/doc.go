// Package preflight answers whether a gate run can start: the package root
// and working directory are usable, every target resolves, and every checker
// executable can be found. `checkgate doctor` renders its results.
package preflight
