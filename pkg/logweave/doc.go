// Package logweave turns unstructured log lines into structured events by
// matching them against a catalog of templates, then resolves cross-line
// context values by walking each event's dominance chain backwards
// through recent history.
//
// Templates mix literal text with named placeholders:
//
//	Starting job {job}
//	Job {job} finished with code {code}
//
// Each template carries an optional dominator reference: the id of the
// template whose occurrences logically enclose or precede its own,
// derived externally from control-flow analysis of the program that
// produced the logs. When a line matches, the values bound by recent
// occurrences of its dominator chain are surfaced alongside the match.
//
// Typical use:
//
//	p, err := logweave.New(logweave.WithLookback(10))
//	...
//	err = p.LoadCatalog("templates.csv")
//	...
//	values, err := p.Parse("Starting job 7")
package logweave
