// Package operation implements the csv table mutations.
//
//	+-------------+
//	|   Manager   |
//	| (One File)  |
//	+------+------+
//	       |
//	+------+------+
//	|  Transform  |
//	| (New Table) |
//	+------+------+
//	       |
//	+------+------+
//	|   Runner    |
//	| (Many Files)|
//	+-------------+
//
// 🎯 Purpose:
// - Reads and writes one delimited file through a dialect
// - Deletes columns and rows and renames headers
// - Extracts selected columns or rows
// - Applies one mutation to many files matched by glob patterns
//
// 🔄 Flow of a structural edit:
// 1. Open the file read-only and decode every row
// 2. Build a new table with a Transform, the table read is never modified
// 3. Open the file in truncate mode and encode the new table
// 4. Close the handle on every path
//
// ⚡ Key Properties:
// - Every call re-reads the file, nothing is cached
// - Exactly one handle is open per call
// - Empty inputs return false without touching the file
// - Whole-table reads ignore associations, selective reads apply them
//
// 🤝 Interfaces:
// - Source: the file being managed, checked when the Manager is built
// - fileop.Operations: opens and closes handles
// - status.StatusReporter and status.BackupManager: used by the Runner
//
// 🔍 Example:
//
//	mgr, err := operation.NewManager(ctx, fileop.NewCSVFile("people.csv"), dialect.Default(), fileop.OS{})
//	if err != nil {
//		return err
//	}
//	ok, err := mgr.DeleteColumn(ctx, []int{1})
//
// Batch edits compose transforms and hand them to a Runner:
//
//	runner := operation.NewRunner(operation.RunnerOptions{Concurrency: 4})
//	results, err := runner.Run(ctx, []string{"data/**/*.csv"},
//		operation.DeleteLines(0).Then(operation.DeleteColumns(2)))
package operation
