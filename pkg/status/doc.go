/*
Package status tracks what a batch of csv mutations did to each file.

	            +-------------+
	            |   Status    |
	            |  (Tracking) |
	            +------+------+
	                   |
	      +-----------+-----------+
	      |                       |
	+-----+-----+           +----+----+
	|  Backups  |           |  Logs   |
	| (Restore) |           | (UI/UX) |
	+-----------+           +---------+

🎯 Purpose:
- Backs files up before a rewrite and restores them when the rewrite fails
- Tracks the outcome of every file (modified, unchanged, failed, restored)
- Reports progress while a batch runs

🤝 Interfaces:
- BackupManager: backup, restore and cleanup around one rewrite
- StatusReporter: per-file outcomes plus progress
- FileFormatter: how outcomes and progress read in the logs

Backups carry the manager's run ID in their name, so two runs over the same
tree never clobber each other's copies.

🔍 Example:

	mgr := status.New(".", &logger)
	mgr.StartOperation(ctx, len(files))
	if err := mgr.BackupFile(ctx, path); err != nil {
		return err
	}
	mgr.TrackFile(ctx, path, status.FileInfo{Status: status.StatusModified, Rows: 3})
	mgr.FinishOperation(ctx)
*/
package status
