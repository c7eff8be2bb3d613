// Package config loads csvrc profiles.
//
//	            +-------------+
//	            |   Config    |
//	            |  (Profile)  |
//	            +------+------+
//	                   |
//	   +--------+------+-+--------+
//	   |        |        |        |
//	+--+---+ +--+--+ +---+--+ +---+--+
//	| YAML | | HCL | | JSON | | TOML |
//	+------+ +-----+ +------+ +------+
//
// 🎯 Purpose:
// - Describes the csv dialect a project uses
// - Lists the file patterns batch commands run over
// - Sets batch concurrency and backups
//
// 🔄 Flow:
// 1. Find locates .csvrc.yaml, .csvrc.yml, .csvrc.hcl, .csvrc.json or .csvrc.toml
// 2. GetParser picks the parser registered for the extension
// 3. The parser decodes strictly, unknown fields are errors
// 4. Validate applies defaults and builds the dialect
//
// 🔍 Example:
//
//	dialect:
//	  separator: ";"
//	  escape: ""
//	  associations: {1: name}
//	files: ["data/**/*.csv"]
//	concurrency: 4
//	backup: true
//
// Loading it:
//
//	path, err := config.Find(".")
//	if err != nil {
//		return err
//	}
//	cfg, err := config.Load(ctx, path)
//	if err != nil {
//		return err
//	}
//	d := cfg.CSVDialect()
package config
