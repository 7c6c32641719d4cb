// Package table loads binding tables: YAML sidecar files that add queries
// and case groups to unions without touching their source.
//
// # Schema
//
//	version: "1"
//	unions:
//	  - name: Environment
//	    queries:
//	      - func All() []Environment, return = Vec
//	    cases:
//	      - variant: Local
//	        bind: 'dataRealm = "local"'
//	      - variant: Staging
//	        bind:
//	          - 'dataRealm = "staging", pushStage = "staging"'
//	          - 'dataRealm = "qa"'
//
// Each bind entry is one case group, written exactly like the text of a
// //bind:case directive; an empty string is a group without bindings,
// like a bare //bind:case. Table groups come after the directive groups of
// the same variant, and table queries after the directive queries.
//
// Every entry remembers its line and column so diagnostics point into the
// table file.
package table
