// Package config loads jutus configuration files.
//
// Configuration is written in CUE and checked against an embedded schema, so
// typos in keys and values are reported with file positions:
//
//	lowering: {
//		if_branch: "then"
//		floats:    "reject"
//	}
//	store: path: ".jutus/jutus.db"
//
// Every key is optional; missing keys take the values of Default.
package config
