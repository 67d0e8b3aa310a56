// Package config loads quickflip settings files.
//
// Settings are YAML. Files ending in .json or .jsonc are accepted too: comments
// and trailing commas are stripped and the result is decoded as YAML, which is
// a superset of JSON.
//
//	version: "1"
//	axis: X
//	space: world
//	object_mode: reflect
//	scope:
//	  mode: collection
//	  collection: Props
//	  include_subcollections: true
//	  include_children: true
//	naming_rules:
//	  - ".L|.R"
//	  - {a: Left, b: Right, mode: infix, case_sensitive: true}
//
// A rule given as a single string is a case-insensitive suffix rule.
// Omitting naming_rules selects the default rule set.
package config
