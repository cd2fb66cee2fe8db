// Package method defines the lacing-method contract shared by every pattern
// generator: the typed parameter schema and its total coercion, the method
// descriptor, named steps with the group filter, and the registry that the
// application builds once at startup.
//
// Raw parameter mappings coming from HTTP bodies, presets or the CLI are only
// ever handled by Resolve. Generators receive the coerced Values (or their own
// typed projection of them) and never see the raw mapping.
package method
