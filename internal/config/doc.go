// Package config turns site configuration files into Records.
//
// A configuration is a sequence of directives:
//
//	activate :blog do |blog|
//	  blog.per_page = 10
//	end
//	set :markdown, :fenced_code_blocks => true
//	page "/feed.xml", layout: false
//	configure :build do
//	  activate :minify_css
//	end
//
// The directive language is parsed by package dsl. The same directives can
// be written as YAML or JSON with comments (see Load). Every directive is
// checked against the option schema: unknown names and wrongly typed values
// abort the load with a classified error carrying the file position.
//
// A Record keeps the global options apart from each environment scope.
// Record.Resolve overlays scopes and returns typed Settings with defaults
// filled in. Build constructs a Record from Go values instead of a file.
package config
