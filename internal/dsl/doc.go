// Package dsl parses the declarative site configuration language.
//
// The language is the small statement subset used by static-site
// configuration files:
//
//	activate :syntax, line_numbers: true
//
//	activate :blog do |blog|
//	  blog.per_page = 10
//	end
//
//	set :markdown, :fenced_code_blocks => true, :smartypants => true
//	page "/feed.xml", layout: false
//
//	configure :build do
//	  activate :minify_css
//	end
//
// Parse only checks syntax and returns positioned Directives. Deciding
// which directive names and options exist is left to the config package.
package dsl
