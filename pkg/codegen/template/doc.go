// Package template defines the template engine contract used to render
// generated file headers and other user-configurable snippets.
package template
