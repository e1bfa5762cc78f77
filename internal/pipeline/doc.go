// Package pipeline builds the HTML document for a training convention:
// structured sections rendered from an embedded template set, legal clauses
// converted from Markdown, and CSS injected into the final document.
package pipeline
