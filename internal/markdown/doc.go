// Package markdown renders Markdown documents with entity chips. It wraps
// goldmark with an AST transformer that fuses "@" prefixed links into
// mention chips and scans text nodes for mentions and platform URLs, plus a
// filesystem loader that reads front matter toggles per document.
package markdown
