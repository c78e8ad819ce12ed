// Package pipeline turns user-supplied text into HTML that is safe to place
// in a generated document or print through the headless browser.
//
// Two inputs reach the printed page:
//   - free-text instructions, converted from Markdown with goldmark (raw HTML
//     is never passed through, ==highlight== becomes <mark>)
//   - editor HTML bodies, cleaned by SanitizeFragment before printing, since
//     the browser loads pages from file:// and would otherwise follow local
//     file references or run scripts
package pipeline
