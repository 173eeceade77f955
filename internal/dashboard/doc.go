// Package dashboard is the client side of the parser: it uploads résumés to
// the HTTP service, repairs raw model replies that the service could not
// parse, and renders the result as a text dashboard with a CSV export.
package dashboard
