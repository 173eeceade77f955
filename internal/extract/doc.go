// Package extract turns uploaded résumé files into plain text.
//
// Extraction reads the embedded text layer only. A scanned PDF without one
// yields empty text, which callers report as "no text found".
package extract
