// Package language normalizes subtitle and configuration language codes.
//
// Embedded stream tags, subtitle file suffixes, and configured wanted
// languages arrive as ISO 639-1 codes, ISO 639-2 codes (terminologic or
// bibliographic), or English words. Everything is folded to a canonical
// ISO 639-2/T code so the subtitle gate compares like with like. Codes outside
// the built-in table fall back to golang.org/x/text/language.
package language
