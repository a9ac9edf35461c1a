// Package tabular reads the delimited input files that drive imports.
//
// The first line is the header. Every following line becomes a Row keyed by
// header name, so files may order or add columns freely. The delimiter is
// fixed per file (comma by default, semicolon for locales whose spreadsheet
// exports use it).
package tabular
