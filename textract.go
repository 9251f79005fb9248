// Package textract extracts readable text from a list of web pages and PDF
// documents. Each source is fetched through an ordered chain of relay
// services, decoded according to its format, normalized into reading-order
// plain text and aggregated into a single separator-delimited document.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., goquery/, pdf/, sqlite/, http/).
package textract
