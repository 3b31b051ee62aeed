// Package pagedrift compares locally authored draft documents against the
// live pages they are meant to match. It normalizes both sides into
// sequences of comparable text blocks, aligns them with fuzzy similarity and
// renders the alignment as HTML and Markdown reports.
//
// This package contains domain types, the normalization and alignment core,
// and interfaces following Ben Johnson's Standard Package Layout.
// Implementations live in subdirectories named after their primary
// dependency (e.g., goquery/, docx/, difflib/).
package pagedrift
