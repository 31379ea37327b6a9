// Package cleanplate extracts structured recipe data (title, ingredients,
// instructions, metadata) from arbitrary recipe web pages. It parses
// embedded structured data first, falls back to heuristic DOM scanning,
// filters scraping noise and scores how much the result can be trusted.
//
// This package contains domain types, interfaces and the pure domain logic
// (noise filtering, confidence scoring, text normalization) following Ben
// Johnson's Standard Package Layout. It imports only small helper libraries
// for text, dates and JSON; fetching, parsing and storage live in
// subdirectories named after their primary dependency (e.g., goquery/,
// http/, sqlite/, gin/).
package cleanplate
