// Package shopparse converts saved marketplace HTML pages into validated,
// typed product records. It classifies a page as a category listing, a
// keyword search result, a shop listing or a product detail page, applies
// the matching extraction strategy, and hands the records to a sink for
// tabular output.
//
// This package contains domain types, pure normalizers and interfaces.
// Implementations live in subdirectories named after their primary
// dependency (e.g., goquery/, sqlite/, bloom/).
package shopparse
