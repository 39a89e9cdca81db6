// Package reference models the lookup entries an order points at: carriers,
// zones, routes ("vueltas") and preparation groups.
//
// Entries are resolved by name, case-insensitively, and are never deleted.
// Deactivation hides an entry from new selections while orders that already
// reference it keep a valid link.
package reference
