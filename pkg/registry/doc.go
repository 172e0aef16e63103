// Package registry models the Home Assistant device and entity registries.
//
// A registry file is kept as an order-preserving tree of raw JSON values, so
// a load followed by a persist changes nothing but whitespace. On top of that
// tree the package exposes typed Device and Entity records, validated on
// load, and the two list operations the cleaner is built from:
// FindMatchingIndices and RemoveByIndices.
package registry
