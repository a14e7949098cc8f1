// Package format defines the frozen constants of the serialized module
// format: the file signature, version numbers, block IDs, record kinds,
// and the small stable enumerations embedded in records.
//
// None of the values in this package may be renumbered or reordered once
// released. Changes that break older readers require a VersionMajor bump;
// backwards-compatible additions (new kinds, new trailing fields) require
// a VersionMinor bump.
package format
