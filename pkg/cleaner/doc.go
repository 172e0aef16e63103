// Package cleaner removes a device and the entities that reference it from
// a Home Assistant .storage directory.
//
// A Cleaner owns the two registry documents for the length of one run:
//
//	Validate -> Load -> RemoveDevice -> (Backup -> Persist)
//
// Run strings these steps together and returns a Result instead of exiting,
// so the whole flow can be driven from tests against an afero filesystem.
// Nothing is written when no record matches or when the run is dry.
package cleaner
