// Package testutil provides test environments for piplayer packages.
//
// An environment is either memory-only, backed by afero's MemMapFs, or
// isolated on the real filesystem under a temporary directory. Both point
// the XDG state and config directories at throwaway locations and clear
// PIPLAYER_ variables, so tests never read or write the developer's own
// configuration or logs.
package testutil
