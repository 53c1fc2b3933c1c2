// Package surface implements launcher surfaces shortcuts are published to.
//
// Memory holds the published set in process and enforces its invariants:
// one shortcut per category, contiguous ranks and unique identifiers.
// File additionally mirrors the set into a JSON file read by an external
// launcher. Gates decide whether a surface is reachable right now.
package surface
