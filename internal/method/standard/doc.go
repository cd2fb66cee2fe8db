// Package standard implements the four-group standard lacing method.
//
// The rim is split by hole parity between the two flanges (odd holes to the
// right flange, even holes to the left), optionally rotated one position so the
// key spoke sits just right of the valve, and each flange's rim and hub
// sequences are split again by position parity to alternate head orientation.
// Four groups pair a flange with a head orientation; walking the groups in
// install order and zipping rim against hub yields the placements.
package standard
