// Package core defines the contract between the rover brain and the physical motion controller.
//
// A Controller drives the wheels and reads the three distance sensors. Observers receive an
// Event for every call, which is how telemetry listeners see what the vehicle is doing without
// the brain knowing about them.
package core
