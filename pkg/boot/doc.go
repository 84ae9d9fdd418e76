// Package boot prepares the cmake build directory of the project and runs the configure step.
// It resolves the directory of the running entry point, creates out/build below it and invokes
// cmake through mvdan.cc/sh so that the arguments never pass through string interpolation.
package boot
