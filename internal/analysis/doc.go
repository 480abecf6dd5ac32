// Package analysis provides spectral analysis of a recorded scalar time
// series, such as a run's kinetic-energy history, via [FFT] and
// [PowerSpectrum]. A dominant non-zero frequency in the power spectrum
// typically indicates a sloshing or oscillation mode in the fluid.
package analysis
