// Package analysis turns recorded spin-top runs into numbers and pictures.
//
//   - [WobbleSpectrum]: power spectrum of the tilt signal
//   - [DominantFrequency]: strongest wobble frequency
//   - [GeneratePath]: ground-plane track of the top
//   - [PathToASCII]: character plot of a track
//
// # Wobble
//
// A top that precesses before it settles shows a clear peak:
//
//	spec := analysis.WobbleSpectrum(result.Samples, cfg.Dt)
//	freq, _ := analysis.DominantFrequency(spec)
package analysis
