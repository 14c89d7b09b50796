// Package analysis implements the set partitioning and Gutenberg-Richter
// statistics over a sorted earthquake catalog.
//
// The Gutenberg-Richter relation log10 N(M >= m) = a - b*m is fitted with the
// Aki (1965) maximum-likelihood estimator, with Utsu's half-bin correction for
// magnitudes binned at 0.1:
//
//	b  = log10(e) / (mean(M) - (Mc - 0.05))
//	σb = b / sqrt(N)
//	a  = log10(N) - b*Mc
//
// where only events with M >= Mc contribute to N and mean(M).
package analysis
