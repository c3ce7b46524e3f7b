// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package mdd

import "math/big"

// functions for prime number calculations, used to size the arena and the
// computed-table caches. This is generic numeric bookkeeping, not domain
// logic, so it needs no per-variant adaptation.

func hasFactor(src int, n int) bool {
	return (src != n) && (src%n == 0)
}

func hasEasyFactors(src int) bool {
	return hasFactor(src, 3) || hasFactor(src, 5) || hasFactor(src, 7) || hasFactor(src, 11) || hasFactor(src, 13)
}

// primeGte returns the smallest prime >= src.
func primeGte(src int) int {
	if src <= 2 {
		return 2
	}
	if src%2 == 0 {
		src++
	}
	for {
		if hasEasyFactors(src) {
			src += 2
			continue
		}
		// ProbablyPrime is 100% accurate for inputs less than 2⁶⁴.
		if big.NewInt(int64(src)).ProbablyPrime(0) {
			return src
		}
		src += 2
	}
}

// primeLte returns the largest prime <= src.
func primeLte(src int) int {
	if src < 2 {
		return 1
	}
	if src == 2 {
		return 2
	}
	if src%2 == 0 {
		src--
	}
	for {
		if hasEasyFactors(src) {
			src -= 2
			continue
		}
		if big.NewInt(int64(src)).ProbablyPrime(0) {
			return src
		}
		src -= 2
	}
}
