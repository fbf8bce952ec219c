// Package units converts between box/piece quantities and the canonical piece count.
package units

import "math"

// MaxPieces is the largest piece count a single quantity may hold.
const MaxPieces = math.MaxInt32

// Split is a piece total expressed as whole boxes plus loose pieces.
type Split struct {
	Boxes  int `json:"boxes"`
	Pieces int `json:"pieces"`
}

// PackSize returns the usable pack size, never less than 1.
func PackSize(packSize int) int {
	return max(1, packSize)
}

// Fits reports whether boxes*packSize + pieces can be computed without
// exceeding MaxPieces. Operands beyond MaxPieces in magnitude never fit.
func Fits(boxes, pieces, packSize int) bool {
	ps := PackSize(packSize)
	if ps > MaxPieces || boxes > MaxPieces || boxes < -MaxPieces || pieces > MaxPieces || pieces < -MaxPieces {
		return false
	}
	return boxes <= (MaxPieces-pieces)/ps
}

// ToPieces returns boxes*packSize + pieces, clamped to [0, MaxPieces].
func ToPieces(boxes, pieces, packSize int) int {
	if !Fits(boxes, pieces, packSize) {
		if boxes < 0 && pieces <= MaxPieces {
			return 0
		}
		return MaxPieces
	}
	return max(0, boxes*PackSize(packSize)+pieces)
}

// SplitPieces breaks a piece total into whole boxes and the remainder.
func SplitPieces(total, packSize int) Split {
	ps := PackSize(packSize)
	t := max(0, total)
	return Split{Boxes: t / ps, Pieces: t % ps}
}
