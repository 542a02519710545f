package dither

// bayer8x8 holds k for thresholds k/64, indexed [y%8][x%8].
var bayer8x8 = [8][8]uint8{
	{0, 32, 8, 40, 2, 34, 10, 42},
	{48, 16, 56, 24, 50, 18, 58, 26},
	{12, 44, 4, 36, 14, 46, 6, 38},
	{60, 28, 52, 20, 62, 30, 54, 22},
	{3, 35, 11, 43, 1, 33, 9, 41},
	{51, 19, 59, 27, 49, 17, 57, 25},
	{15, 47, 7, 39, 13, 45, 5, 37},
	{63, 31, 55, 23, 61, 29, 53, 21},
}

// matrix4x4 holds m for thresholds m/16, indexed [y%4][x%4].
var matrix4x4 = [4][4]uint8{
	{0, 8, 2, 10},
	{12, 4, 14, 6},
	{3, 11, 1, 9},
	{15, 7, 13, 5},
}

const orderedSpread = 32

// threshold returns the normalized threshold for pixel (x, y).
type threshold func(x, y int) float32

func bayerThreshold(x, y int) float32 {
	return float32(bayer8x8[y%8][x%8]) / 64
}

func matrixThreshold(x, y int) float32 {
	return float32(matrix4x4[y%4][x%4]) / 16
}

// bias is the offset added to all three channels of a pixel.
func bias(t float32) float32 {
	return (t - 0.5) * orderedSpread
}
