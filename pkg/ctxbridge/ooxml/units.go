package ooxml

// EMUPerPixel is the number of EMUs (English Metric Units) per pixel at 96 DPI.
// 1 inch = 914400 EMU, 1 inch = 96 pixels at 96 DPI
// Therefore: 914400 / 96 = 9525 EMU per pixel
const EMUPerPixel = 9525

// EMUPerPoint is the number of EMUs per typographic point (1/72 inch).
const EMUPerPoint = 12700

// EMUToPixels converts EMU to pixels at 96 DPI.
func EMUToPixels(emu int64) int {
	return int(emu / EMUPerPixel)
}

// PointsToEMU converts points to EMU, rounding to the nearest unit.
func PointsToEMU(pt float64) int64 {
	if pt < 0 {
		return int64(pt*EMUPerPoint - 0.5)
	}
	return int64(pt*EMUPerPoint + 0.5)
}

// EMUToPoints converts EMU to points.
func EMUToPoints(emu int64) float64 {
	return float64(emu) / EMUPerPoint
}

// HundredthPoints converts a font size in points to the DrawingML sz unit.
func HundredthPoints(pt float64) int {
	return int(pt*100 + 0.5)
}

// HalfPoints converts a font size in points to the WordprocessingML sz unit.
func HalfPoints(pt float64) int {
	return int(pt*2 + 0.5)
}
