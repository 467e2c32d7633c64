package engine

import "math"

// HeightField owns the depth matrix with a padded (halo) border,
// grounded on the original engine's Image_Matrix: a luminance copy of the
// source pixels scaled into physical Z units, bordered with a sentinel
// halo so the tool can never "see" past the image edge.
//
// Interior cells are addressed (row, col) with row in [0,Rows) and col in
// [0,Cols); the halo extends Halo cells past each edge and reads back
// negative infinity, matching Image_Matrix.pad_w_zeros's -1e10 sentinel.
type HeightField struct {
	Rows, Cols int
	Halo       int
	stride     int
	data       []float32
}

// NewHeightField builds a Height Field from a row-major grayscale pixel
// buffer (values 0..255) per spec.md §4.1's five construction steps.
func NewHeightField(pixels [][]float64, cfg *Config, halo int) (*HeightField, error) {
	rows := len(pixels)
	if rows == 0 {
		return nil, &ImageError{Message: "empty pixel buffer"}
	}
	cols := len(pixels[0])
	if cols == 0 {
		return nil, &ImageError{Message: "empty pixel buffer"}
	}
	for _, row := range pixels {
		if len(row) != cols {
			return nil, &ImageError{Message: "pixel buffer rows have inconsistent width"}
		}
	}

	minV, maxV := pixels[0][0], pixels[0][0]
	for _, row := range pixels {
		for _, v := range row {
			if v < minV {
				minV = v
			}
			if v > maxV {
				maxV = v
			}
		}
	}

	hf := &HeightField{Rows: rows, Cols: cols, Halo: halo}
	hf.stride = cols + 2*halo
	hf.data = make([]float32, hf.stride*(rows+2*halo))
	for i := range hf.data {
		hf.data[i] = float32(math.Inf(-1))
	}

	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			v := pixels[r][c]
			if cfg.Normalize && maxV != minV {
				v = (v - minV) / (maxV - minV)
			} else {
				v = v / 255.0
			}
			v *= cfg.ZCut
			if cfg.Invert {
				v = -v
			} else {
				v -= cfg.ZCut
			}
			hf.set(r, c, float32(v))
		}
	}
	return hf, nil
}

func (h *HeightField) index(row, col int) int {
	return (row+h.Halo)*h.stride + (col + h.Halo)
}

func (h *HeightField) set(row, col int, v float32) {
	h.data[h.index(row, col)] = v
}

// At returns the height at (row, col), which may reach into the halo.
// Cells beyond the halo (should not occur given a correctly sized halo)
// also read back negative infinity.
func (h *HeightField) At(row, col int) float32 {
	if row < -h.Halo || row >= h.Rows+h.Halo || col < -h.Halo || col >= h.Cols+h.Halo {
		return float32(math.Inf(-1))
	}
	return h.data[h.index(row, col)]
}

// Min returns the minimum value over the non-halo interior.
func (h *HeightField) Min() float32 {
	m := h.At(0, 0)
	for r := 0; r < h.Rows; r++ {
		for c := 0; c < h.Cols; c++ {
			if v := h.At(r, c); v < m {
				m = v
			}
		}
	}
	return m
}

// Max returns the maximum value over the non-halo interior.
func (h *HeightField) Max() float32 {
	m := h.At(0, 0)
	for r := 0; r < h.Rows; r++ {
		for c := 0; c < h.Cols; c++ {
			if v := h.At(r, c); v > m {
				m = v
			}
		}
	}
	return m
}
