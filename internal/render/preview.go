package render

import "strings"

// Preview draws the bitmap with half-block characters, two module rows per
// terminal line. The result uses the terminal's own colors: "█" marks dark
// modules on both rows, "▀" and "▄" mark the upper or lower row only.
func (s *Surface) Preview() []string {
	return PreviewBitmap(s.Bitmap)
}

// PreviewBitmap renders any module grid; see Surface.Preview
func PreviewBitmap(bitmap [][]bool) []string {
	lines := make([]string, 0, (len(bitmap)+1)/2)
	for y := 0; y < len(bitmap); y += 2 {
		var b strings.Builder
		for x := range bitmap[y] {
			top := bitmap[y][x]
			bottom := y+1 < len(bitmap) && bitmap[y+1][x]
			switch {
			case top && bottom:
				b.WriteString("█")
			case top:
				b.WriteString("▀")
			case bottom:
				b.WriteString("▄")
			default:
				b.WriteByte(' ')
			}
		}
		lines = append(lines, b.String())
	}
	return lines
}
