package image

// Pixel is a decoded pixel. Valid is false for a position that has never been
// decoded, which is every position before the first frame.
type Pixel struct {
	Color
	Valid bool
}

// decodeGroup decodes one 9 byte group into dst, copying unchanged pixels
// from prev. Both dst and prev hold exactly 8 pixels. An unchanged pixel with
// no previous value is decoded as black and the offset of the first such
// pixel is returned, otherwise -1.
func decodeGroup(dst, prev []Pixel, group []byte, p *Palette) int {
	ctrl, idx := group[0], group[1:groupBytes]
	missing := -1
	for bit := 0; bit < groupPixels; bit++ {
		if ctrl&(0x80>>uint(bit)) == 0 {
			dst[bit] = Pixel{p[idx[bit]], true}
			continue
		}
		if prev[bit].Valid {
			dst[bit] = prev[bit]
			continue
		}
		if missing < 0 {
			missing = bit
		}
		dst[bit] = Pixel{Valid: true}
	}
	return missing
}
