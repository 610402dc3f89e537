package shot

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"image"
	"image/draw"
	"os"
	"time"

	"golang.org/x/image/bmp"
)

// BMP file layout written by EncodeBMP: a 14-byte file header, a
// 40-byte info header (32 bits per pixel, uncompressed, bottom-up),
// then raw BGRA pixel rows padded to a 4-byte boundary.
const (
	bmpFileHeaderSize = 14
	bmpInfoHeaderSize = 40
	bmpPixelOffset    = bmpFileHeaderSize + bmpInfoHeaderSize
)

// bmpStride returns the padded byte length of one 32bpp pixel row.
func bmpStride(width int) int {
	return ((width*32 + 31) / 32) * 4
}

// EncodeBMP serializes img as an uncompressed 32-bit BMP. Total size
// and pixel-data offset are computed from the actual payload length.
// The source image is not modified.
func EncodeBMP(img *image.RGBA) []byte {
	b := img.Bounds()
	width, height := b.Dx(), b.Dy()
	stride := bmpStride(width)
	pixelDataSize := stride * height

	var buf bytes.Buffer
	buf.Grow(bmpPixelOffset + pixelDataSize)

	// File header: magic, total size, reserved, pixel-data offset.
	buf.WriteString("BM")
	binary.Write(&buf, binary.LittleEndian, uint32(bmpPixelOffset+pixelDataSize))
	binary.Write(&buf, binary.LittleEndian, uint16(0))
	binary.Write(&buf, binary.LittleEndian, uint16(0))
	binary.Write(&buf, binary.LittleEndian, uint32(bmpPixelOffset))

	// Info header. Positive height selects bottom-up row order.
	binary.Write(&buf, binary.LittleEndian, uint32(bmpInfoHeaderSize))
	binary.Write(&buf, binary.LittleEndian, int32(width))
	binary.Write(&buf, binary.LittleEndian, int32(height))
	binary.Write(&buf, binary.LittleEndian, uint16(1))  // color planes
	binary.Write(&buf, binary.LittleEndian, uint16(32)) // bits per pixel
	binary.Write(&buf, binary.LittleEndian, uint32(0))  // BI_RGB, uncompressed
	binary.Write(&buf, binary.LittleEndian, uint32(0))  // image size, 0 allowed for BI_RGB
	binary.Write(&buf, binary.LittleEndian, int32(0))   // x pixels per meter
	binary.Write(&buf, binary.LittleEndian, int32(0))   // y pixels per meter
	binary.Write(&buf, binary.LittleEndian, uint32(0))  // colors used
	binary.Write(&buf, binary.LittleEndian, uint32(0))  // important colors

	// Pixel rows, bottom-up, BGRA.
	row := make([]byte, stride)
	for y := height - 1; y >= 0; y-- {
		src := img.Pix[y*img.Stride:]
		for x := 0; x < width; x++ {
			row[x*4+0] = src[x*4+2] // B
			row[x*4+1] = src[x*4+1] // G
			row[x*4+2] = src[x*4+0] // R
			row[x*4+3] = src[x*4+3] // A
		}
		for i := width * 4; i < stride; i++ {
			row[i] = 0
		}
		buf.Write(row)
	}

	return buf.Bytes()
}

// DecodeBMP parses BMP data back into an RGBA image. Decoding is
// delegated to the stock bmp reader rather than re-implementing the
// format; anything that reader accepts is accepted here.
func DecodeBMP(data []byte) (*image.RGBA, error) {
	src, err := bmp.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode BMP: %w", err)
	}
	if rgba, ok := src.(*image.RGBA); ok {
		return rgba, nil
	}
	rgba := image.NewRGBA(src.Bounds())
	draw.Draw(rgba, rgba.Bounds(), src, src.Bounds().Min, draw.Src)
	return rgba, nil
}

// WriteBMPFile writes the shot's image to its FileName.
func (s *Shot) WriteBMPFile() error {
	if s.Empty() {
		return fmt.Errorf("cannot save an empty screenshot")
	}
	if s.FileName == "" {
		return fmt.Errorf("screenshot has no file name")
	}
	return os.WriteFile(s.FileName, EncodeBMP(s.img), 0644)
}

// LoadBMPFile reads new image data for the shot from a BMP file. The
// shot keeps its previous contents untouched unless the whole file
// validates: only then is the old image discarded and replaced.
func (s *Shot) LoadBMPFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	img, err := DecodeBMP(data)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	s.Release()
	s.setImage(img)
	s.FileName = path
	return nil
}

// timestampLayout matches the on-disk screenshot name format,
// "YYYY-MM-DDThh-mm-ss" with a literal T.
const timestampLayout = "2006-01-02T15-04-05"

// ChooseFileName picks an unused screenshot path under dir for a
// capture taken at now. When the timestamp-derived name is taken, an
// "s02".."s99" suffix disambiguates ("s" for shot). Failing to find a
// free name after 99 tries in the same second is treated as impossible
// and reported as an error the caller escalates to fatal.
func ChooseFileName(dir string, now time.Time, exists func(string) bool) (string, error) {
	base := now.Format(timestampLayout)
	for suffixNumber := 1; suffixNumber < 100; suffixNumber++ {
		suffix := ""
		if suffixNumber > 1 {
			suffix = fmt.Sprintf("s%02d", suffixNumber)
		}
		name := fmt.Sprintf("%s/%s%s.bmp", dir, base, suffix)
		if !exists(name) {
			return name, nil
		}
	}
	return "", fmt.Errorf("failed to pick a unique file name under %s for %s", dir, base)
}

// PathExists is the default existence probe for ChooseFileName.
func PathExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
