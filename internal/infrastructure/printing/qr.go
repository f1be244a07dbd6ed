package printing

import (
	"fmt"

	qrcode "github.com/skip2/go-qrcode"
)

// DefaultQRSize is the QR image edge in pixels
const DefaultQRSize = 256

// QRCodePNG encodes an EPC payload as a PNG. The EPC guidelines ask for
// error correction level M. An empty payload yields no image.
func QRCodePNG(payload string, size int) ([]byte, error) {
	if payload == "" {
		return nil, nil
	}
	if size <= 0 {
		size = DefaultQRSize
	}
	png, err := qrcode.Encode(payload, qrcode.Medium, size)
	if err != nil {
		return nil, fmt.Errorf("encode QR code: %w", err)
	}
	return png, nil
}
