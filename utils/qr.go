package utils

import qrcode "github.com/skip2/go-qrcode"

// GenerateQR renders content as a PNG QR code.
func GenerateQR(content string) ([]byte, error) {
	return qrcode.Encode(content, qrcode.Medium, 256)
}
