package imagepkg

import (
	qrcode "github.com/skip2/go-qrcode"
)

// GenerateQRPNG returns PNG bytes of a QR code for the given text.
func GenerateQRPNG(text string, size int) ([]byte, error) {
	return qrcode.Encode(text, qrcode.Medium, size)
}

// SiteQRLogo encodes https://<site> as a QR code to stand in for a missing logo.
func SiteQRLogo(site string, size int) ([]byte, error) {
	if site == "" {
		site = "localhost"
	}
	return GenerateQRPNG("https://"+site, size)
}
