package utils

import qrcode "github.com/skip2/go-qrcode"

// QRImageSize is the rendered PNG edge length in pixels.
const QRImageSize = 256

// EncodeClaimCodeQR renders the claim code as a PNG QR image. Only the public
// lookup code is ever encoded; the PIN stays a human-relayed secret so that
// possession of the image alone cannot redeem the claim.
func EncodeClaimCodeQR(code string) ([]byte, error) {
	return qrcode.Encode(code, qrcode.Medium, QRImageSize)
}
