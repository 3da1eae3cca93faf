package booking

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"io"
	"time"

	"github.com/skip2/go-qrcode"

	"tour-booking/internal/models"
)

// checkInPayload is what a gate scanner decrypts from the QR code.
type checkInPayload struct {
	BookingID    string `json:"bookingId"`
	CustomerName string `json:"customerName"`
	BookingDate  string `json:"bookingDate"`
	Guests       int    `json:"guests"`
	IssuedAt     int64  `json:"issuedAt"`
}

// QRGenerator produces encrypted check-in codes for confirmed bookings.
type QRGenerator struct {
	secret []byte
}

func NewQRGenerator(secret string) *QRGenerator {
	hashed := sha256.Sum256([]byte(secret))
	return &QRGenerator{secret: hashed[:]}
}

// GenerateCheckInQR returns a PNG QR code whose content is the AES-encrypted
// booking summary, so a stolen image cannot be forged for another booking.
func (q *QRGenerator) GenerateCheckInQR(b *models.Booking) ([]byte, error) {
	data, err := json.Marshal(checkInPayload{
		BookingID:    b.ID,
		CustomerName: b.CustomerName,
		BookingDate:  b.BookingDate.Format("2006-01-02"),
		Guests:       b.NumberOfGuests,
		IssuedAt:     time.Now().Unix(),
	})
	if err != nil {
		return nil, err
	}

	encrypted, err := encryptAES(data, q.secret)
	if err != nil {
		return nil, err
	}

	return qrcode.Encode(encrypted, qrcode.Medium, 256)
}

func encryptAES(data, key []byte) (string, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return "", err
	}

	ciphertext := make([]byte, aes.BlockSize+len(data))
	iv := ciphertext[:aes.BlockSize]
	if _, err := io.ReadFull(rand.Reader, iv); err != nil {
		return "", err
	}

	stream := cipher.NewCFBEncrypter(block, iv)
	stream.XORKeyStream(ciphertext[aes.BlockSize:], data)

	return base64.URLEncoding.EncodeToString(ciphertext), nil
}
