package qr

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/skip2/go-qrcode"

	"ms-ticketing-gateway/internal/models"
)

// TicketPayload is what a scanner decodes from the QR image: enough to find
// the ticket and its booking, nothing more.
type TicketPayload struct {
	Reference  string    `json:"reference"`
	BookingRef string    `json:"booking"`
	TicketType string    `json:"ticket_type"`
	IssuedAt   time.Time `json:"issued_at"`
}

type Generator struct {
	secret []byte
}

// NewGenerator normalizes any secret to a 32-byte AES key.
func NewGenerator(secret string) *Generator {
	hashed := sha256.Sum256([]byte(secret))
	return &Generator{secret: hashed[:]}
}

// TicketQR renders the encrypted ticket payload as a 256px PNG QR code.
func (g *Generator) TicketQR(ticket models.Ticket) ([]byte, error) {
	payload := TicketPayload{
		Reference:  ticket.Reference,
		BookingRef: ticket.BookingRef,
		TicketType: ticket.TicketTypeName,
		IssuedAt:   time.Now(),
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode ticket payload: %w", err)
	}

	encrypted, err := encryptAES(data, g.secret)
	if err != nil {
		return nil, fmt.Errorf("failed to encrypt ticket payload: %w", err)
	}

	return qrcode.Encode(encrypted, qrcode.Medium, 256)
}

// DecodePayload reverses TicketQR's encryption for scanner verification.
func (g *Generator) DecodePayload(encrypted string) (*TicketPayload, error) {
	data, err := decryptAES(encrypted, g.secret)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt QR data: %w", err)
	}

	var payload TicketPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("failed to decode ticket payload: %w", err)
	}
	return &payload, nil
}

func encryptAES(data []byte, key []byte) (string, error) {
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

func decryptAES(encoded string, key []byte) ([]byte, error) {
	ciphertext, err := base64.URLEncoding.DecodeString(encoded)
	if err != nil {
		return nil, err
	}
	if len(ciphertext) < aes.BlockSize {
		return nil, errors.New("ciphertext too short")
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}

	iv := ciphertext[:aes.BlockSize]
	data := make([]byte, len(ciphertext)-aes.BlockSize)

	stream := cipher.NewCFBDecrypter(block, iv)
	stream.XORKeyStream(data, ciphertext[aes.BlockSize:])

	return data, nil
}
