package payment

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
)

// ErrInvalidSignature — уведомление не прошло проверку подписи.
var ErrInvalidSignature = errors.New("invalid webhook signature")

// ParseSignatureHeader разбирает заголовок x-signature вида "ts=<ts>,v1=<hex>".
func ParseSignatureHeader(header string) (ts, v1 string) {
	for _, part := range strings.Split(header, ",") {
		key, value, ok := strings.Cut(strings.TrimSpace(part), "=")
		if !ok {
			continue
		}
		switch strings.TrimSpace(key) {
		case "ts":
			ts = strings.TrimSpace(value)
		case "v1":
			v1 = strings.TrimSpace(value)
		}
	}
	return ts, v1
}

// NormalizeDataID приводит буквенно-цифровой data.id к нижнему регистру.
func NormalizeDataID(id string) string {
	for _, r := range id {
		if !(r >= '0' && r <= '9' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z') {
			return id
		}
	}
	return strings.ToLower(id)
}

// Manifest — строка, которую подписывает шлюз.
func Manifest(dataID, requestID, ts string) string {
	return "id:" + dataID + ";request-id:" + requestID + ";ts:" + ts + ";"
}

// Sign считает v1 для манифеста.
func Sign(secret, dataID, requestID, ts string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(Manifest(dataID, requestID, ts)))
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifySignature проверяет подпись уведомления. Пустой секрет отклоняет всё.
func VerifySignature(secret, signatureHeader, requestID, dataID string) error {
	if secret == "" || signatureHeader == "" || requestID == "" || dataID == "" {
		return ErrInvalidSignature
	}
	ts, v1 := ParseSignatureHeader(signatureHeader)
	if ts == "" || v1 == "" {
		return ErrInvalidSignature
	}
	expected := Sign(secret, NormalizeDataID(dataID), requestID, ts)
	if !hmac.Equal([]byte(expected), []byte(strings.ToLower(v1))) {
		return ErrInvalidSignature
	}
	return nil
}
