// Package hashing строит детерминированный отпечаток элемента для дедупликации
package hashing

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// ExcerptLength - сколько символов текста входит в стабильный ключ
const ExcerptLength = 100

// Hash возвращает hex-представление SHA-256 от стабильного ключа (64 символа)
func Hash(stableKey string) string {
	sum := sha256.Sum256([]byte(stableKey))
	return hex.EncodeToString(sum[:])
}

// StableKey собирает ключ только из неизменяемых фактов об элементе:
// идентичность источника, собственный id элемента и фиксированный фрагмент текста.
// Время получения в ключ не входит.
func StableKey(sourceKey, itemID, text string) string {
	return sourceKey + "|" + itemID + "|" + Excerpt(text, ExcerptLength)
}

// ContentHash - сокращение для Hash(StableKey(...))
func ContentHash(sourceKey, itemID, text string) string {
	return Hash(StableKey(sourceKey, itemID, text))
}

// Excerpt обрезает текст до n рун после нормализации пробелов
func Excerpt(text string, n int) string {
	text = strings.Join(strings.Fields(text), " ")
	runes := []rune(text)
	if len(runes) <= n {
		return text
	}
	return string(runes[:n])
}
