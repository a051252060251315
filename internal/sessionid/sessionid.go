// Package sessionid mints the identifiers attached to sessions in logs and
// simulator reports: a UUIDv7 written as 26 characters of Crockford base32,
// so IDs sort by creation time.
package sessionid

import (
	"crypto/rand"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
)

// Length is the number of characters in an encoded ID
const Length = 26

// Crockford's base32, lower case
const alphabet = "0123456789abcdefghjkmnpqrstvwxyz"

// Generate returns a new ID using crypto/rand
func Generate() string {
	id, err := GenerateFrom(rand.Reader)
	if err != nil {
		panic("sessionid: " + err.Error())
	}
	return id
}

// GenerateFrom returns a new ID whose random bits come from r. The timestamp
// bits still come from the wall clock.
func GenerateFrom(r io.Reader) (string, error) {
	u, err := uuid.NewV7FromReader(r)
	if err != nil {
		return "", fmt.Errorf("generate uuidv7: %w", err)
	}
	return Encode(u), nil
}

// Encode writes u as 26 base32 characters. The 128 bits are prefixed with two
// zero bits, so the first character is always 0-7.
func Encode(u uuid.UUID) string {
	var out [Length]byte
	for i := range out {
		var v byte
		for b := range 5 {
			v = v<<1 | bit(u, i*5+b-2)
		}
		out[i] = alphabet[v]
	}
	return string(out[:])
}

// Decode parses an encoded ID back into its UUID
func Decode(id string) (uuid.UUID, error) {
	var u uuid.UUID
	if err := Validate(id); err != nil {
		return u, err
	}
	for i := range Length {
		v := strings.IndexByte(alphabet, id[i])
		for b := range 5 {
			pos := i*5 + b - 2
			if pos < 0 || (v>>(4-b))&1 == 0 {
				continue
			}
			u[pos/8] |= 0x80 >> (pos % 8)
		}
	}
	return u, nil
}

// Validate checks that id is 26 lower-case base32 characters starting with 0-7
func Validate(id string) error {
	if len(id) != Length {
		return fmt.Errorf("session ID must be exactly %d characters, got %d", Length, len(id))
	}
	if id[0] > '7' {
		return fmt.Errorf("session ID first character must be 0-7, got %c", id[0])
	}
	for i := range len(id) {
		if strings.IndexByte(alphabet, id[i]) < 0 {
			return fmt.Errorf("invalid character %c at position %d", id[i], i)
		}
	}
	return nil
}

// bit returns bit pos of u counting from the most significant, with negative
// positions reading as zero
func bit(u uuid.UUID, pos int) byte {
	if pos < 0 {
		return 0
	}
	return (u[pos/8] >> (7 - pos%8)) & 1
}
