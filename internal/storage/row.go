package storage

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"strings"
)

const (
	IDSize       = 4
	UsernameSize = 32
	EmailSize    = 255
	RowSize      = IDSize + UsernameSize + EmailSize

	idOffset       = 0
	UsernameOffset = idOffset + IDSize
	EmailOffset    = UsernameOffset + UsernameSize

	// one byte of each string field is kept for the terminator
	MaxUsernameLen = UsernameSize - 1
	MaxEmailLen    = EmailSize - 1
)

type Row struct {
	ID       uint32
	Username string
	Email    string
}

func NewRow(id uint32, username, email string) (Row, error) {
	if len(username) > MaxUsernameLen {
		return Row{}, fmt.Errorf("username %w (>%d)", ErrStringTooLong, MaxUsernameLen)
	}
	if len(email) > MaxEmailLen {
		return Row{}, fmt.Errorf("email %w (>%d)", ErrStringTooLong, MaxEmailLen)
	}
	return Row{ID: id, Username: username, Email: email}, nil
}

// Serialize writes the row into dst at fixed offsets.
// Both string fields are cleared first so a shorter value never leaves
// bytes of a longer one behind
func (r Row) Serialize(dst []byte) error {
	if len(dst) < RowSize {
		return fmt.Errorf("serialize: %w (%d bytes)", ErrSlotTooSmall, len(dst))
	}

	binary.LittleEndian.PutUint32(dst[idOffset:idOffset+IDSize], r.ID)
	writeField(dst[UsernameOffset:UsernameOffset+UsernameSize], r.Username)
	writeField(dst[EmailOffset:EmailOffset+EmailSize], r.Email)
	return nil
}

func DeserializeRow(src []byte) (Row, error) {
	if len(src) < RowSize {
		return Row{}, fmt.Errorf("deserialize: %w (%d bytes)", ErrSlotTooSmall, len(src))
	}

	return Row{
		ID:       binary.LittleEndian.Uint32(src[idOffset : idOffset+IDSize]),
		Username: readField(src[UsernameOffset : UsernameOffset+UsernameSize]),
		Email:    readField(src[EmailOffset : EmailOffset+EmailSize]),
	}, nil
}

func (r Row) String() string {
	return fmt.Sprintf("(%d, %s, %s)", r.ID, r.Username, r.Email)
}

func writeField(field []byte, s string) {
	clear(field)
	copy(field, s)
}

// readField stops at the first NUL inside the field
func readField(field []byte) string {
	if i := bytes.IndexByte(field, 0); i >= 0 {
		field = field[:i]
	}
	return strings.ToValidUTF8(string(field), "\uFFFD")
}
