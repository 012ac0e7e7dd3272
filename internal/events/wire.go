package events

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// Kafka header keys set on every published record.
const (
	HeaderEventType     = "event_type"
	HeaderUserID        = "user_id"
	HeaderSchemaSubject = "schema_subject"
)

// Confluent wire format: one magic byte, a big-endian schema id, then the
// JSON payload.
const (
	magicByte    = 0
	frameHeader  = 5
	schemaIDSize = 4
)

var ErrBadFrame = errors.New("malformed schema registry frame")

// Frame prefixes payload with the magic byte and schemaID.
func Frame(schemaID int, payload []byte) []byte {
	out := make([]byte, frameHeader+len(payload))
	out[0] = magicByte
	binary.BigEndian.PutUint32(out[1:1+schemaIDSize], uint32(schemaID))
	copy(out[frameHeader:], payload)
	return out
}

// Unframe splits a framed value into its schema id and a copy of the payload.
func Unframe(value []byte) (int, []byte, error) {
	if len(value) < frameHeader {
		return 0, nil, fmt.Errorf("%w: %d bytes", ErrBadFrame, len(value))
	}
	if value[0] != magicByte {
		return 0, nil, fmt.Errorf("%w: magic byte %d", ErrBadFrame, value[0])
	}
	id := int(binary.BigEndian.Uint32(value[1 : 1+schemaIDSize]))
	return id, append([]byte(nil), value[frameHeader:]...), nil
}
