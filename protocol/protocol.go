// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: protocol/protocol.go
// Summary: Length-prefixed, CRC32-framed binary encoding of a
// streamparse.StreamElement for forwarding a classified stream to a
// remote consumer.

package protocol

import (
	"bytes"
	"encoding/binary"
	"errors"
	"hash/crc32"
	"io"

	"github.com/texelation/streamparse/streamparse"
)

var (
	ErrShortFrame       = errors.New("protocol: frame shorter than declared length")
	ErrChecksumMismatch = errors.New("protocol: checksum mismatch")
	ErrTruncatedPayload = errors.New("protocol: payload truncated")
)

// Encode serialises e into a wire frame: a 4-byte length, a 4-byte CRC32 of
// the payload, then the payload itself.
func Encode(e streamparse.StreamElement) []byte {
	payload := encodePayload(e)

	frame := make([]byte, 8+len(payload))
	binary.LittleEndian.PutUint32(frame[0:4], uint32(len(payload)))
	binary.LittleEndian.PutUint32(frame[4:8], crc32.ChecksumIEEE(payload))
	copy(frame[8:], payload)
	return frame
}

// Decode parses a wire frame produced by Encode back into a StreamElement,
// verifying the CRC32 before decoding the payload. Decode(Encode(e))
// reproduces an element with the same kind, parameters, and raw text.
func Decode(frame []byte) (streamparse.StreamElement, error) {
	if len(frame) < 8 {
		return streamparse.StreamElement{}, ErrShortFrame
	}
	length := binary.LittleEndian.Uint32(frame[0:4])
	wantChecksum := binary.LittleEndian.Uint32(frame[4:8])

	payload := frame[8:]
	if uint32(len(payload)) != length {
		return streamparse.StreamElement{}, ErrShortFrame
	}
	if crc32.ChecksumIEEE(payload) != wantChecksum {
		return streamparse.StreamElement{}, ErrChecksumMismatch
	}

	return decodePayload(payload)
}

// WriteMessage encodes e and writes the resulting frame to w.
func WriteMessage(w io.Writer, e streamparse.StreamElement) error {
	_, err := w.Write(Encode(e))
	return err
}

// ReadMessage reads one frame from r and decodes it back into a
// StreamElement, verifying the CRC32 before decoding the payload.
func ReadMessage(r io.Reader) (streamparse.StreamElement, error) {
	var head [8]byte
	if _, err := io.ReadFull(r, head[:]); err != nil {
		return streamparse.StreamElement{}, err
	}
	length := binary.LittleEndian.Uint32(head[0:4])
	wantChecksum := binary.LittleEndian.Uint32(head[4:8])

	payload := make([]byte, length)
	if _, err := io.ReadFull(r, payload); err != nil {
		if errors.Is(err, io.ErrUnexpectedEOF) {
			return streamparse.StreamElement{}, ErrShortFrame
		}
		return streamparse.StreamElement{}, err
	}

	if crc32.ChecksumIEEE(payload) != wantChecksum {
		return streamparse.StreamElement{}, ErrChecksumMismatch
	}

	return decodePayload(payload)
}

func encodePayload(e streamparse.StreamElement) []byte {
	buf := &bytes.Buffer{}

	if e.IsText {
		buf.WriteByte(1)
	} else {
		buf.WriteByte(0)
	}

	writeString16(buf, string(e.Kind))

	var paramCount [2]byte
	binary.LittleEndian.PutUint16(paramCount[:], uint16(len(e.Parameters)))
	buf.Write(paramCount[:])
	for _, p := range e.Parameters {
		writeString16(buf, p)
	}

	writeString32(buf, e.RawText)
	writeString32(buf, e.Text)

	return buf.Bytes()
}

func decodePayload(payload []byte) (streamparse.StreamElement, error) {
	r := bytes.NewReader(payload)

	isTextByte, err := r.ReadByte()
	if err != nil {
		return streamparse.StreamElement{}, ErrTruncatedPayload
	}

	kind, err := readString16(r)
	if err != nil {
		return streamparse.StreamElement{}, err
	}

	var paramCountBuf [2]byte
	if _, err := io.ReadFull(r, paramCountBuf[:]); err != nil {
		return streamparse.StreamElement{}, ErrTruncatedPayload
	}
	paramCount := binary.LittleEndian.Uint16(paramCountBuf[:])

	var params []string
	for i := uint16(0); i < paramCount; i++ {
		p, err := readString16(r)
		if err != nil {
			return streamparse.StreamElement{}, err
		}
		params = append(params, p)
	}

	rawText, err := readString32(r)
	if err != nil {
		return streamparse.StreamElement{}, err
	}
	text, err := readString32(r)
	if err != nil {
		return streamparse.StreamElement{}, err
	}

	if isTextByte == 1 {
		return streamparse.NewTextElement(text), nil
	}
	return streamparse.NewControlSequenceElement(rawText, streamparse.ControlSequenceType(kind), params), nil
}

func writeString16(buf *bytes.Buffer, s string) {
	var length [2]byte
	binary.LittleEndian.PutUint16(length[:], uint16(len(s)))
	buf.Write(length[:])
	buf.WriteString(s)
}

func writeString32(buf *bytes.Buffer, s string) {
	var length [4]byte
	binary.LittleEndian.PutUint32(length[:], uint32(len(s)))
	buf.Write(length[:])
	buf.WriteString(s)
}

func readString16(r *bytes.Reader) (string, error) {
	var length [2]byte
	if _, err := io.ReadFull(r, length[:]); err != nil {
		return "", ErrTruncatedPayload
	}
	n := binary.LittleEndian.Uint16(length[:])
	s := make([]byte, n)
	if _, err := io.ReadFull(r, s); err != nil {
		return "", ErrTruncatedPayload
	}
	return string(s), nil
}

func readString32(r *bytes.Reader) (string, error) {
	var length [4]byte
	if _, err := io.ReadFull(r, length[:]); err != nil {
		return "", ErrTruncatedPayload
	}
	n := binary.LittleEndian.Uint32(length[:])
	s := make([]byte, n)
	if _, err := io.ReadFull(r, s); err != nil {
		return "", ErrTruncatedPayload
	}
	return string(s), nil
}
