package storage

import (
	"bytes"
	"encoding/base64"
	"strings"
	"testing"

	"chirper/errs"
)

// pngHeader is enough of a PNG for content type sniffing.
var pngHeader = []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A, 0, 0, 0, 0}

func TestDecodePayload(t *testing.T) {
	encoded := base64.StdEncoding.EncodeToString(pngHeader)

	for _, payload := range []string{encoded, "data:image/png;base64," + encoded} {
		data, contentType, err := decodePayload(payload)
		if err != nil {
			t.Fatalf("decode: %v", err)
		}
		if !bytes.Equal(data, pngHeader) {
			t.Fatal("decoded bytes differ from input")
		}
		if contentType != "image/png" {
			t.Fatalf("expected image/png, got %s", contentType)
		}
	}
}

func TestDecodePayloadRejectsGarbage(t *testing.T) {
	if _, _, err := decodePayload("data:image/png;base64"); errs.ErrorCode(err) != errs.EINVALID {
		t.Fatalf("expected EINVALID for data URL without comma, got %v", err)
	}
	if _, _, err := decodePayload("%%%not-base64%%%"); errs.ErrorCode(err) != errs.EINVALID {
		t.Fatalf("expected EINVALID for bad base64, got %v", err)
	}
	text := base64.StdEncoding.EncodeToString([]byte("just some text, not an image"))
	if _, _, err := decodePayload(text); errs.ErrorCode(err) != errs.EINVALID {
		t.Fatalf("expected EINVALID for non-image payload, got %v", err)
	}
}

func TestDecodePayloadRejectsOversized(t *testing.T) {
	big := append([]byte{}, pngHeader...)
	big = append(big, bytes.Repeat([]byte{0}, MaxUploadSize)...)
	encoded := base64.StdEncoding.EncodeToString(big)
	_, _, err := decodePayload(encoded)
	if errs.ErrorCode(err) != errs.EINVALID {
		t.Fatalf("expected EINVALID for oversized payload, got %v", err)
	}
	if !strings.Contains(errs.ErrorMessage(err), "size limit") {
		t.Fatalf("unexpected message %q", errs.ErrorMessage(err))
	}
}
