package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"
)

func TestErrorFormat(t *testing.T) {
	err := New(ErrCodeInvalidTiles, "invalid tile entry: %q", "2y2")
	want := `INVALID_TILES: invalid tile entry: "2y2"`
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestWrapPreservesCause(t *testing.T) {
	cause := stderrors.New("disk full")
	err := Wrap(ErrCodeEncodeFailed, cause, "encode png")

	if !stderrors.Is(err, cause) {
		t.Error("wrapped error should match cause via errors.Is")
	}
	if got := err.Error(); got != "ENCODE_FAILED: encode png: disk full" {
		t.Errorf("Error() = %q", got)
	}
}

func TestIsMatchesCode(t *testing.T) {
	err := New(ErrCodeInvalidMode, "unsupported mode")
	if !Is(err, ErrCodeInvalidMode) {
		t.Error("Is should match the error's own code")
	}
	if Is(err, ErrCodeInvalidSize) {
		t.Error("Is should not match a different code")
	}
	if Is(stderrors.New("plain"), ErrCodeInvalidMode) {
		t.Error("Is should not match a plain error")
	}
}

func TestIsMatchesWrappedCode(t *testing.T) {
	inner := New(ErrCodeInvalidRing, "ring end must exceed ring start")
	outer := fmt.Errorf("normalize params: %w", inner)
	if !Is(outer, ErrCodeInvalidRing) {
		t.Error("Is should unwrap to find the code")
	}
	if GetCode(outer) != ErrCodeInvalidRing {
		t.Errorf("GetCode = %q, want %q", GetCode(outer), ErrCodeInvalidRing)
	}
}

func TestUserMessage(t *testing.T) {
	err := New(ErrCodeEmptyBatches, "no tiles to place after cap adjustment")
	if got := UserMessage(err); got != "no tiles to place after cap adjustment" {
		t.Errorf("UserMessage = %q", got)
	}
	plain := stderrors.New("boom")
	if got := UserMessage(plain); got != "boom" {
		t.Errorf("UserMessage(plain) = %q", got)
	}
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"invalid size", New(ErrCodeInvalidSize, "width must be positive"), http.StatusBadRequest},
		{"invalid mode", New(ErrCodeInvalidMode, "bad mode"), http.StatusBadRequest},
		{"invalid tiles", New(ErrCodeInvalidTiles, "bad tiles"), http.StatusBadRequest},
		{"invalid ring", New(ErrCodeInvalidRing, "bad ring"), http.StatusBadRequest},
		{"empty batches", New(ErrCodeEmptyBatches, "empty"), http.StatusBadRequest},
		{"not found", New(ErrCodeNotFound, "missing"), http.StatusNotFound},
		{"encode", New(ErrCodeEncodeFailed, "png"), http.StatusInternalServerError},
		{"plain", stderrors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HTTPStatus(tt.err); got != tt.want {
				t.Errorf("HTTPStatus = %d, want %d", got, tt.want)
			}
		})
	}
}
