package errors

import (
	stderrs "errors"
	"net/http"
	"testing"
)

func TestWrapAndUnwrap(t *testing.T) {
	cause := stderrs.New("socket closed")
	err := Wrap(cause, ErrorCodeUpstream, "generation oracle call")

	e, ok := As(err)
	if !ok {
		t.Fatalf("expected *Error")
	}
	if e.Code() != ErrorCodeUpstream {
		t.Fatalf("code = %d, want upstream", e.Code())
	}
	if !stderrs.Is(err, cause) {
		t.Fatalf("wrapped cause lost")
	}
	if got := err.Error(); got != "generation oracle call: socket closed" {
		t.Fatalf("Error() = %q", got)
	}
}

func TestHTTPStatusMapping(t *testing.T) {
	tests := []struct {
		code ErrorCode
		want int
	}{
		{ErrorCodeValidation, http.StatusBadRequest},
		{ErrorCodeJSON, http.StatusBadRequest},
		{ErrorCodeInvalidArgument, http.StatusUnprocessableEntity},
		{ErrorCodeNotFound, http.StatusNotFound},
		{ErrorCodeUpstream, http.StatusBadGateway},
		{ErrorCodeUnavailable, http.StatusServiceUnavailable},
		{ErrorCodeUnknown, http.StatusInternalServerError},
	}
	for _, tc := range tests {
		if got := HTTPStatusCode(tc.code); got != tc.want {
			t.Fatalf("HTTPStatusCode(%d) = %d, want %d", tc.code, got, tc.want)
		}
	}
}

func TestWireFromForeignError(t *testing.T) {
	w := WireFrom(stderrs.New("boom"))
	if w.Code != ErrorCodeUnknown || w.Message != "boom" {
		t.Fatalf("unexpected wire %+v", w)
	}
	if w := WireFrom(nil); w.Message != "" || w.Code != 0 {
		t.Fatalf("nil error should map to zero wire, got %+v", w)
	}
}

func TestWithFieldCopyOnWrite(t *testing.T) {
	base := Newf(ErrorCodeValidation, "message too long")
	withField := WithField(base, "message")

	b, _ := As(base)
	f, _ := As(withField)
	if b.Field() != "" {
		t.Fatalf("original mutated")
	}
	if f.Field() != "message" {
		t.Fatalf("field not attached")
	}
}
