package services_test

import (
	"errors"
	"strings"
	"testing"

	"framepack/internal/services"
)

func TestWrapIncludesContext(t *testing.T) {
	base := errors.New("boom")
	err := services.Wrap(services.ErrSinkWrite, "pack", "append", "write record", base)
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, services.ErrSinkWrite) {
		t.Fatalf("expected marker to be retained, got %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatalf("expected wrapped error to contain base error, got %v", err)
	}
	msg := err.Error()
	for _, fragment := range []string{"pack", "append", "write record", "boom"} {
		if !strings.Contains(msg, fragment) {
			t.Fatalf("expected %q in error string %q", fragment, msg)
		}
	}
}

func TestWrapWithoutCause(t *testing.T) {
	err := services.Wrap(services.ErrGeometry, "", "", "", nil)
	if !errors.Is(err, services.ErrGeometry) {
		t.Fatalf("expected geometry marker, got %v", err)
	}
	if !strings.Contains(err.Error(), "operation failed") {
		t.Fatalf("expected fallback detail, got %q", err.Error())
	}
}

func TestKindMapping(t *testing.T) {
	cases := []struct {
		err  error
		want string
	}{
		{nil, ""},
		{services.Wrap(services.ErrSourceUnavailable, "extract", "open", "", nil), services.KindSourceUnavailable},
		{services.Wrap(services.ErrDecodeFailure, "extract", "read", "", errors.New("eof")), services.KindDecodeFailure},
		{services.Wrap(services.ErrGeometry, "pack", "sample", "", nil), services.KindGeometry},
		{services.Wrap(services.ErrSinkWrite, "pack", "flush", "", nil), services.KindSinkWrite},
		{services.Wrap(services.ErrConfiguration, "config", "", "", nil), services.KindConfiguration},
		{services.Wrap(nil, "ffmpeg", "", "", nil), services.KindExternalTool},
		{errors.New("plain"), services.KindUnknown},
	}
	for _, tc := range cases {
		if got := services.Kind(tc.err); got != tc.want {
			t.Fatalf("Kind(%v) = %q, want %q", tc.err, got, tc.want)
		}
	}
}
