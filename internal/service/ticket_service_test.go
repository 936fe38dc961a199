package service

import (
	"strings"
	"testing"
)

func TestRandomStringLengthAndAlphabet(t *testing.T) {
	for i := 0; i < 50; i++ {
		code, err := randomString(ticketCodeAlphabet, ticketCodeLength)
		if err != nil {
			t.Fatalf("randomString: %v", err)
		}
		if len(code) != ticketCodeLength {
			t.Fatalf("expected length %d, got %d", ticketCodeLength, len(code))
		}
		for _, r := range code {
			if !strings.ContainsRune(ticketCodeAlphabet, r) {
				t.Fatalf("character %q not in alphabet", r)
			}
		}
	}
}

func TestTicketCodeAlphabetSkipsAmbiguousCharacters(t *testing.T) {
	for _, r := range "0O1IL" {
		if strings.ContainsRune(ticketCodeAlphabet, r) {
			t.Errorf("alphabet contains ambiguous character %q", r)
		}
	}
}

func TestRandomStringPIN(t *testing.T) {
	pin, err := randomString("0123456789", ticketPINLength)
	if err != nil {
		t.Fatalf("randomString: %v", err)
	}
	if len(pin) != ticketPINLength {
		t.Fatalf("expected length %d, got %d", ticketPINLength, len(pin))
	}
	for _, r := range pin {
		if r < '0' || r > '9' {
			t.Fatalf("PIN contains non-digit %q", r)
		}
	}
}
