package usecase_test

import (
	"testing"

	"github.com/lumenshop/storefront/internal/usecase"
)

func TestValidateCredentials(t *testing.T) {
	cases := []struct {
		login    string
		password string
		want     bool
	}{
		{"alice", "long-password", true},
		{"", "long-password", false},
		{"   ", "long-password", false},
		{"alice", "short", false},
		{"alice", "", false},
	}
	for _, tc := range cases {
		if got := usecase.ValidateCredentials(tc.login, tc.password); got != tc.want {
			t.Fatalf("ValidateCredentials(%q, %q) = %v, want %v", tc.login, tc.password, got, tc.want)
		}
	}
}

func TestValidateQuantity(t *testing.T) {
	cases := []struct {
		quantity int
		want     bool
	}{
		{1, true},
		{999, true},
		{0, false},
		{-1, false},
		{1000, false},
	}
	for _, tc := range cases {
		if got := usecase.ValidateQuantity(tc.quantity); got != tc.want {
			t.Fatalf("ValidateQuantity(%d) = %v, want %v", tc.quantity, got, tc.want)
		}
	}
}
