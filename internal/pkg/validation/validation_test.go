package validation

import (
	"errors"
	"testing"

	"alliance-srp/internal/core/domain"
)

type submitInput struct {
	KillmailURL string `json:"killmail_url" validate:"required,killmail_url"`
	Context     string `json:"operation_context" validate:"required,opcontext"`
	ShipGroup   string `json:"ship_group" validate:"max=100"`
}

func TestParseKillmailURL(t *testing.T) {
	tests := []struct {
		in      string
		want    int64
		wantErr bool
	}{
		{"https://zkillboard.com/kill/123456/", 123456, false},
		{"https://zkillboard.com/kill/123456", 123456, false},
		{"  http://www.zkillboard.com/kill/42/ ", 42, false},
		{"https://zkillboard.com/kill/0/", 0, true},
		{"https://zkillboard.com/character/123/", 0, true},
		{"https://example.com/kill/1/", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		got, err := ParseKillmailURL(tt.in)
		if tt.wantErr {
			if !errors.Is(err, domain.ErrInvalidKillmailURL) {
				t.Errorf("%q: expected ErrInvalidKillmailURL, got %v", tt.in, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("%q: unexpected error: %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("%q: expected %d, got %d", tt.in, tt.want, got)
		}
	}
}

func TestStruct(t *testing.T) {
	ok := submitInput{KillmailURL: "https://zkillboard.com/kill/1/", Context: "fleet"}
	if err := Struct(ok); err != nil {
		t.Errorf("expected valid input, got %v", err)
	}

	bad := submitInput{KillmailURL: "nope", Context: "wormhole"}
	fields := Errors(Struct(bad))
	if fields["killmail_url"] != "killmail_url" {
		t.Errorf("expected killmail_url failure, got %v", fields)
	}
	if fields["operation_context"] != "opcontext" {
		t.Errorf("expected opcontext failure, got %v", fields)
	}
}

func TestErrorsIgnoresOtherErrors(t *testing.T) {
	if got := Errors(errors.New("boom")); got != nil {
		t.Errorf("expected nil, got %v", got)
	}
}
