package cli

import (
	"errors"
	"flag"
	"io"
	"testing"
	"time"

	"fyne.io/fyne/v2/test"

	"github.com/ytget/yt-remote/internal/config"
)

func TestParseFlags(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		want    Flags
		wantErr bool
	}{
		{"defaults", nil, Flags{}, false},
		{"all", []string{"-server", "http://box:5000", "-console", "-demo", "-poll", "500ms"},
			Flags{Server: "http://box:5000", Console: true, Demo: true, Poll: 500 * time.Millisecond}, false},
		{"version", []string{"-version"}, Flags{ShowVersion: true}, false},
		{"bad duration", []string{"-poll", "soon"}, Flags{}, true},
		{"extra args", []string{"download"}, Flags{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseFlags(tt.args, io.Discard)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseFlags() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseFlags() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestParseFlagsHelp(t *testing.T) {
	if _, err := ParseFlags([]string{"-h"}, io.Discard); !errors.Is(err, flag.ErrHelp) {
		t.Errorf("Expected flag.ErrHelp, got %v", err)
	}
}

func TestNewGatewayUsesSettings(t *testing.T) {
	settings := config.NewSettings(test.NewApp())
	settings.SetServerURL("http://stored:5000")

	client, err := NewGateway(settings)
	if err != nil {
		t.Fatalf("NewGateway() error = %v", err)
	}
	if client.BaseURL() != "http://stored:5000" {
		t.Errorf("Expected stored server, got %s", client.BaseURL())
	}

	settings.SetOverrides(config.Overrides{ServerURL: "http://flag:9000"})
	client, err = NewGateway(settings)
	if err != nil {
		t.Fatalf("NewGateway() error = %v", err)
	}
	if client.BaseURL() != "http://flag:9000" {
		t.Errorf("Expected override server, got %s", client.BaseURL())
	}

	settings.SetOverrides(config.Overrides{ServerURL: "not a url"})
	if _, err := NewGateway(settings); err == nil {
		t.Error("Expected an error for a bad server URL")
	}
}
