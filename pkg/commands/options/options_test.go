package options

import (
	"errors"
	"net"
	"strings"
	"testing"
	"time"

	"tableflip.dev/dailyreport/pkg/datekey"
)

func TestDateKey(t *testing.T) {
	now := time.Date(2024, time.March, 1, 8, 0, 0, 0, time.Local)
	cases := map[string]datekey.Key{
		"":           "2024-03-01",
		"today":      "2024-03-01",
		"Yesterday":  "2024-02-29",
		"2023-12-31": "2023-12-31",
	}
	for in, want := range cases {
		o := &DateOptions{Date: in}
		got, err := o.Key(now)
		if err != nil {
			t.Fatalf("Key(%q): %v", in, err)
		}
		if got != want {
			t.Fatalf("Key(%q) = %s, want %s", in, got, want)
		}
	}

	o := &DateOptions{Date: "2023-02-29"}
	if _, err := o.Key(now); !errors.Is(err, datekey.ErrInvalidKey) {
		t.Fatalf("expected ErrInvalidKey, got %v", err)
	}
}

func TestReadLine(t *testing.T) {
	got, err := readLine(strings.NewReader("secret\r\nignored\n"))
	if err != nil || got != "secret" {
		t.Fatalf("readLine = %q, %v", got, err)
	}
	got, err = readLine(strings.NewReader("no newline"))
	if err != nil || got != "no newline" {
		t.Fatalf("readLine = %q, %v", got, err)
	}
}

func TestWrap(t *testing.T) {
	if got := Wrap("one two three", 7); got != "one two\nthree" {
		t.Fatalf("Wrap = %q", got)
	}
}

func TestServeOptions(t *testing.T) {
	o := &ServeOptions{Host: "0.0.0.0", Port: 0, Path: "rpc"}
	if got := o.Endpoint(); got != "/rpc" {
		t.Fatalf("Endpoint() = %q", got)
	}
	addr, err := o.Addr()
	if err != nil || addr != "0.0.0.0:0" {
		t.Fatalf("Addr() = %q, %v", addr, err)
	}
	bound := &net.TCPAddr{IP: net.IPv4zero, Port: 41234}
	if got := o.URL(bound); got != "http://127.0.0.1:41234/rpc" {
		t.Fatalf("URL() = %q", got)
	}

	o.TLSCert, o.TLSKey = "cert.pem", "key.pem"
	o.Host = "::1"
	if got := o.URL(&net.TCPAddr{IP: net.IPv6loopback, Port: 8443}); got != "https://[::1]:8443/rpc" {
		t.Fatalf("URL() = %q", got)
	}

	o.Port = 70000
	if _, err := o.Addr(); err == nil {
		t.Fatalf("expected port error")
	}
}
