package launcher

import (
	"strings"
	"testing"
)

func TestURLFormatting(t *testing.T) {
	if got := LocalURL(8501); got != "http://localhost:8501" {
		t.Errorf("LocalURL = %q", got)
	}
	if got := LANURL("192.168.1.42", 8501); got != "http://192.168.1.42:8501" {
		t.Errorf("LANURL = %q", got)
	}
}

func TestWriteAccessInfoWithLANAddress(t *testing.T) {
	var buf strings.Builder
	WriteAccessInfo(&buf, 8501, "192.168.1.42")

	out := buf.String()
	if !strings.Contains(out, "http://localhost:8501") {
		t.Errorf("local URL missing:\n%s", out)
	}
	if !strings.Contains(out, "http://192.168.1.42:8501") {
		t.Errorf("LAN URL missing:\n%s", out)
	}
}

func TestWriteAccessInfoWithoutLANAddress(t *testing.T) {
	var buf strings.Builder
	WriteAccessInfo(&buf, 8501, "")

	out := buf.String()
	if !strings.Contains(out, "http://localhost:8501") {
		t.Errorf("local URL missing:\n%s", out)
	}
	if strings.Contains(out, "http://:8501") {
		t.Errorf("malformed LAN URL printed:\n%s", out)
	}
	if !strings.Contains(out, lanUnavailable) {
		t.Errorf("unavailable marker missing:\n%s", out)
	}
}
