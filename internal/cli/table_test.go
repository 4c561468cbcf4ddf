package cli

import (
	"bytes"
	"testing"
)

func TestTableAddRow(t *testing.T) {
	table := NewTable("Name", "Size")

	table.AddRow("band", "310x102")
	table.AddRow("band2")
	table.AddRow("extra", "1x1", "dropped")

	if len(table.rows) != 3 {
		t.Fatalf("Expected 3 rows, got %d", len(table.rows))
	}
	if len(table.rows[1]) != 2 || table.rows[1][1] != "" {
		t.Errorf("Expected short row padded, got %q", table.rows[1])
	}
	if len(table.rows[2]) != 2 {
		t.Errorf("Expected long row truncated, got %q", table.rows[2])
	}
}

func TestTableRender(t *testing.T) {
	table := NewTable("Name", "Revision")
	table.AddRow("Electric", "Band2")
	table.AddRow("Lime", "Band")

	want := "Name      Revision\n" +
		"--------  --------\n" +
		"Electric  Band2\n" +
		"Lime      Band\n"
	if got := table.Render(); got != want {
		t.Errorf("Render() =\n%s\nwant\n%s", got, want)
	}
}

func TestTableRenderIgnoresANSI(t *testing.T) {
	table := NewTable("Swatch", "Hex")
	table.AddRow("\033[48;2;1;2;3m  \033[0m", "#010203")

	want := "Swatch  Hex\n" +
		"------  -------\n" +
		"\033[48;2;1;2;3m  \033[0m      #010203\n"
	if got := table.Render(); got != want {
		t.Errorf("Render() = %q, want %q", got, want)
	}
}

func TestTableEmpty(t *testing.T) {
	if got := NewTable().Render(); got != "" {
		t.Errorf("Render() = %q, want empty", got)
	}
}

func TestTableWriteTo(t *testing.T) {
	table := NewTable("A")
	table.AddRow("x")

	var buf bytes.Buffer
	n, err := table.WriteTo(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if int(n) != buf.Len() || buf.String() != "A\n-\nx\n" {
		t.Errorf("WriteTo() wrote %d bytes: %q", n, buf.String())
	}
}

func TestVisibleLen(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"", 0},
		{"abc", 3},
		{"\033[0m", 0},
		{"\033[38;2;255;0;0mred\033[0m", 3},
	}
	for _, tt := range tests {
		if got := visibleLen(tt.in); got != tt.want {
			t.Errorf("visibleLen(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}
