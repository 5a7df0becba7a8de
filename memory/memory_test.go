package memory

import "testing"

func TestReadWrite8(t *testing.T) {
	b := New()
	b.Write8(0x1234, 0xAB)
	if got := b.Read8(0x1234); got != 0xAB {
		t.Errorf("Read8(0x1234) = 0x%02X, want 0xAB", got)
	}
}

func TestReadWrite16LittleEndian(t *testing.T) {
	b := New()
	b.Write16(0x10, 0xBEEF)
	if got := b.Read8(0x10); got != 0xEF {
		t.Errorf("low byte = 0x%02X, want 0xEF", got)
	}
	if got := b.Read8(0x11); got != 0xBE {
		t.Errorf("high byte = 0x%02X, want 0xBE", got)
	}
	if got := b.Read16(0x10); got != 0xBEEF {
		t.Errorf("Read16(0x10) = 0x%04X, want 0xBEEF", got)
	}
}

func TestLoad(t *testing.T) {
	b := New()
	program := []uint8{0xA9, 0x01, 0x00}
	b.Load(0x0600, program)
	for i, want := range program {
		if got := b.Read8(0x0600 + uint16(i)); got != want {
			t.Errorf("byte %d = 0x%02X, want 0x%02X", i, got, want)
		}
	}
}

func TestPowerOnZeroesRAM(t *testing.T) {
	b := New()
	b.Write8(0x200, 0xFF)
	b.PowerOn()
	if got := b.Read8(0x200); got != 0x00 {
		t.Errorf("Read8(0x200) after PowerOn = 0x%02X, want 0x00", got)
	}
}
