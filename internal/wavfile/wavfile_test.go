package wavfile

import (
	"bytes"
	"encoding/binary"
	"testing"
)

func TestEncode_Header(t *testing.T) {
	data, err := Encode(make([]float32, 200), 2, 22050)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	if len(data) != headerSize+400 {
		t.Fatalf("expected %d bytes, got %d", headerSize+400, len(data))
	}
	if string(data[0:4]) != "RIFF" || string(data[8:12]) != "WAVE" || string(data[36:40]) != "data" {
		t.Error("missing chunk ids")
	}
	if ch := binary.LittleEndian.Uint16(data[22:]); ch != 2 {
		t.Errorf("expected 2 channels, got %d", ch)
	}
	if rate := binary.LittleEndian.Uint32(data[24:]); rate != 22050 {
		t.Errorf("expected sample rate 22050, got %d", rate)
	}
	if br := binary.LittleEndian.Uint32(data[28:]); br != 22050*4 {
		t.Errorf("expected byte rate %d, got %d", 22050*4, br)
	}
	if size := binary.LittleEndian.Uint32(data[40:]); size != 400 {
		t.Errorf("expected data size 400, got %d", size)
	}
}

func TestEncode_Clips(t *testing.T) {
	data, err := Encode([]float32{2, -2, 0.5}, 1, 8000)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	got := []int16{
		int16(binary.LittleEndian.Uint16(data[44:])),
		int16(binary.LittleEndian.Uint16(data[46:])),
		int16(binary.LittleEndian.Uint16(data[48:])),
	}
	want := []int16{32767, -32767, 16384}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("sample %d: expected %d, got %d", i, want[i], got[i])
		}
	}
}

func TestEncode_RejectsRaggedFrames(t *testing.T) {
	if _, err := Encode(make([]float32, 3), 2, 8000); err == nil {
		t.Error("expected error for odd sample count in stereo")
	}
}

func TestWrite(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, []float32{0, 0}, 2, 8000); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if buf.Len() != headerSize+4 {
		t.Errorf("expected %d bytes, got %d", headerSize+4, buf.Len())
	}
}
