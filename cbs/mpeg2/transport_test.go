package mpeg2

import (
	"bytes"
	"testing"
)

// buildTSPacket assembles one 188-byte transport stream packet carrying pid,
// with payload_unit_start_indicator set according to pusi, and payload
// copied from data (padded with 0xff stuffing bytes to fill the packet).
func buildTSPacket(pid int, pusi bool, data []byte) []byte {
	pkt := make([]byte, PacketSize)
	pkt[0] = 0x47
	pkt[1] = byte(pid>>8) & 0x1f
	if pusi {
		pkt[1] |= 0x40
	}
	pkt[2] = byte(pid)
	pkt[3] = 0x10 // no adaptation field, payload only, continuity_counter 0.
	n := copy(pkt[4:], data)
	for i := 4 + n; i < PacketSize; i++ {
		pkt[i] = 0xff
	}
	return pkt
}

// buildPESHeader assembles a minimal video PES header (no PTS/DTS, no
// optional fields) wrapping payload.
func buildPESHeader(streamID byte, payload []byte) []byte {
	h := []byte{
		0x00, 0x00, 0x01, // packet_start_code_prefix
		streamID,
		0x00, 0x00, // PES_packet_length (0: unbounded, valid for video ES in a TS)
		0x80, // marker bits + flags, no scrambling/priority/alignment/copyright
		0x00, // no PTS/DTS/ESCR/ES_rate/trick-mode/copy-info/CRC/extension
		0x00, // PES_header_data_length
	}
	return append(h, payload...)
}

func TestFromTransportStreamSinglePacket(t *testing.T) {
	const pid = 0x100
	payload := []byte{0xde, 0xad, 0xbe, 0xef}
	pes := buildPESHeader(0xe0, payload)
	ts := buildTSPacket(pid, true, pes)

	es, err := FromTransportStream(ts, pid)
	if err != nil {
		t.Fatalf("FromTransportStream: %v", err)
	}
	if !bytes.Equal(es, payload) {
		t.Errorf("extracted elementary stream = %x, want %x", es, payload)
	}
}

func TestFromTransportStreamMultiplePackets(t *testing.T) {
	const pid = 0x101
	payload := []byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06}
	pes := buildPESHeader(0xe0, payload[:2])
	pkt0 := buildTSPacket(pid, true, pes)
	pkt1 := buildTSPacket(pid, false, payload[2:])
	other := buildTSPacket(pid+1, true, buildPESHeader(0xe0, []byte{0x99}))

	ts := append(append(append([]byte{}, pkt0...), other...), pkt1...)

	es, err := FromTransportStream(ts, pid)
	if err != nil {
		t.Fatalf("FromTransportStream: %v", err)
	}
	if !bytes.Equal(es, payload) {
		t.Errorf("extracted elementary stream = %x, want %x", es, payload)
	}
}

func TestFromTransportStreamBadLength(t *testing.T) {
	if _, err := FromTransportStream(make([]byte, 10), 0x100); err == nil {
		t.Error("expected error for a byte slice that is not a whole number of packets")
	}
}

func TestFromTransportStreamPIDNotFound(t *testing.T) {
	ts := buildTSPacket(0x100, true, buildPESHeader(0xe0, []byte{0x01}))
	if _, err := FromTransportStream(ts, 0x200); err == nil {
		t.Error("expected error when the requested PID is absent")
	}
}
