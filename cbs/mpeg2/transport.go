/*
NAME
  transport.go

DESCRIPTION
  transport.go extracts a single elementary stream's payload bytes from
  an MPEG Transport Stream, so that MPEG-2 Video carried in a .ts/.m2ts
  container can be handed to a Context's ReadPacket without a caller
  needing its own demuxer. It trusts the caller to know the PID
  carrying the video stream (e.g. from the PMT); a fuller demuxer would
  derive it from PSI, which this package deliberately leaves to a
  dedicated transport-stream library rather than reimplementing here.

AUTHORS
  Saxon Nelson-Milton <saxon@ausocean.org>, The Australian Ocean Laboratory (AusOcean)

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package mpeg2

import (
	"fmt"

	"github.com/Comcast/gots/packet"
	"github.com/Comcast/gots/pes"
	"github.com/pkg/errors"
)

// PacketSize is the fixed size of one MPEG Transport Stream packet.
const PacketSize = 188

// FromTransportStream extracts the elementary-stream bytes for pid from
// an MPEG Transport Stream held in ts, stripping PES headers and
// transport-stream packet headers along the way. ts must consist of a
// whole number of 188-byte packets. The returned bytes are a fresh copy,
// safe to pass to Context.ReadPacket/ReadExtradata independently of ts's
// lifetime.
func FromTransportStream(ts []byte, pid int) ([]byte, error) {
	if len(ts)%PacketSize != 0 {
		return nil, errors.New("transport stream is not a whole number of packets")
	}

	var es []byte
	var pkt packet.Packet
	for i := 0; i < len(ts); i += PacketSize {
		copy(pkt[:], ts[i:i+PacketSize])
		if int(pkt.PID()) != pid {
			continue
		}

		payload, err := pkt.Payload()
		if err != nil {
			return nil, fmt.Errorf("could not extract payload: %w", err)
		}

		if pkt.PayloadUnitStartIndicator() {
			p, err := pes.NewPESHeader(payload)
			if err != nil {
				return nil, fmt.Errorf("could not parse PES header: %w", err)
			}
			es = append(es, p.Data()...)
		} else {
			es = append(es, payload...)
		}
	}
	if es == nil {
		return nil, errors.Errorf("no packets found for pid %d", pid)
	}
	return es, nil
}
