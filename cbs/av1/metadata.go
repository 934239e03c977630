/*
NAME
  metadata.go

DESCRIPTION
  metadata.go implements metadata_obu(): the metadata_type dispatch and
  the three metadata payloads decomposed field-by-field (HDR CLL, HDR
  MDCV, ITU-T T.35) plus the timecode form. Scalability
  metadata is recognised but left undecomposed; operating-point
  scalability structure beyond filtering is out of scope.

AUTHORS
  Saxon Nelson-Milton <saxon@ausocean.org>, The Australian Ocean Laboratory (AusOcean)

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package av1

import (
	"github.com/ausocean/cbs"
	"github.com/ausocean/cbs/bits"
)

// HDRCLL is metadata_hdr_cll().
type HDRCLL struct {
	MaxCLL, MaxFALL uint64
}

func (m *HDRCLL) Kind() cbs.ContentKind  { return cbs.ContentPlain }
func (m *HDRCLL) Clone() cbs.Content     { c := *m; return &c }
func (m *HDRCLL) BufferRef() *cbs.Buffer { return nil }

// HDRMDCV is metadata_hdr_mdcv().
type HDRMDCV struct {
	PrimaryChromaticityX, PrimaryChromaticityY [3]uint64
	WhitePointChromaticityX, WhitePointChromaticityY uint64
	LuminanceMax, LuminanceMin uint64
}

func (m *HDRMDCV) Kind() cbs.ContentKind  { return cbs.ContentPlain }
func (m *HDRMDCV) Clone() cbs.Content     { c := *m; return &c }
func (m *HDRMDCV) BufferRef() *cbs.Buffer { return nil }

// ITUT35 is metadata_itut_t35(): a country code plus an opaque payload,
// captured zero-copy like tile group data.
type ITUT35 struct {
	CountryCode       uint64
	CountryCodeExtension uint64

	Payload    []byte
	PayloadRef *cbs.Buffer
}

func (m *ITUT35) Kind() cbs.ContentKind { return cbs.ContentInternalRefs }
func (m *ITUT35) Clone() cbs.Content {
	c := *m
	c.PayloadRef = c.PayloadRef.Ref()
	return &c
}
func (m *ITUT35) BufferRef() *cbs.Buffer { return m.PayloadRef }

// Timecode is metadata_timecode().
type Timecode struct {
	CountingType                 uint64
	FullTimestampFlag             bool
	DiscontinuityFlag             bool
	ClosedClockTicksFlag         bool
	NumFrames                    uint64
	SecondsFlag, MinutesFlag, HoursFlag bool
	Seconds, Minutes, Hours      uint64
	TimeOffsetLength             uint64
	TimeOffsetValue              uint64
}

func (m *Timecode) Kind() cbs.ContentKind  { return cbs.ContentPlain }
func (m *Timecode) Clone() cbs.Content     { c := *m; return &c }
func (m *Timecode) BufferRef() *cbs.Buffer { return nil }

// Metadata wraps one metadata_obu() unit: the metadata_type discriminant
// plus the matching typed payload. Scalability payloads are not
// decomposed: readMetadata returns cbs.ErrUnsupported for them and
// produces no Metadata value.
type Metadata struct {
	Type         uint64
	HDRCLL       *HDRCLL
	HDRMDCV      *HDRMDCV
	ITUT35       *ITUT35
	Timecode     *Timecode
	Scalability  bool
}

func (m *Metadata) Kind() cbs.ContentKind {
	if m.ITUT35 != nil {
		return cbs.ContentInternalRefs
	}
	return cbs.ContentPlain
}
func (m *Metadata) Clone() cbs.Content {
	c := *m
	if c.ITUT35 != nil {
		clone := *c.ITUT35
		clone.PayloadRef = clone.PayloadRef.Ref()
		c.ITUT35 = &clone
	}
	return &c
}
func (m *Metadata) BufferRef() *cbs.Buffer {
	if m.ITUT35 != nil {
		return m.ITUT35.PayloadRef
	}
	return nil
}

func readMetadata(t *cbs.Trace, r *bits.Reader, owner *cbs.Buffer) (*Metadata, error) {
	m := &Metadata{}
	t.Header("Metadata")
	typ, err := readLeb128(t, r, "metadata_type")
	if err != nil {
		return nil, err
	}
	m.Type = typ

	switch typ {
	case MetadataTypeHDRCLL:
		h := &HDRCLL{}
		v, err := cbs.ReadUnsigned(t, r, 16, "max_cll", nil, 0, 0xffff)
		if err != nil {
			return nil, err
		}
		h.MaxCLL = v
		v, err = cbs.ReadUnsigned(t, r, 16, "max_fall", nil, 0, 0xffff)
		if err != nil {
			return nil, err
		}
		h.MaxFALL = v
		m.HDRCLL = h

	case MetadataTypeHDRMDCV:
		h := &HDRMDCV{}
		for i := 0; i < 3; i++ {
			v, err := cbs.ReadUnsigned(t, r, 16, "primary_chromaticity_x", []int{i}, 0, 0xffff)
			if err != nil {
				return nil, err
			}
			h.PrimaryChromaticityX[i] = v
			v, err = cbs.ReadUnsigned(t, r, 16, "primary_chromaticity_y", []int{i}, 0, 0xffff)
			if err != nil {
				return nil, err
			}
			h.PrimaryChromaticityY[i] = v
		}
		v, err := cbs.ReadUnsigned(t, r, 16, "white_point_chromaticity_x", nil, 0, 0xffff)
		if err != nil {
			return nil, err
		}
		h.WhitePointChromaticityX = v
		v, err = cbs.ReadUnsigned(t, r, 16, "white_point_chromaticity_y", nil, 0, 0xffff)
		if err != nil {
			return nil, err
		}
		h.WhitePointChromaticityY = v
		v, err = cbs.ReadUnsigned(t, r, 32, "luminance_max", nil, 0, 0xffffffff)
		if err != nil {
			return nil, err
		}
		h.LuminanceMax = v
		v, err = cbs.ReadUnsigned(t, r, 32, "luminance_min", nil, 0, 0xffffffff)
		if err != nil {
			return nil, err
		}
		h.LuminanceMin = v
		m.HDRMDCV = h

	case MetadataTypeITUT35:
		it := &ITUT35{}
		v, err := cbs.ReadUnsigned(t, r, 8, "itu_t_t35_country_code", nil, 0, 0xff)
		if err != nil {
			return nil, err
		}
		it.CountryCode = v
		if v == 0xff {
			v, err := cbs.ReadUnsigned(t, r, 8, "itu_t_t35_country_code_extension_byte", nil, 0, 0xff)
			if err != nil {
				return nil, err
			}
			it.CountryCodeExtension = v
		}
		r.AlignToByte()
		// The payload ends before the OBU's trailing bits: trailing zero
		// bytes and the 0x80 byte before them are left for readTrailingBits.
		p := r.Remaining()
		n := len(p)
		for n > 0 && p[n-1] == 0 {
			n--
		}
		if n > 0 && p[n-1] == 0x80 {
			n--
		}
		it.Payload = p[:n]
		it.PayloadRef = owner.Ref()
		if err := r.SkipBytes(len(it.Payload)); err != nil {
			return nil, err
		}
		m.ITUT35 = it

	case MetadataTypeScalability:
		m.Scalability = true
		return nil, cbs.ErrUnsupported

	case MetadataTypeTimecode:
		tc := &Timecode{}
		v, err := cbs.ReadUnsigned(t, r, 5, "counting_type", nil, 0, 31)
		if err != nil {
			return nil, err
		}
		tc.CountingType = v
		full, err := cbs.ReadFlag(t, r, "full_timestamp_flag", nil)
		if err != nil {
			return nil, err
		}
		tc.FullTimestampFlag = full
		disc, err := cbs.ReadFlag(t, r, "discontinuity_flag", nil)
		if err != nil {
			return nil, err
		}
		tc.DiscontinuityFlag = disc
		cct, err := cbs.ReadFlag(t, r, "cnt_dropped_flag", nil)
		if err != nil {
			return nil, err
		}
		tc.ClosedClockTicksFlag = cct
		v, err = cbs.ReadUnsigned(t, r, 9, "n_frames", nil, 0, 511)
		if err != nil {
			return nil, err
		}
		tc.NumFrames = v
		if full {
			v, err := cbs.ReadUnsigned(t, r, 6, "seconds_value", nil, 0, 59)
			if err != nil {
				return nil, err
			}
			tc.Seconds = v
			v, err = cbs.ReadUnsigned(t, r, 6, "minutes_value", nil, 0, 59)
			if err != nil {
				return nil, err
			}
			tc.Minutes = v
			v, err = cbs.ReadUnsigned(t, r, 5, "hours_value", nil, 0, 23)
			if err != nil {
				return nil, err
			}
			tc.Hours = v
		} else {
			sf, err := cbs.ReadFlag(t, r, "seconds_flag", nil)
			if err != nil {
				return nil, err
			}
			tc.SecondsFlag = sf
			if sf {
				v, err := cbs.ReadUnsigned(t, r, 6, "seconds_value", nil, 0, 59)
				if err != nil {
					return nil, err
				}
				tc.Seconds = v
				mf, err := cbs.ReadFlag(t, r, "minutes_flag", nil)
				if err != nil {
					return nil, err
				}
				tc.MinutesFlag = mf
				if mf {
					v, err := cbs.ReadUnsigned(t, r, 6, "minutes_value", nil, 0, 59)
					if err != nil {
						return nil, err
					}
					tc.Minutes = v
					hf, err := cbs.ReadFlag(t, r, "hours_flag", nil)
					if err != nil {
						return nil, err
					}
					tc.HoursFlag = hf
					if hf {
						v, err := cbs.ReadUnsigned(t, r, 5, "hours_value", nil, 0, 23)
						if err != nil {
							return nil, err
						}
						tc.Hours = v
					}
				}
			}
		}
		v, err = cbs.ReadUnsigned(t, r, 5, "time_offset_length", nil, 0, 31)
		if err != nil {
			return nil, err
		}
		tc.TimeOffsetLength = v
		if v > 0 {
			tv, err := cbs.ReadUnsigned(t, r, int(v), "time_offset_value", nil, 0, (uint64(1)<<v)-1)
			if err != nil {
				return nil, err
			}
			tc.TimeOffsetValue = tv
		}
		m.Timecode = tc

	default:
		return nil, cbs.ErrUnsupported
	}

	return m, nil
}

func writeMetadata(t *cbs.Trace, w *bits.Writer, m *Metadata) error {
	t.Header("Metadata")
	if err := writeLeb128(t, w, "metadata_type", m.Type); err != nil {
		return err
	}
	switch m.Type {
	case MetadataTypeHDRCLL:
		h := m.HDRCLL
		if err := cbs.WriteUnsigned(t, w, 16, "max_cll", nil, h.MaxCLL, 0, 0xffff); err != nil {
			return err
		}
		return cbs.WriteUnsigned(t, w, 16, "max_fall", nil, h.MaxFALL, 0, 0xffff)

	case MetadataTypeHDRMDCV:
		h := m.HDRMDCV
		for i := 0; i < 3; i++ {
			if err := cbs.WriteUnsigned(t, w, 16, "primary_chromaticity_x", []int{i}, h.PrimaryChromaticityX[i], 0, 0xffff); err != nil {
				return err
			}
			if err := cbs.WriteUnsigned(t, w, 16, "primary_chromaticity_y", []int{i}, h.PrimaryChromaticityY[i], 0, 0xffff); err != nil {
				return err
			}
		}
		if err := cbs.WriteUnsigned(t, w, 16, "white_point_chromaticity_x", nil, h.WhitePointChromaticityX, 0, 0xffff); err != nil {
			return err
		}
		if err := cbs.WriteUnsigned(t, w, 16, "white_point_chromaticity_y", nil, h.WhitePointChromaticityY, 0, 0xffff); err != nil {
			return err
		}
		if err := cbs.WriteUnsigned(t, w, 32, "luminance_max", nil, h.LuminanceMax, 0, 0xffffffff); err != nil {
			return err
		}
		return cbs.WriteUnsigned(t, w, 32, "luminance_min", nil, h.LuminanceMin, 0, 0xffffffff)

	case MetadataTypeITUT35:
		it := m.ITUT35
		if err := cbs.WriteUnsigned(t, w, 8, "itu_t_t35_country_code", nil, it.CountryCode, 0, 0xff); err != nil {
			return err
		}
		if it.CountryCode == 0xff {
			if err := cbs.WriteUnsigned(t, w, 8, "itu_t_t35_country_code_extension_byte", nil, it.CountryCodeExtension, 0, 0xff); err != nil {
				return err
			}
		}
		w.AlignToByte()
		return w.WriteBytes(it.Payload)

	case MetadataTypeTimecode:
		tc := m.Timecode
		if err := cbs.WriteUnsigned(t, w, 5, "counting_type", nil, tc.CountingType, 0, 31); err != nil {
			return err
		}
		if err := cbs.WriteFlag(t, w, "full_timestamp_flag", nil, tc.FullTimestampFlag); err != nil {
			return err
		}
		if err := cbs.WriteFlag(t, w, "discontinuity_flag", nil, tc.DiscontinuityFlag); err != nil {
			return err
		}
		if err := cbs.WriteFlag(t, w, "cnt_dropped_flag", nil, tc.ClosedClockTicksFlag); err != nil {
			return err
		}
		if err := cbs.WriteUnsigned(t, w, 9, "n_frames", nil, tc.NumFrames, 0, 511); err != nil {
			return err
		}
		if tc.FullTimestampFlag {
			if err := cbs.WriteUnsigned(t, w, 6, "seconds_value", nil, tc.Seconds, 0, 59); err != nil {
				return err
			}
			if err := cbs.WriteUnsigned(t, w, 6, "minutes_value", nil, tc.Minutes, 0, 59); err != nil {
				return err
			}
			if err := cbs.WriteUnsigned(t, w, 5, "hours_value", nil, tc.Hours, 0, 23); err != nil {
				return err
			}
		} else {
			if err := cbs.WriteFlag(t, w, "seconds_flag", nil, tc.SecondsFlag); err != nil {
				return err
			}
			if tc.SecondsFlag {
				if err := cbs.WriteUnsigned(t, w, 6, "seconds_value", nil, tc.Seconds, 0, 59); err != nil {
					return err
				}
				if err := cbs.WriteFlag(t, w, "minutes_flag", nil, tc.MinutesFlag); err != nil {
					return err
				}
				if tc.MinutesFlag {
					if err := cbs.WriteUnsigned(t, w, 6, "minutes_value", nil, tc.Minutes, 0, 59); err != nil {
						return err
					}
					if err := cbs.WriteFlag(t, w, "hours_flag", nil, tc.HoursFlag); err != nil {
						return err
					}
					if tc.HoursFlag {
						if err := cbs.WriteUnsigned(t, w, 5, "hours_value", nil, tc.Hours, 0, 23); err != nil {
							return err
						}
					}
				}
			}
		}
		if err := cbs.WriteUnsigned(t, w, 5, "time_offset_length", nil, tc.TimeOffsetLength, 0, 31); err != nil {
			return err
		}
		if tc.TimeOffsetLength > 0 {
			if err := cbs.WriteUnsigned(t, w, int(tc.TimeOffsetLength), "time_offset_value", nil, tc.TimeOffsetValue, 0, (uint64(1)<<tc.TimeOffsetLength)-1); err != nil {
				return err
			}
		}
		return nil

	default:
		return cbs.ErrUnsupported
	}
}
