package projection

import (
	"fmt"
	"io"
	"time"

	"github.com/kevinrosenberg/ctsim/internal/ctsimerr"
	"github.com/kevinrosenberg/ctsim/internal/netorder"
)

// signature is the on-disk projection-file magic number, 'P'*256+'J'.
const signature = uint16('P')*256 + uint16('J')

// headerFixedSize is the number of bytes in the header after the
// initial headerSize/signature pair and before the variable-length
// remark: 3 u32 fields (nView, nDet, geometry), 9 f64 fields
// (calcTime, rotStart, rotInc, detStart, detInc, viewDiameter,
// focalLength, sourceDetectorLen, fanBeamAngle), then 7 u16 fields
// (year, month, day, hour, minute, second, remarkSize).
const headerFixedSize = 4*3 + 8*9 + 2*7

// Write serialises s to w in the native big-endian projection file
// format (§6): a fixed header (geometry, acquisition parameters,
// creation timestamp, free-text remark) followed by nView view
// records, each a view angle plus its nDet float32 detector values.
func (s *Set) Write(w io.Writer) error {
	nw := netorder.NewWriter(w)

	remark := []byte(s.Header.Remark)
	headerSize := headerFixedSize + len(remark)

	nw.WriteU16(uint16(headerSize))
	nw.WriteU16(signature)
	nw.WriteU32(uint32(s.NView()))
	nw.WriteU32(uint32(s.NDet()))
	nw.WriteU32(uint32(s.Header.Geometry))

	nw.WriteF64(s.Header.CalcTimeS)
	nw.WriteF64(s.Header.RotStart)
	nw.WriteF64(s.Header.RotInc)
	nw.WriteF64(s.Header.DetStart)
	nw.WriteF64(s.Header.DetInc)
	nw.WriteF64(s.Header.ViewDiameter)
	nw.WriteF64(s.Header.FocalLength)
	nw.WriteF64(s.Header.SourceDetectorLen)
	nw.WriteF64(s.Header.FanBeamAngle)

	created := s.Header.Created
	if created.IsZero() {
		created = time.Unix(0, 0).UTC()
	}
	nw.WriteU16(uint16(created.Year()))
	nw.WriteU16(uint16(created.Month()))
	nw.WriteU16(uint16(created.Day()))
	nw.WriteU16(uint16(created.Hour()))
	nw.WriteU16(uint16(created.Minute()))
	nw.WriteU16(uint16(created.Second()))
	nw.WriteU16(uint16(len(remark)))
	nw.WriteBytes(remark)

	for _, v := range s.views {
		nw.WriteF64(v.Angle)
		nw.WriteU32(uint32(len(v.Det)))
		for _, d := range v.Det {
			nw.WriteF32(float32(d))
		}
	}

	if err := nw.Err(); err != nil {
		return fmt.Errorf("%w: %v", ctsimerr.ErrIO, err)
	}
	return nil
}

// Read deserialises a Set previously written by Write, rejecting a
// signature mismatch with a diagnostic error.
func Read(r io.Reader) (*Set, error) {
	nr := netorder.NewReader(r)

	_ = nr.ReadU16() // headerSize, recomputed on Write; not required to parse
	sig := nr.ReadU16()
	if sig != signature {
		return nil, fmt.Errorf("%w: bad projection signature %#x", ctsimerr.ErrIO, sig)
	}
	nView := int(nr.ReadU32())
	_ = nr.ReadU32() // nDet; each view below carries its own authoritative count
	geometry := Geometry(nr.ReadU32())

	var h Header
	h.Geometry = geometry
	h.CalcTimeS = nr.ReadF64()
	h.RotStart = nr.ReadF64()
	h.RotInc = nr.ReadF64()
	h.DetStart = nr.ReadF64()
	h.DetInc = nr.ReadF64()
	h.ViewDiameter = nr.ReadF64()
	h.FocalLength = nr.ReadF64()
	h.SourceDetectorLen = nr.ReadF64()
	h.FanBeamAngle = nr.ReadF64()

	year := int(nr.ReadU16())
	month := int(nr.ReadU16())
	day := int(nr.ReadU16())
	hour := int(nr.ReadU16())
	minute := int(nr.ReadU16())
	second := int(nr.ReadU16())
	remarkSize := int(nr.ReadU16())
	remark := make([]byte, remarkSize)
	nr.ReadBytes(remark)
	h.Remark = string(remark)
	h.Created = time.Date(year, time.Month(month), day, hour, minute, second, 0, time.UTC)

	s := &Set{Header: h, views: make([]View, nView)}
	for i := 0; i < nView; i++ {
		angle := nr.ReadF64()
		det := int(nr.ReadU32())
		vals := make([]float64, det)
		for j := 0; j < det; j++ {
			vals[j] = float64(nr.ReadF32())
		}
		s.views[i] = View{Angle: angle, Det: vals}
	}

	if err := nr.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ctsimerr.ErrIO, err)
	}
	return s, nil
}
