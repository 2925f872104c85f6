package image

import (
	"fmt"
	"io"
	"time"

	"github.com/kevinrosenberg/ctsim/internal/ctsimerr"
	"github.com/kevinrosenberg/ctsim/internal/netorder"
)

// imageSignature identifies the native image file format on disk,
// analogous to the projection file's 'P'*256+'J' signature.
const imageSignature = uint16('I')*256 + uint16('F')

// Write serialises im to w in the native big-endian image format: a
// header (dimensions, pixel format, physical increments, label
// history) followed by the nx*ny sample array in the format the
// header names.
func (im *Image) Write(w io.Writer) error {
	nw := netorder.NewWriter(w)

	nw.WriteU16(0) // headerSize placeholder; native readers don't require patch-back since fields are fixed-size
	nw.WriteU16(imageSignature)
	nw.WriteU32(uint32(im.nx))
	nw.WriteU32(uint32(im.ny))
	nw.WriteU32(uint32(im.format))
	nw.WriteF64(im.xInc)
	nw.WriteF64(im.yInc)

	nw.WriteU16(uint16(len(im.labels)))
	for _, lbl := range im.labels {
		text := []byte(lbl.Text)
		nw.WriteU16(uint16(len(text)))
		nw.WriteBytes(text)
		nw.WriteF64(lbl.ElapsedS)
		nw.WriteU32(uint32(lbl.Timestamp.Unix()))
	}

	for idx := 0; idx < im.nx*im.ny; idx++ {
		switch im.format {
		case Real32:
			nw.WriteF32(float32(im.real[idx]))
		case Complex:
			nw.WriteF64(im.real[idx])
			nw.WriteF64(im.imag[idx])
		default:
			nw.WriteF64(im.real[idx])
		}
	}

	if err := nw.Err(); err != nil {
		return fmt.Errorf("%w: %v", ctsimerr.ErrIO, err)
	}
	return nil
}

// Read deserialises an Image previously written by Write, rejecting a
// signature mismatch with a diagnostic error.
func Read(r io.Reader) (*Image, error) {
	nr := netorder.NewReader(r)

	_ = nr.ReadU16() // headerSize, unused: all fields below are fixed-size
	sig := nr.ReadU16()
	if sig != imageSignature {
		return nil, fmt.Errorf("%w: bad image signature %#x", ctsimerr.ErrIO, sig)
	}
	nx := int(nr.ReadU32())
	ny := int(nr.ReadU32())
	format := Format(nr.ReadU32())
	xInc := nr.ReadF64()
	yInc := nr.ReadF64()

	nLabels := int(nr.ReadU16())
	labels := make([]Label, 0, nLabels)
	for i := 0; i < nLabels; i++ {
		textLen := int(nr.ReadU16())
		text := make([]byte, textLen)
		nr.ReadBytes(text)
		elapsed := nr.ReadF64()
		epoch := nr.ReadU32()
		labels = append(labels, Label{
			Text:      string(text),
			ElapsedS:  elapsed,
			Timestamp: time.Unix(int64(epoch), 0).UTC(),
		})
	}

	im := New(nx, ny)
	im.xInc, im.yInc = xInc, yInc
	im.labels = labels
	if format == Complex {
		im.ConvertRealToComplex()
	}

	for idx := 0; idx < nx*ny; idx++ {
		switch format {
		case Real32:
			im.real[idx] = float64(nr.ReadF32())
		case Complex:
			im.real[idx] = nr.ReadF64()
			im.imag[idx] = nr.ReadF64()
		default:
			im.real[idx] = nr.ReadF64()
		}
	}

	if err := nr.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ctsimerr.ErrIO, err)
	}
	return im, nil
}
