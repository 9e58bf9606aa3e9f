package render

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/chewxy/math32"
	"gonum.org/v1/gonum/spatial/r3"
)

const (
	stlHeaderSize   = 84
	stlTriangleSize = 50
)

// CreateSTL writes the triangles of a Renderer to an STL file at path.
func CreateSTL(path string, r Renderer) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	// Header is written last, once the triangle count is known.
	_, err = file.Seek(stlHeaderSize, io.SeekStart)
	if err != nil {
		return err
	}
	rd := &stlReader{
		r: r,
	}
	n, err := io.CopyBuffer(file, rd, make([]byte, stlTriangleSize*trianglesInBuffer))
	if err != nil {
		return err
	}
	if n == 0 {
		return errors.New("renderer produced no triangles")
	}
	_, err = file.Seek(0, io.SeekStart)
	if err != nil {
		return err
	}
	header := stlHeader{
		Count: uint32(n / stlTriangleSize),
	}
	if err = binary.Write(file, binary.LittleEndian, &header); err != nil {
		return err
	}
	return file.Close()
}

// WriteSTL writes model triangles to a writer in binary STL file format.
func WriteSTL(w io.Writer, model []Triangle3) error {
	if len(model) == 0 {
		return errors.New("empty triangle slice")
	}
	header := stlHeader{
		Count: uint32(len(model)),
	}
	if err := binary.Write(w, binary.LittleEndian, &header); err != nil {
		return err
	}
	var (
		d stlTriangle
		b [stlTriangleSize]byte
	)
	for _, triangle := range model {
		d.set(triangle)
		d.put(b[:])
		if _, err := w.Write(b[:]); err != nil {
			return err
		}
	}
	return nil
}

// ReadSTL reads a binary STL file. Triangles whose stored normal does not
// match the normal calculated from their vertices are still returned along
// with a non-nil error.
func ReadSTL(r io.Reader) ([]Triangle3, error) {
	return readBinarySTL(r)
}

// stlHeader defines the STL file header.
type stlHeader struct {
	_     [80]uint8 // Header
	Count uint32    // Number of triangles
}

const trianglesInBuffer = 1 << 10

// stlReader adapts a Renderer to an io.Reader of STL triangle records.
type stlReader struct {
	r   Renderer
	buf [trianglesInBuffer]Triangle3
	err error
}

func (w *stlReader) Read(b []byte) (int, error) {
	if w.err != nil {
		return 0, w.err
	}
	ntMax := min(len(b)/stlTriangleSize, len(w.buf))
	if ntMax == 0 {
		return 0, errors.New("stlReader requires at least 50 bytes to write a single triangle")
	}
	var d stlTriangle
	nt, err := w.r.ReadTriangles(w.buf[:ntMax])
	if nt > ntMax {
		panic("bug: ReadTriangles read more triangles than available in buffer")
	}
	for i, triangle := range w.buf[:nt] {
		d.set(triangle)
		d.put(b[i*stlTriangleSize:])
	}
	w.err = err
	if nt > 0 && err == io.EOF {
		// Flush what was read, report EOF on next call.
		return nt * stlTriangleSize, nil
	}
	return nt * stlTriangleSize, err
}

func readBinarySTL(r io.Reader) (output []Triangle3, readErr error) {
	var header stlHeader
	if err := binary.Read(r, binary.LittleEndian, &header); err != nil {
		if errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, io.EOF) {
			return nil, errors.New("encountered EOF while reading STL header")
		}
		return nil, errors.New("STL header read failed: " + err.Error())
	}
	if header.Count == 0 {
		return nil, errors.New("STL header indicates 0 triangles present")
	}
	var (
		buf            [stlTriangleSize]byte
		d              stlTriangle
		i              int
		normMismatches int
	)
	defer func() {
		if readErr != nil && !errors.Is(readErr, errCalculatedNormalMismatch) {
			readErr = fmt.Errorf("%d/%d STL triangles read: %w", i+1, header.Count, readErr)
		}
	}()
	output = make([]Triangle3, 0, min(int(header.Count), 1<<16))
	for i = 0; i < int(header.Count); i++ {
		if _, err := io.ReadFull(r, buf[:]); err != nil {
			return nil, err
		}
		d.get(buf[:])
		if err := d.validate(); err != nil {
			if !errors.Is(err, errCalculatedNormalMismatch) {
				return nil, err
			}
			normMismatches++
			if normMismatches > 10_000 {
				// This may be valid output, so we return the triangles.
				return output, fmt.Errorf("got too many normal vector mismatches (%d)", normMismatches)
			}
			readErr = err
		}
		output = append(output, d.toTriangle3())
	}
	return output, readErr
}

// stlTriangle defines the triangle data within an STL file.
type stlTriangle struct {
	Normal  [3]float32
	Vertex1 [3]float32
	Vertex2 [3]float32
	Vertex3 [3]float32
	_       uint16 // Attribute byte count
}

func (d *stlTriangle) set(t Triangle3) {
	d.Normal = to3F32(t.Normal())
	d.Vertex1 = to3F32(t[0])
	d.Vertex2 = to3F32(t[1])
	d.Vertex3 = to3F32(t[2])
}

func (t stlTriangle) put(b []byte) {
	if len(b) < stlTriangleSize {
		panic("need length 50 to marshal stlTriangle")
	}
	put3F32(b, t.Normal)
	put3F32(b[12:], t.Vertex1)
	put3F32(b[24:], t.Vertex2)
	put3F32(b[36:], t.Vertex3)
	binary.LittleEndian.PutUint16(b[48:], 0)
}

func (t *stlTriangle) get(b []byte) {
	if len(b) < stlTriangleSize {
		panic("need length 50 to unmarshal stlTriangle")
	}
	get3F32(b, &t.Normal)
	get3F32(b[12:], &t.Vertex1)
	get3F32(b[24:], &t.Vertex2)
	get3F32(b[36:], &t.Vertex3)
	// Attribute bytes are ignored.
}

func put3F32(b []byte, f [3]float32) {
	_ = b[11] // early bounds check
	binary.LittleEndian.PutUint32(b, math.Float32bits(f[0]))
	binary.LittleEndian.PutUint32(b[4:], math.Float32bits(f[1]))
	binary.LittleEndian.PutUint32(b[8:], math.Float32bits(f[2]))
}

func get3F32(b []byte, f *[3]float32) {
	_ = b[11] // early bounds check
	f[0] = math.Float32frombits(binary.LittleEndian.Uint32(b))
	f[1] = math.Float32frombits(binary.LittleEndian.Uint32(b[4:]))
	f[2] = math.Float32frombits(binary.LittleEndian.Uint32(b[8:]))
}

func bad3F32(f [3]float32) bool {
	return math32.IsNaN(f[0]) || math32.IsInf(f[0], 0) ||
		math32.IsNaN(f[1]) || math32.IsInf(f[1], 0) ||
		math32.IsNaN(f[2]) || math32.IsInf(f[2], 0)
}

var errCalculatedNormalMismatch = errors.New("triangle normal not approximately equal to calculated normal from vertices. Ignore this error if model is OK")

func (t stlTriangle) validate() error {
	const epsilon = 1e-12
	const normTol = 5e-2
	if bad3F32(t.Normal) {
		return errors.New("inf/NaN STL triangle normal")
	}
	if bad3F32(t.Vertex1) || bad3F32(t.Vertex2) || bad3F32(t.Vertex3) {
		return errors.New("inf/NaN STL triangle vertex")
	}
	if t.degenerate(epsilon) {
		return errors.New("triangle is degenerate")
	}
	calcNormal := t.normalFromVertices()
	calcNormalNeg := [3]float32{-calcNormal[0], -calcNormal[1], -calcNormal[2]}
	if !equalWithin3F32(calcNormal, t.Normal, normTol) && !equalWithin3F32(calcNormalNeg, t.Normal, normTol) {
		return errCalculatedNormalMismatch
	}
	return nil
}

func r3From3F32(f [3]float32) r3.Vec {
	return r3.Vec{X: float64(f[0]), Y: float64(f[1]), Z: float64(f[2])}
}

func to3F32(v r3.Vec) [3]float32 {
	return [3]float32{float32(v.X), float32(v.Y), float32(v.Z)}
}

func (t stlTriangle) normalFromVertices() [3]float32 {
	return to3F32(t.toTriangle3().Normal())
}

// degenerate returns true if two of the triangle's vertices coincide.
func (t stlTriangle) degenerate(tol float32) bool {
	return equalWithin3F32(t.Vertex1, t.Vertex2, tol) ||
		equalWithin3F32(t.Vertex2, t.Vertex3, tol) ||
		equalWithin3F32(t.Vertex3, t.Vertex1, tol)
}

func equalWithin3F32(a, b [3]float32, tol float32) bool {
	return math32.Abs(a[0]-b[0]) <= tol &&
		math32.Abs(a[1]-b[1]) <= tol &&
		math32.Abs(a[2]-b[2]) <= tol
}

func (t stlTriangle) toTriangle3() Triangle3 {
	return Triangle3{
		r3From3F32(t.Vertex1),
		r3From3F32(t.Vertex2),
		r3From3F32(t.Vertex3),
	}
}
