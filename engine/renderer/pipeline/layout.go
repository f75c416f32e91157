package pipeline

import (
	"errors"
	"fmt"
	"hash/fnv"

	"github.com/cogentcore/webgpu/wgpu"
)

// ErrMissingAttribute is returned when a pipeline variant requires a vertex
// attribute the mesh's vertex layout does not provide. Callers drop the draw
// for the frame rather than treating this as fatal.
var ErrMissingAttribute = errors.New("pipeline: mesh layout is missing a required vertex attribute")

// AttributeSemantic names the role of a vertex attribute in a mesh buffer.
type AttributeSemantic uint32

const (
	// AttributePosition is the vertex position, required by every pass.
	AttributePosition AttributeSemantic = iota
	// AttributeNormal is the mesh's shading normal.
	AttributeNormal
	// AttributeOutlineNormal is a dedicated outline-extrusion normal that,
	// when present, takes priority over the shading normal.
	AttributeOutlineNormal
	// AttributeUV is the first texture coordinate set, used for alpha masks.
	AttributeUV
)

// String returns the attribute semantic's name for logs and error messages.
func (s AttributeSemantic) String() string {
	switch s {
	case AttributePosition:
		return "position"
	case AttributeNormal:
		return "normal"
	case AttributeOutlineNormal:
		return "outline_normal"
	case AttributeUV:
		return "uv"
	default:
		return fmt.Sprintf("attribute(%d)", uint32(s))
	}
}

// Attribute declares one vertex attribute in a mesh layout.
type Attribute struct {
	// Semantic identifies the attribute's role.
	Semantic AttributeSemantic
	// Format is the attribute's wire format in the vertex buffer.
	Format wgpu.VertexFormat
}

// layoutAttribute is an Attribute with its byte offset resolved.
type layoutAttribute struct {
	semantic AttributeSemantic
	format   wgpu.VertexFormat
	offset   uint64
}

// MeshLayout describes the interleaved vertex buffer layout of one mesh.
// Layouts with the same attributes in the same order share an ID, which the
// specialization cache combines with the pipeline key to identify a compiled
// pipeline.
type MeshLayout struct {
	id     uint64
	stride uint64
	attrs  []layoutAttribute
}

// NewMeshLayout creates a MeshLayout from an ordered list of attributes.
// Offsets are assigned by tightly packing the attributes in declaration order.
//
// Parameters:
//   - attrs: the attributes present in the mesh's vertex buffer, in order
//
// Returns:
//   - MeshLayout: the resolved layout
func NewMeshLayout(attrs ...Attribute) MeshLayout {
	l := MeshLayout{attrs: make([]layoutAttribute, 0, len(attrs))}
	h := fnv.New64a()
	var buf [8]byte
	for _, a := range attrs {
		l.attrs = append(l.attrs, layoutAttribute{
			semantic: a.Semantic,
			format:   a.Format,
			offset:   l.stride,
		})
		l.stride += vertexFormatSize(a.Format)

		putUint32(buf[:4], uint32(a.Semantic))
		putUint32(buf[4:], uint32(a.Format))
		h.Write(buf[:])
	}
	l.id = h.Sum64()
	return l
}

func putUint32(b []byte, v uint32) {
	b[0] = byte(v)
	b[1] = byte(v >> 8)
	b[2] = byte(v >> 16)
	b[3] = byte(v >> 24)
}

// ID returns a stable identifier for the layout's attribute set. Two layouts
// with identical attributes in identical order have the same ID.
//
// Returns:
//   - uint64: the layout identifier
func (l MeshLayout) ID() uint64 { return l.id }

// Stride returns the byte stride between consecutive vertices.
//
// Returns:
//   - uint64: the vertex stride in bytes
func (l MeshLayout) Stride() uint64 { return l.stride }

// Contains reports whether the layout provides the given attribute.
//
// Parameters:
//   - semantic: the attribute to look for
//
// Returns:
//   - bool: true if the layout carries the attribute
func (l MeshLayout) Contains(semantic AttributeSemantic) bool {
	for _, a := range l.attrs {
		if a.semantic == semantic {
			return true
		}
	}
	return false
}

// attributeRequest pairs an attribute semantic with the shader location the
// pipeline's vertex stage expects it at.
type attributeRequest struct {
	semantic AttributeSemantic
	location uint32
}

// bufferLayout builds the wgpu vertex buffer layout for the requested subset
// of attributes. The full mesh stride is preserved so the buffer can be bound
// unchanged; only the requested attributes are declared.
//
// Returns ErrMissingAttribute (wrapped with the attribute name) if the mesh
// does not provide a requested attribute.
func (l MeshLayout) bufferLayout(requests []attributeRequest) (wgpu.VertexBufferLayout, error) {
	attrs := make([]wgpu.VertexAttribute, 0, len(requests))
	for _, req := range requests {
		found := false
		for _, a := range l.attrs {
			if a.semantic == req.semantic {
				attrs = append(attrs, wgpu.VertexAttribute{
					Format:         a.format,
					Offset:         a.offset,
					ShaderLocation: req.location,
				})
				found = true
				break
			}
		}
		if !found {
			return wgpu.VertexBufferLayout{}, fmt.Errorf("%w: %s", ErrMissingAttribute, req.semantic)
		}
	}
	return wgpu.VertexBufferLayout{
		ArrayStride: l.stride,
		StepMode:    wgpu.VertexStepModeVertex,
		Attributes:  attrs,
	}, nil
}

// vertexFormatSize returns the byte size of a vertex format. Only the formats
// mesh loaders actually emit are covered; anything else is a programming error.
func vertexFormatSize(f wgpu.VertexFormat) uint64 {
	switch f {
	case wgpu.VertexFormatFloat32, wgpu.VertexFormatUint32, wgpu.VertexFormatSint32,
		wgpu.VertexFormatUnorm8x4, wgpu.VertexFormatSnorm8x4, wgpu.VertexFormatUint8x4, wgpu.VertexFormatSint8x4:
		return 4
	case wgpu.VertexFormatFloat32x2, wgpu.VertexFormatUint32x2, wgpu.VertexFormatSint32x2,
		wgpu.VertexFormatFloat16x4, wgpu.VertexFormatUnorm16x4, wgpu.VertexFormatSnorm16x4:
		return 8
	case wgpu.VertexFormatFloat32x3, wgpu.VertexFormatUint32x3, wgpu.VertexFormatSint32x3:
		return 12
	case wgpu.VertexFormatFloat32x4, wgpu.VertexFormatUint32x4, wgpu.VertexFormatSint32x4:
		return 16
	default:
		panic(fmt.Sprintf("pipeline: unsupported vertex format: %d", f))
	}
}
