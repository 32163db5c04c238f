package pmx

import (
	"bytes"
	"encoding/binary"
	"io"

	"github.com/qmuntal/gltf"
)

const GLTF_VERSION = "2.0"

// PmxToGltf converts decoded models to one glTF document: geometry, per
// material primitives and PBR base colors. Skinning, morphs and physics have
// no direct glTF counterpart here and are left out.
func PmxToGltf(models []*Pmx) (*gltf.Document, error) {
	doc := CreateDoc()
	for _, ms := range models {
		e := BuildGltf(doc, ms)
		if e != nil {
			return nil, e
		}
	}
	return doc, nil
}

func CreateDoc() *gltf.Document {
	doc := &gltf.Document{}
	doc.Asset.Version = GLTF_VERSION
	srcIndex := uint32(0)
	doc.Scene = &srcIndex
	doc.Scenes = append(doc.Scenes, &gltf.Scene{})
	doc.Buffers = append(doc.Buffers, &gltf.Buffer{})
	return doc
}

type calcSizeWriter struct {
	writer io.Writer
	Size   int
}

func (w *calcSizeWriter) Write(p []byte) (n int, err error) {
	si := len(p)
	w.writer.Write(p)
	w.Size += int(si)
	return si, nil
}

func (w *calcSizeWriter) Bytes() []byte {
	return w.writer.(*bytes.Buffer).Bytes()
}

func newSizeWriter() calcSizeWriter {
	wt := bytes.NewBuffer([]byte{})
	return calcSizeWriter{Size: int(0), writer: wt}
}

func calcPadding(offset, paddingUnit int) int {
	padding := offset % paddingUnit
	if padding != 0 {
		padding = paddingUnit - padding
	}
	return padding
}

func GetGltfBinary(doc *gltf.Document, paddingUnit int) ([]byte, error) {
	w := newSizeWriter()
	enc := gltf.NewEncoder(&w)
	enc.AsBinary = true
	if err := enc.Encode(doc); err != nil {
		return nil, err
	}
	padding := calcPadding(w.Size, paddingUnit)
	if padding == 0 {
		return w.Bytes(), nil
	}
	pad := make([]byte, padding)
	for i := range pad {
		pad[i] = 0x20
	}
	w.Write(pad)
	return w.Bytes(), nil
}

// BuildGltf appends one model to the document as a single mesh whose
// primitives are the per-material face runs: material i covers the next
// ElementCount indices of the face list, in order.
func BuildGltf(doc *gltf.Document, ms *Pmx) error {
	buffer := doc.Buffers[0]
	vs := &ms.Vertexes

	var bt []byte
	buf := bytes.NewBuffer(bt)
	startLen := buffer.ByteLength

	bvIndex := uint32(len(doc.BufferViews))
	indecs := &gltf.BufferView{}
	indecs.ByteOffset = startLen
	binary.Write(buf, binary.LittleEndian, ms.Elements)
	indecs.ByteLength = uint32(buf.Len())
	indecs.Buffer = 0
	doc.BufferViews = append(doc.BufferViews, indecs)

	postions := &gltf.BufferView{}
	postions.ByteOffset = uint32(buf.Len()) + startLen
	binary.Write(buf, binary.LittleEndian, vs.Positions)
	postions.ByteLength = uint32(buf.Len()) - postions.ByteOffset + startLen
	postions.Buffer = 0
	bvPos := uint32(len(doc.BufferViews))
	doc.BufferViews = append(doc.BufferViews, postions)

	texcood := &gltf.BufferView{}
	bvTexc := uint32(len(doc.BufferViews))
	if len(vs.UVs) > 0 {
		texcood.ByteOffset = uint32(buf.Len()) + startLen
		binary.Write(buf, binary.LittleEndian, vs.UVs)
		texcood.ByteLength = uint32(buf.Len()) - texcood.ByteOffset + startLen
		texcood.Buffer = 0
		doc.BufferViews = append(doc.BufferViews, texcood)
	}

	normalView := &gltf.BufferView{}
	bvNl := uint32(len(doc.BufferViews))
	if len(vs.Normals) > 0 {
		normalView.ByteOffset = uint32(buf.Len()) + startLen
		binary.Write(buf, binary.LittleEndian, vs.Normals)
		normalView.ByteLength = uint32(buf.Len()) - normalView.ByteOffset + startLen
		normalView.Buffer = 0
		doc.BufferViews = append(doc.BufferViews, normalView)
	}
	buffer.ByteLength += uint32(buf.Len())
	buffer.Data = append(buffer.Data, buf.Bytes()...)

	mesh := &gltf.Mesh{Name: ms.Info.Name}
	doc.Scenes[0].Nodes = append(doc.Scenes[0].Nodes, uint32(len(doc.Nodes)))
	nde := &gltf.Node{}
	l := (uint32)(len(doc.Meshes))
	nde.Mesh = &l
	doc.Nodes = append(doc.Nodes, nde)

	mtlBase := uint32(len(doc.Materials))
	idx := uint32(len(doc.Accessors))
	attrPos := idx + uint32(len(ms.Materials))
	var start uint32 = 0
	for i, mtl := range ms.Materials {
		tmp := attrPos
		ps := &gltf.Primitive{}
		if ps.Attributes == nil {
			ps.Attributes = make(gltf.Attribute)
		}
		index := uint32(i) + idx
		ps.Indices = &index

		ps.Attributes["POSITION"] = attrPos
		if len(vs.UVs) > 0 {
			tmp++
			ps.Attributes["TEXCOORD_0"] = tmp
		}
		if len(vs.Normals) > 0 {
			tmp++
			ps.Attributes["NORMAL"] = tmp
		}
		ps.Mode = gltf.PrimitiveTriangles
		mtlId := mtlBase + uint32(i)
		ps.Material = &mtlId
		mesh.Primitives = append(mesh.Primitives, ps)

		indexacc := &gltf.Accessor{}
		indexacc.ComponentType = gltf.ComponentUint
		indexacc.ByteOffset = start * 4
		indexacc.Count = mtl.ElementCount
		start += mtl.ElementCount
		bfindex := bvIndex
		indexacc.BufferView = &bfindex
		doc.Accessors = append(doc.Accessors, indexacc)
	}

	posacc := &gltf.Accessor{}
	posacc.ComponentType = gltf.ComponentFloat
	posacc.Type = gltf.AccessorVec3
	posacc.Count = uint32(len(vs.Positions))
	posacc.BufferView = &bvPos
	box := vs.GetBoundbox()
	posacc.Min = []float32{float32(box[0]), float32(box[1]), float32(box[2])}
	posacc.Max = []float32{float32(box[3]), float32(box[4]), float32(box[5])}
	doc.Accessors = append(doc.Accessors, posacc)

	if len(vs.UVs) > 0 {
		texacc := &gltf.Accessor{}
		texacc.ComponentType = gltf.ComponentFloat
		texacc.Type = gltf.AccessorVec2
		texacc.Count = uint32(len(vs.UVs))
		texacc.BufferView = &bvTexc
		doc.Accessors = append(doc.Accessors, texacc)
	}

	if len(vs.Normals) > 0 {
		nlacc := &gltf.Accessor{}
		nlacc.ComponentType = gltf.ComponentFloat
		nlacc.Type = gltf.AccessorVec3
		nlacc.Count = uint32(len(vs.Normals))
		nlacc.BufferView = &bvNl
		doc.Accessors = append(doc.Accessors, nlacc)
	}
	doc.Meshes = append(doc.Meshes, mesh)

	fillMaterials(doc, ms.Materials)
	return nil
}

func fillMaterials(doc *gltf.Document, mtls []*Material) {
	for _, mtl := range mtls {
		gm := &gltf.Material{Name: mtl.Name, DoubleSided: mtl.IsDoubleSided(), AlphaMode: gltf.AlphaMask}
		cl := &[4]float32{mtl.Diffuse[0], mtl.Diffuse[1], mtl.Diffuse[2], mtl.Diffuse[3]}
		gm.PBRMetallicRoughness = &gltf.PBRMetallicRoughness{BaseColorFactor: cl}
		gm.EmissiveFactor[0] = mtl.Ambient[0]
		gm.EmissiveFactor[1] = mtl.Ambient[1]
		gm.EmissiveFactor[2] = mtl.Ambient[2]
		doc.Materials = append(doc.Materials, gm)
	}
}
