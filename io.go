package pmx

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/flywave/go3d/vec2"
	"github.com/flywave/go3d/vec3"
	"github.com/flywave/go3d/vec4"
)

func readLittleUint8(rd io.Reader) (uint8, error) {
	var v uint8
	err := binary.Read(rd, binary.LittleEndian, &v)
	return v, err
}

func readLittleUint16(rd io.Reader) (uint16, error) {
	var v uint16
	err := binary.Read(rd, binary.LittleEndian, &v)
	return v, err
}

func readLittleUint32(rd io.Reader) (uint32, error) {
	var v uint32
	err := binary.Read(rd, binary.LittleEndian, &v)
	return v, err
}

func readLittleInt32(rd io.Reader) (int32, error) {
	var v int32
	err := binary.Read(rd, binary.LittleEndian, &v)
	return v, err
}

func readLittleFloat32(rd io.Reader) (float32, error) {
	var v float32
	err := binary.Read(rd, binary.LittleEndian, &v)
	return v, err
}

func writeLittleUint8(wt io.Writer, v uint8) error {
	return binary.Write(wt, binary.LittleEndian, v)
}

func writeLittleUint16(wt io.Writer, v uint16) error {
	return binary.Write(wt, binary.LittleEndian, v)
}

func writeLittleUint32(wt io.Writer, v uint32) error {
	return binary.Write(wt, binary.LittleEndian, v)
}

func writeLittleInt32(wt io.Writer, v int32) error {
	return binary.Write(wt, binary.LittleEndian, v)
}

func writeLittleFloat32(wt io.Writer, v float32) error {
	return binary.Write(wt, binary.LittleEndian, v)
}

func readLittleVec2(rd io.Reader) (vec2.T, error) {
	var v vec2.T
	err := binary.Read(rd, binary.LittleEndian, v[:])
	return v, err
}

func readLittleVec3(rd io.Reader) (vec3.T, error) {
	var v vec3.T
	err := binary.Read(rd, binary.LittleEndian, v[:])
	return v, err
}

func readLittleVec4(rd io.Reader) (vec4.T, error) {
	var v vec4.T
	err := binary.Read(rd, binary.LittleEndian, v[:])
	return v, err
}

func writeLittleVec2(wt io.Writer, v *vec2.T) error {
	return binary.Write(wt, binary.LittleEndian, v[:])
}

func writeLittleVec3(wt io.Writer, v *vec3.T) error {
	return binary.Write(wt, binary.LittleEndian, v[:])
}

func writeLittleVec4(wt io.Writer, v *vec4.T) error {
	return binary.Write(wt, binary.LittleEndian, v[:])
}

// Boolean bytes are strict: anything other than 0 or 1 is a format error.
func readLittleBool(rd io.Reader) (bool, error) {
	b, err := readLittleUint8(rd)
	if err != nil {
		return false, err
	}
	switch b {
	case 0:
		return false, nil
	case 1:
		return true, nil
	default:
		return false, &InvalidTagError{Kind: "bool", Value: uint32(b)}
	}
}

func writeLittleBool(wt io.Writer, v bool) error {
	if v {
		return writeLittleUint8(wt, 1)
	}
	return writeLittleUint8(wt, 0)
}

func ModelInfoUnMarshal(rd io.Reader, h *Header) (*ModelInfo, error) {
	info := &ModelInfo{}
	var err error
	if info.Name, err = h.Encoding.ReadString(rd); err != nil {
		return nil, err
	}
	if info.NameEn, err = h.Encoding.ReadString(rd); err != nil {
		return nil, err
	}
	if info.Comment, err = h.Encoding.ReadString(rd); err != nil {
		return nil, err
	}
	if info.CommentEn, err = h.Encoding.ReadString(rd); err != nil {
		return nil, err
	}
	return info, nil
}

func ModelInfoMarshal(wt io.Writer, info *ModelInfo, h *Header) error {
	if err := h.Encoding.WriteString(wt, info.Name); err != nil {
		return err
	}
	if err := h.Encoding.WriteString(wt, info.NameEn); err != nil {
		return err
	}
	if err := h.Encoding.WriteString(wt, info.Comment); err != nil {
		return err
	}
	return h.Encoding.WriteString(wt, info.CommentEn)
}

func SkinUnMarshal(rd io.Reader, h *Header) (Skin, error) {
	t, err := readLittleUint8(rd)
	if err != nil {
		return nil, err
	}
	bi := h.BoneIndex
	switch t {
	case SKIN_TYPE_BDEF1:
		s := &BDEF1{}
		if s.BoneIndex, err = bi.ReadSignedIndex(rd); err != nil {
			return nil, err
		}
		return s, nil
	case SKIN_TYPE_BDEF2:
		s := &BDEF2{}
		if s.BoneIndex1, err = bi.ReadSignedIndex(rd); err != nil {
			return nil, err
		}
		if s.BoneIndex2, err = bi.ReadSignedIndex(rd); err != nil {
			return nil, err
		}
		if s.BoneWeight1, err = readLittleFloat32(rd); err != nil {
			return nil, err
		}
		return s, nil
	case SKIN_TYPE_BDEF4:
		s := &BDEF4{}
		if err = readSkin4(rd, bi,
			&s.BoneIndex1, &s.BoneIndex2, &s.BoneIndex3, &s.BoneIndex4,
			&s.BoneWeight1, &s.BoneWeight2, &s.BoneWeight3, &s.BoneWeight4); err != nil {
			return nil, err
		}
		return s, nil
	case SKIN_TYPE_SDEF:
		s := &SDEF{}
		if s.BoneIndex1, err = bi.ReadSignedIndex(rd); err != nil {
			return nil, err
		}
		if s.BoneIndex2, err = bi.ReadSignedIndex(rd); err != nil {
			return nil, err
		}
		if s.BoneWeight1, err = readLittleFloat32(rd); err != nil {
			return nil, err
		}
		if s.C, err = readLittleVec3(rd); err != nil {
			return nil, err
		}
		if s.R0, err = readLittleVec3(rd); err != nil {
			return nil, err
		}
		if s.R1, err = readLittleVec3(rd); err != nil {
			return nil, err
		}
		return s, nil
	case SKIN_TYPE_QDEF:
		s := &QDEF{}
		if err = readSkin4(rd, bi,
			&s.BoneIndex1, &s.BoneIndex2, &s.BoneIndex3, &s.BoneIndex4,
			&s.BoneWeight1, &s.BoneWeight2, &s.BoneWeight3, &s.BoneWeight4); err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, &InvalidTagError{Kind: "skin", Value: uint32(t)}
	}
}

// readSkin4 reads the shared four-bone four-weight layout of BDEF4 and QDEF.
func readSkin4(rd io.Reader, bi IndexSize, b1, b2, b3, b4 *int32, w1, w2, w3, w4 *float32) error {
	var err error
	for _, b := range []*int32{b1, b2, b3, b4} {
		if *b, err = bi.ReadSignedIndex(rd); err != nil {
			return err
		}
	}
	for _, w := range []*float32{w1, w2, w3, w4} {
		if *w, err = readLittleFloat32(rd); err != nil {
			return err
		}
	}
	return nil
}

func writeSkin4(wt io.Writer, bi IndexSize, b1, b2, b3, b4 int32, w1, w2, w3, w4 float32) error {
	for _, b := range []int32{b1, b2, b3, b4} {
		if err := bi.WriteSignedIndex(wt, b); err != nil {
			return err
		}
	}
	for _, w := range []float32{w1, w2, w3, w4} {
		if err := writeLittleFloat32(wt, w); err != nil {
			return err
		}
	}
	return nil
}

func SkinMarshal(wt io.Writer, skin Skin, h *Header) error {
	if err := writeLittleUint8(wt, skin.SkinType()); err != nil {
		return err
	}
	bi := h.BoneIndex
	switch s := skin.(type) {
	case *BDEF1:
		return bi.WriteSignedIndex(wt, s.BoneIndex)
	case *BDEF2:
		if err := bi.WriteSignedIndex(wt, s.BoneIndex1); err != nil {
			return err
		}
		if err := bi.WriteSignedIndex(wt, s.BoneIndex2); err != nil {
			return err
		}
		return writeLittleFloat32(wt, s.BoneWeight1)
	case *BDEF4:
		return writeSkin4(wt, bi,
			s.BoneIndex1, s.BoneIndex2, s.BoneIndex3, s.BoneIndex4,
			s.BoneWeight1, s.BoneWeight2, s.BoneWeight3, s.BoneWeight4)
	case *SDEF:
		if err := bi.WriteSignedIndex(wt, s.BoneIndex1); err != nil {
			return err
		}
		if err := bi.WriteSignedIndex(wt, s.BoneIndex2); err != nil {
			return err
		}
		if err := writeLittleFloat32(wt, s.BoneWeight1); err != nil {
			return err
		}
		if err := writeLittleVec3(wt, &s.C); err != nil {
			return err
		}
		if err := writeLittleVec3(wt, &s.R0); err != nil {
			return err
		}
		return writeLittleVec3(wt, &s.R1)
	case *QDEF:
		return writeSkin4(wt, bi,
			s.BoneIndex1, s.BoneIndex2, s.BoneIndex3, s.BoneIndex4,
			s.BoneWeight1, s.BoneWeight2, s.BoneWeight3, s.BoneWeight4)
	default:
		return &InvalidTagError{Kind: "skin", Value: uint32(skin.SkinType())}
	}
}

// VertexesUnMarshal reads the interleaved vertex block into columnar arrays.
// The number of extra vec4 slots per vertex comes from the header, not the
// section itself.
func VertexesUnMarshal(rd io.Reader, h *Header) (*Vertexes, error) {
	count, err := readLittleUint32(rd)
	if err != nil {
		return nil, err
	}
	vs := &Vertexes{
		Positions: make([]vec3.T, 0, count),
		Normals:   make([]vec3.T, 0, count),
		UVs:       make([]vec2.T, 0, count),
		ExtVec4s:  make([][]vec4.T, h.ExtVec4Count),
		Skins:     make([]Skin, 0, count),
		Edges:     make([]float32, 0, count),
	}
	for e := range vs.ExtVec4s {
		vs.ExtVec4s[e] = make([]vec4.T, 0, count)
	}
	for i := uint32(0); i < count; i++ {
		pos, err := readLittleVec3(rd)
		if err != nil {
			return nil, err
		}
		normal, err := readLittleVec3(rd)
		if err != nil {
			return nil, err
		}
		uv, err := readLittleVec2(rd)
		if err != nil {
			return nil, err
		}
		vs.Positions = append(vs.Positions, pos)
		vs.Normals = append(vs.Normals, normal)
		vs.UVs = append(vs.UVs, uv)
		for e := range vs.ExtVec4s {
			ext, err := readLittleVec4(rd)
			if err != nil {
				return nil, err
			}
			vs.ExtVec4s[e] = append(vs.ExtVec4s[e], ext)
		}
		skin, err := SkinUnMarshal(rd, h)
		if err != nil {
			return nil, err
		}
		edge, err := readLittleFloat32(rd)
		if err != nil {
			return nil, err
		}
		vs.Skins = append(vs.Skins, skin)
		vs.Edges = append(vs.Edges, edge)
	}
	return vs, nil
}

// VertexesMarshal re-interleaves the columnar arrays. Every column, and each
// of the header-declared extra vec4 slots, must hold exactly Count() entries.
func VertexesMarshal(wt io.Writer, vs *Vertexes, h *Header) error {
	count := int(vs.Count())
	if int(h.ExtVec4Count) > len(vs.ExtVec4s) {
		return ErrVertexCount
	}
	exts := vs.ExtVec4s[:h.ExtVec4Count]
	if len(vs.Normals) != count || len(vs.UVs) != count ||
		len(vs.Skins) != count || len(vs.Edges) != count {
		return ErrVertexCount
	}
	for _, ext := range exts {
		if len(ext) != count {
			return ErrVertexCount
		}
	}
	if err := writeLittleUint32(wt, vs.Count()); err != nil {
		return err
	}
	for i := 0; i < count; i++ {
		if err := writeLittleVec3(wt, &vs.Positions[i]); err != nil {
			return err
		}
		if err := writeLittleVec3(wt, &vs.Normals[i]); err != nil {
			return err
		}
		if err := writeLittleVec2(wt, &vs.UVs[i]); err != nil {
			return err
		}
		for _, ext := range exts {
			if err := writeLittleVec4(wt, &ext[i]); err != nil {
				return err
			}
		}
		if err := SkinMarshal(wt, vs.Skins[i], h); err != nil {
			return err
		}
		if err := writeLittleFloat32(wt, vs.Edges[i]); err != nil {
			return err
		}
	}
	return nil
}

// ElementsUnMarshal reads the face index list; element indices are the one
// place the vertex index width is read unsigned.
func ElementsUnMarshal(rd io.Reader, h *Header) ([]uint32, error) {
	count, err := readLittleUint32(rd)
	if err != nil {
		return nil, err
	}
	elements := make([]uint32, 0, count)
	for i := uint32(0); i < count; i++ {
		e, err := h.VertexIndex.ReadIndex(rd)
		if err != nil {
			return nil, err
		}
		elements = append(elements, e)
	}
	return elements, nil
}

func ElementsMarshal(wt io.Writer, elements []uint32, h *Header) error {
	if err := writeLittleUint32(wt, uint32(len(elements))); err != nil {
		return err
	}
	for _, e := range elements {
		if err := h.VertexIndex.WriteIndex(wt, e); err != nil {
			return err
		}
	}
	return nil
}

func TexturesUnMarshal(rd io.Reader, h *Header) ([]string, error) {
	count, err := readLittleUint32(rd)
	if err != nil {
		return nil, err
	}
	textures := make([]string, 0, count)
	for i := uint32(0); i < count; i++ {
		tex, err := h.Encoding.ReadString(rd)
		if err != nil {
			return nil, err
		}
		textures = append(textures, tex)
	}
	return textures, nil
}

func TexturesMarshal(wt io.Writer, textures []string, h *Header) error {
	if err := writeLittleUint32(wt, uint32(len(textures))); err != nil {
		return err
	}
	for _, tex := range textures {
		if err := h.Encoding.WriteString(wt, tex); err != nil {
			return err
		}
	}
	return nil
}

func ToonTextureUnMarshal(rd io.Reader, h *Header) (ToonTexture, error) {
	t, err := readLittleUint8(rd)
	if err != nil {
		return nil, err
	}
	switch t {
	case TOON_TYPE_TEXTURE:
		index, err := h.TextureIndex.ReadIndex(rd)
		if err != nil {
			return nil, err
		}
		return &ToonTextureIndex{Index: index}, nil
	case TOON_TYPE_COMMON:
		index, err := readLittleUint8(rd)
		if err != nil {
			return nil, err
		}
		return &ToonCommonIndex{Index: index}, nil
	default:
		return nil, &InvalidTagError{Kind: "toon texture", Value: uint32(t)}
	}
}

func ToonTextureMarshal(wt io.Writer, toon ToonTexture, h *Header) error {
	if err := writeLittleUint8(wt, toon.ToonType()); err != nil {
		return err
	}
	switch t := toon.(type) {
	case *ToonTextureIndex:
		return h.TextureIndex.WriteIndex(wt, t.Index)
	case *ToonCommonIndex:
		return writeLittleUint8(wt, t.Index)
	default:
		return &InvalidTagError{Kind: "toon texture", Value: uint32(toon.ToonType())}
	}
}

func MaterialUnMarshal(rd io.Reader, h *Header) (*Material, error) {
	mtl := &Material{}
	var err error
	if mtl.Name, err = h.Encoding.ReadString(rd); err != nil {
		return nil, err
	}
	if mtl.NameEn, err = h.Encoding.ReadString(rd); err != nil {
		return nil, err
	}
	if mtl.Diffuse, err = readLittleVec4(rd); err != nil {
		return nil, err
	}
	if mtl.Specular, err = readLittleVec4(rd); err != nil {
		return nil, err
	}
	if mtl.Ambient, err = readLittleVec3(rd); err != nil {
		return nil, err
	}
	if mtl.Flags, err = readLittleUint8(rd); err != nil {
		return nil, err
	}
	if mtl.EdgeColor, err = readLittleVec4(rd); err != nil {
		return nil, err
	}
	if mtl.EdgeSize, err = readLittleFloat32(rd); err != nil {
		return nil, err
	}
	if mtl.TextureIndex, err = h.TextureIndex.ReadIndex(rd); err != nil {
		return nil, err
	}
	if mtl.EnvTextureIndex, err = h.TextureIndex.ReadIndex(rd); err != nil {
		return nil, err
	}
	if mtl.Mix, err = readLittleUint8(rd); err != nil {
		return nil, err
	}
	if mtl.Mix > MIX_SUB_TEXTURE {
		return nil, &InvalidTagError{Kind: "mix", Value: uint32(mtl.Mix)}
	}
	if mtl.ToonTexture, err = ToonTextureUnMarshal(rd, h); err != nil {
		return nil, err
	}
	if mtl.Comment, err = h.Encoding.ReadString(rd); err != nil {
		return nil, err
	}
	if mtl.ElementCount, err = readLittleUint32(rd); err != nil {
		return nil, err
	}
	return mtl, nil
}

func MaterialMarshal(wt io.Writer, mtl *Material, h *Header) error {
	if err := h.Encoding.WriteString(wt, mtl.Name); err != nil {
		return err
	}
	if err := h.Encoding.WriteString(wt, mtl.NameEn); err != nil {
		return err
	}
	if err := writeLittleVec4(wt, &mtl.Diffuse); err != nil {
		return err
	}
	if err := writeLittleVec4(wt, &mtl.Specular); err != nil {
		return err
	}
	if err := writeLittleVec3(wt, &mtl.Ambient); err != nil {
		return err
	}
	if err := writeLittleUint8(wt, mtl.Flags); err != nil {
		return err
	}
	if err := writeLittleVec4(wt, &mtl.EdgeColor); err != nil {
		return err
	}
	if err := writeLittleFloat32(wt, mtl.EdgeSize); err != nil {
		return err
	}
	if err := h.TextureIndex.WriteIndex(wt, mtl.TextureIndex); err != nil {
		return err
	}
	if err := h.TextureIndex.WriteIndex(wt, mtl.EnvTextureIndex); err != nil {
		return err
	}
	if err := writeLittleUint8(wt, mtl.Mix); err != nil {
		return err
	}
	if err := ToonTextureMarshal(wt, mtl.ToonTexture, h); err != nil {
		return err
	}
	if err := h.Encoding.WriteString(wt, mtl.Comment); err != nil {
		return err
	}
	return writeLittleUint32(wt, mtl.ElementCount)
}

func MaterialsUnMarshal(rd io.Reader, h *Header) ([]*Material, error) {
	count, err := readLittleUint32(rd)
	if err != nil {
		return nil, err
	}
	materials := make([]*Material, 0, count)
	for i := uint32(0); i < count; i++ {
		mtl, err := MaterialUnMarshal(rd, h)
		if err != nil {
			return nil, err
		}
		materials = append(materials, mtl)
	}
	return materials, nil
}

func MaterialsMarshal(wt io.Writer, materials []*Material, h *Header) error {
	if err := writeLittleUint32(wt, uint32(len(materials))); err != nil {
		return err
	}
	for _, mtl := range materials {
		if err := MaterialMarshal(wt, mtl, h); err != nil {
			return err
		}
	}
	return nil
}

func IkLinkUnMarshal(rd io.Reader, h *Header) (*IkLink, error) {
	link := &IkLink{}
	var err error
	if link.BoneIndex, err = h.BoneIndex.ReadIndex(rd); err != nil {
		return nil, err
	}
	limited, err := readLittleBool(rd)
	if err != nil {
		return nil, err
	}
	if limited {
		limit := &AngleLimit{}
		if limit.Min, err = readLittleVec3(rd); err != nil {
			return nil, err
		}
		if limit.Max, err = readLittleVec3(rd); err != nil {
			return nil, err
		}
		link.AngleLimit = limit
	}
	return link, nil
}

func IkLinkMarshal(wt io.Writer, link *IkLink, h *Header) error {
	if err := h.BoneIndex.WriteIndex(wt, link.BoneIndex); err != nil {
		return err
	}
	if err := writeLittleBool(wt, link.AngleLimit != nil); err != nil {
		return err
	}
	if link.AngleLimit != nil {
		if err := writeLittleVec3(wt, &link.AngleLimit.Min); err != nil {
			return err
		}
		return writeLittleVec3(wt, &link.AngleLimit.Max)
	}
	return nil
}

func IkUnMarshal(rd io.Reader, h *Header) (*Ik, error) {
	ik := &Ik{}
	var err error
	if ik.TargetBoneIndex, err = h.BoneIndex.ReadIndex(rd); err != nil {
		return nil, err
	}
	if ik.IterCount, err = readLittleUint32(rd); err != nil {
		return nil, err
	}
	if ik.LimitAngle, err = readLittleFloat32(rd); err != nil {
		return nil, err
	}
	count, err := readLittleUint32(rd)
	if err != nil {
		return nil, err
	}
	ik.Links = make([]*IkLink, 0, count)
	for i := uint32(0); i < count; i++ {
		link, err := IkLinkUnMarshal(rd, h)
		if err != nil {
			return nil, err
		}
		ik.Links = append(ik.Links, link)
	}
	return ik, nil
}

func IkMarshal(wt io.Writer, ik *Ik, h *Header) error {
	if err := h.BoneIndex.WriteIndex(wt, ik.TargetBoneIndex); err != nil {
		return err
	}
	if err := writeLittleUint32(wt, ik.IterCount); err != nil {
		return err
	}
	if err := writeLittleFloat32(wt, ik.LimitAngle); err != nil {
		return err
	}
	if err := writeLittleUint32(wt, uint32(len(ik.Links))); err != nil {
		return err
	}
	for _, link := range ik.Links {
		if err := IkLinkMarshal(wt, link, h); err != nil {
			return err
		}
	}
	return nil
}

// BoneUnMarshal decodes the flag word, then the optional blocks strictly in
// wire order: connection, inherit, fixed axis, local frame, external parent,
// IK. The fields carry no per-field tag, so the order is load bearing.
func BoneUnMarshal(rd io.Reader, h *Header) (*Bone, error) {
	b := &Bone{}
	var err error
	if b.Name, err = h.Encoding.ReadString(rd); err != nil {
		return nil, err
	}
	if b.NameEn, err = h.Encoding.ReadString(rd); err != nil {
		return nil, err
	}
	if b.Position, err = readLittleVec3(rd); err != nil {
		return nil, err
	}
	if b.ParentBoneIndex, err = h.BoneIndex.ReadIndex(rd); err != nil {
		return nil, err
	}
	if b.Priority, err = readLittleUint32(rd); err != nil {
		return nil, err
	}
	flags, err := readLittleUint16(rd)
	if err != nil {
		return nil, err
	}

	b.Rotatable = flags&BONE_FLAG_ROTATABLE != 0
	b.Translatable = flags&BONE_FLAG_TRANSLATABLE != 0
	b.IsVisible = flags&BONE_FLAG_IS_VISIBLE != 0
	b.Enable = flags&BONE_FLAG_ENABLED != 0
	b.InheritLocal = flags&BONE_FLAG_INHERIT_LOCAL != 0
	b.PhysicsAfterDeform = flags&BONE_FLAG_PHYSICS_AFTER_DEFORM != 0
	b.Unknown0040 = flags&BONE_FLAG_UNKNOWN_0040 != 0
	b.Unknown2000 = flags&BONE_FLAG_UNKNOWN_2000 != 0
	b.Unknown4000 = flags&BONE_FLAG_UNKNOWN_4000 != 0
	b.Unknown8000 = flags&BONE_FLAG_UNKNOWN_8000 != 0

	if flags&BONE_FLAG_CONNECT_TO_OTHER_BONE != 0 {
		b.Connect.ToBone = true
		if b.Connect.BoneIndex, err = h.BoneIndex.ReadIndex(rd); err != nil {
			return nil, err
		}
	} else {
		if b.Connect.Position, err = readLittleVec3(rd); err != nil {
			return nil, err
		}
	}

	rotate := flags&BONE_FLAG_INHERIT_ROTATION != 0
	translate := flags&BONE_FLAG_INHERIT_TRANSLATION != 0
	if rotate || translate {
		inherit := &InheritBone{}
		switch {
		case rotate && translate:
			inherit.Mode = INHERIT_ROTATE_TRANSLATE
		case rotate:
			inherit.Mode = INHERIT_ROTATE
		default:
			inherit.Mode = INHERIT_TRANSLATION
		}
		if inherit.BoneIndex, err = h.BoneIndex.ReadIndex(rd); err != nil {
			return nil, err
		}
		if inherit.Weight, err = readLittleFloat32(rd); err != nil {
			return nil, err
		}
		b.Inherit = inherit
	}

	if flags&BONE_FLAG_FIXED_AXIS != 0 {
		axis, err := readLittleVec3(rd)
		if err != nil {
			return nil, err
		}
		b.FixedAxis = &axis
	}
	if flags&BONE_FLAG_LOCAL_COORDINATE != 0 {
		local := &LocalAxis{}
		if local.X, err = readLittleVec3(rd); err != nil {
			return nil, err
		}
		if local.Z, err = readLittleVec3(rd); err != nil {
			return nil, err
		}
		b.LocalAxis = local
	}
	if flags&BONE_FLAG_EXTERNAL_PARENT_DEFORM != 0 {
		parent, err := h.BoneIndex.ReadIndex(rd)
		if err != nil {
			return nil, err
		}
		b.ExternalParent = &parent
	}
	if flags&BONE_FLAG_IK != 0 {
		if b.Ik, err = IkUnMarshal(rd, h); err != nil {
			return nil, err
		}
	}
	return b, nil
}

func BoneMarshal(wt io.Writer, b *Bone, h *Header) error {
	if err := h.Encoding.WriteString(wt, b.Name); err != nil {
		return err
	}
	if err := h.Encoding.WriteString(wt, b.NameEn); err != nil {
		return err
	}
	if err := writeLittleVec3(wt, &b.Position); err != nil {
		return err
	}
	if err := h.BoneIndex.WriteIndex(wt, b.ParentBoneIndex); err != nil {
		return err
	}
	if err := writeLittleUint32(wt, b.Priority); err != nil {
		return err
	}
	if err := writeLittleUint16(wt, b.Flags()); err != nil {
		return err
	}
	if b.Connect.ToBone {
		if err := h.BoneIndex.WriteIndex(wt, b.Connect.BoneIndex); err != nil {
			return err
		}
	} else {
		if err := writeLittleVec3(wt, &b.Connect.Position); err != nil {
			return err
		}
	}
	if b.Inherit != nil {
		if err := h.BoneIndex.WriteIndex(wt, b.Inherit.BoneIndex); err != nil {
			return err
		}
		if err := writeLittleFloat32(wt, b.Inherit.Weight); err != nil {
			return err
		}
	}
	if b.FixedAxis != nil {
		if err := writeLittleVec3(wt, b.FixedAxis); err != nil {
			return err
		}
	}
	if b.LocalAxis != nil {
		if err := writeLittleVec3(wt, &b.LocalAxis.X); err != nil {
			return err
		}
		if err := writeLittleVec3(wt, &b.LocalAxis.Z); err != nil {
			return err
		}
	}
	if b.ExternalParent != nil {
		if err := h.BoneIndex.WriteIndex(wt, *b.ExternalParent); err != nil {
			return err
		}
	}
	if b.Ik != nil {
		return IkMarshal(wt, b.Ik, h)
	}
	return nil
}

func BonesUnMarshal(rd io.Reader, h *Header) ([]*Bone, error) {
	count, err := readLittleUint32(rd)
	if err != nil {
		return nil, err
	}
	bones := make([]*Bone, 0, count)
	for i := uint32(0); i < count; i++ {
		b, err := BoneUnMarshal(rd, h)
		if err != nil {
			return nil, err
		}
		bones = append(bones, b)
	}
	return bones, nil
}

func BonesMarshal(wt io.Writer, bones []*Bone, h *Header) error {
	if err := writeLittleUint32(wt, uint32(len(bones))); err != nil {
		return err
	}
	for _, b := range bones {
		if err := BoneMarshal(wt, b, h); err != nil {
			return err
		}
	}
	return nil
}

func GroupMorphUnMarshal(rd io.Reader, h *Header) (*GroupMorph, error) {
	m := &GroupMorph{}
	var err error
	if m.MorphIndex, err = h.MorphIndex.ReadIndex(rd); err != nil {
		return nil, err
	}
	if m.MorphFactor, err = readLittleFloat32(rd); err != nil {
		return nil, err
	}
	return m, nil
}

func GroupMorphMarshal(wt io.Writer, m *GroupMorph, h *Header) error {
	if err := h.MorphIndex.WriteIndex(wt, m.MorphIndex); err != nil {
		return err
	}
	return writeLittleFloat32(wt, m.MorphFactor)
}

func VertexMorphUnMarshal(rd io.Reader, h *Header) (*VertexMorph, error) {
	m := &VertexMorph{}
	var err error
	if m.VertexIndex, err = h.VertexIndex.ReadIndex(rd); err != nil {
		return nil, err
	}
	if m.Offset, err = readLittleVec3(rd); err != nil {
		return nil, err
	}
	return m, nil
}

func VertexMorphMarshal(wt io.Writer, m *VertexMorph, h *Header) error {
	if err := h.VertexIndex.WriteIndex(wt, m.VertexIndex); err != nil {
		return err
	}
	return writeLittleVec3(wt, &m.Offset)
}

func BoneMorphUnMarshal(rd io.Reader, h *Header) (*BoneMorph, error) {
	m := &BoneMorph{}
	var err error
	if m.BoneIndex, err = h.BoneIndex.ReadIndex(rd); err != nil {
		return nil, err
	}
	if m.Translates, err = readLittleVec3(rd); err != nil {
		return nil, err
	}
	if m.Rotates, err = readLittleVec4(rd); err != nil {
		return nil, err
	}
	return m, nil
}

func BoneMorphMarshal(wt io.Writer, m *BoneMorph, h *Header) error {
	if err := h.BoneIndex.WriteIndex(wt, m.BoneIndex); err != nil {
		return err
	}
	if err := writeLittleVec3(wt, &m.Translates); err != nil {
		return err
	}
	return writeLittleVec4(wt, &m.Rotates)
}

func UVMorphUnMarshal(rd io.Reader, h *Header) (*UVMorph, error) {
	m := &UVMorph{}
	var err error
	if m.VertexIndex, err = h.VertexIndex.ReadIndex(rd); err != nil {
		return nil, err
	}
	if m.Offset, err = readLittleVec4(rd); err != nil {
		return nil, err
	}
	return m, nil
}

func UVMorphMarshal(wt io.Writer, m *UVMorph, h *Header) error {
	if err := h.VertexIndex.WriteIndex(wt, m.VertexIndex); err != nil {
		return err
	}
	return writeLittleVec4(wt, &m.Offset)
}

func MaterialMorphUnMarshal(rd io.Reader, h *Header) (*MaterialMorph, error) {
	m := &MaterialMorph{}
	var err error
	if m.MaterialIndex, err = h.MaterialIndex.ReadIndex(rd); err != nil {
		return nil, err
	}
	if m.Formula, err = readLittleUint8(rd); err != nil {
		return nil, err
	}
	if m.Diffuse, err = readLittleVec4(rd); err != nil {
		return nil, err
	}
	if m.Specular, err = readLittleVec3(rd); err != nil {
		return nil, err
	}
	if m.SpecularFactor, err = readLittleFloat32(rd); err != nil {
		return nil, err
	}
	if m.Ambient, err = readLittleVec3(rd); err != nil {
		return nil, err
	}
	if m.EdgeColor, err = readLittleVec4(rd); err != nil {
		return nil, err
	}
	if m.EdgeSize, err = readLittleFloat32(rd); err != nil {
		return nil, err
	}
	if m.TextureFactor, err = readLittleVec4(rd); err != nil {
		return nil, err
	}
	if m.SphereTextureFactor, err = readLittleVec4(rd); err != nil {
		return nil, err
	}
	if m.ToonTextureFactor, err = readLittleVec4(rd); err != nil {
		return nil, err
	}
	return m, nil
}

func MaterialMorphMarshal(wt io.Writer, m *MaterialMorph, h *Header) error {
	if err := h.MaterialIndex.WriteIndex(wt, m.MaterialIndex); err != nil {
		return err
	}
	if err := writeLittleUint8(wt, m.Formula); err != nil {
		return err
	}
	if err := writeLittleVec4(wt, &m.Diffuse); err != nil {
		return err
	}
	if err := writeLittleVec3(wt, &m.Specular); err != nil {
		return err
	}
	if err := writeLittleFloat32(wt, m.SpecularFactor); err != nil {
		return err
	}
	if err := writeLittleVec3(wt, &m.Ambient); err != nil {
		return err
	}
	if err := writeLittleVec4(wt, &m.EdgeColor); err != nil {
		return err
	}
	if err := writeLittleFloat32(wt, m.EdgeSize); err != nil {
		return err
	}
	if err := writeLittleVec4(wt, &m.TextureFactor); err != nil {
		return err
	}
	if err := writeLittleVec4(wt, &m.SphereTextureFactor); err != nil {
		return err
	}
	return writeLittleVec4(wt, &m.ToonTextureFactor)
}

func FlipMorphUnMarshal(rd io.Reader, h *Header) (*FlipMorph, error) {
	m := &FlipMorph{}
	var err error
	if m.MorphIndex, err = h.MorphIndex.ReadIndex(rd); err != nil {
		return nil, err
	}
	if m.MorphFactor, err = readLittleFloat32(rd); err != nil {
		return nil, err
	}
	return m, nil
}

func FlipMorphMarshal(wt io.Writer, m *FlipMorph, h *Header) error {
	if err := h.MorphIndex.WriteIndex(wt, m.MorphIndex); err != nil {
		return err
	}
	return writeLittleFloat32(wt, m.MorphFactor)
}

func ImpulseMorphUnMarshal(rd io.Reader, h *Header) (*ImpulseMorph, error) {
	m := &ImpulseMorph{}
	var err error
	if m.RigidIndex, err = h.RigidBodyIndex.ReadIndex(rd); err != nil {
		return nil, err
	}
	if m.IsLocal, err = readLittleBool(rd); err != nil {
		return nil, err
	}
	if m.Velocity, err = readLittleVec3(rd); err != nil {
		return nil, err
	}
	if m.Torque, err = readLittleVec3(rd); err != nil {
		return nil, err
	}
	return m, nil
}

func ImpulseMorphMarshal(wt io.Writer, m *ImpulseMorph, h *Header) error {
	if err := h.RigidBodyIndex.WriteIndex(wt, m.RigidIndex); err != nil {
		return err
	}
	if err := writeLittleBool(wt, m.IsLocal); err != nil {
		return err
	}
	if err := writeLittleVec3(wt, &m.Velocity); err != nil {
		return err
	}
	return writeLittleVec3(wt, &m.Torque)
}

// MorphDataUnMarshal reads the tag byte, the record count, then that many
// records of the kind the tag selects.
func MorphDataUnMarshal(rd io.Reader, h *Header) (MorphData, error) {
	t, err := readLittleUint8(rd)
	if err != nil {
		return nil, err
	}
	count, err := readLittleUint32(rd)
	if err != nil {
		return nil, err
	}
	switch t {
	case MORPH_TYPE_GROUP:
		data := make(GroupMorphs, 0, count)
		for i := uint32(0); i < count; i++ {
			m, err := GroupMorphUnMarshal(rd, h)
			if err != nil {
				return nil, err
			}
			data = append(data, m)
		}
		return data, nil
	case MORPH_TYPE_VERTEX:
		data := make(VertexMorphs, 0, count)
		for i := uint32(0); i < count; i++ {
			m, err := VertexMorphUnMarshal(rd, h)
			if err != nil {
				return nil, err
			}
			data = append(data, m)
		}
		return data, nil
	case MORPH_TYPE_BONE:
		data := make(BoneMorphs, 0, count)
		for i := uint32(0); i < count; i++ {
			m, err := BoneMorphUnMarshal(rd, h)
			if err != nil {
				return nil, err
			}
			data = append(data, m)
		}
		return data, nil
	case MORPH_TYPE_UV, MORPH_TYPE_UV1, MORPH_TYPE_UV2, MORPH_TYPE_UV3, MORPH_TYPE_UV4:
		records := make([]*UVMorph, 0, count)
		for i := uint32(0); i < count; i++ {
			m, err := UVMorphUnMarshal(rd, h)
			if err != nil {
				return nil, err
			}
			records = append(records, m)
		}
		switch t {
		case MORPH_TYPE_UV:
			return UVMorphs(records), nil
		case MORPH_TYPE_UV1:
			return UV1Morphs(records), nil
		case MORPH_TYPE_UV2:
			return UV2Morphs(records), nil
		case MORPH_TYPE_UV3:
			return UV3Morphs(records), nil
		default:
			return UV4Morphs(records), nil
		}
	case MORPH_TYPE_MATERIAL:
		data := make(MaterialMorphs, 0, count)
		for i := uint32(0); i < count; i++ {
			m, err := MaterialMorphUnMarshal(rd, h)
			if err != nil {
				return nil, err
			}
			data = append(data, m)
		}
		return data, nil
	case MORPH_TYPE_FLIP:
		data := make(FlipMorphs, 0, count)
		for i := uint32(0); i < count; i++ {
			m, err := FlipMorphUnMarshal(rd, h)
			if err != nil {
				return nil, err
			}
			data = append(data, m)
		}
		return data, nil
	case MORPH_TYPE_IMPULSE:
		data := make(ImpulseMorphs, 0, count)
		for i := uint32(0); i < count; i++ {
			m, err := ImpulseMorphUnMarshal(rd, h)
			if err != nil {
				return nil, err
			}
			data = append(data, m)
		}
		return data, nil
	default:
		return nil, &InvalidTagError{Kind: "morph", Value: uint32(t)}
	}
}

func MorphDataMarshal(wt io.Writer, data MorphData, h *Header) error {
	if err := writeLittleUint8(wt, data.MorphType()); err != nil {
		return err
	}
	switch d := data.(type) {
	case GroupMorphs:
		if err := writeLittleUint32(wt, uint32(len(d))); err != nil {
			return err
		}
		for _, m := range d {
			if err := GroupMorphMarshal(wt, m, h); err != nil {
				return err
			}
		}
	case VertexMorphs:
		if err := writeLittleUint32(wt, uint32(len(d))); err != nil {
			return err
		}
		for _, m := range d {
			if err := VertexMorphMarshal(wt, m, h); err != nil {
				return err
			}
		}
	case BoneMorphs:
		if err := writeLittleUint32(wt, uint32(len(d))); err != nil {
			return err
		}
		for _, m := range d {
			if err := BoneMorphMarshal(wt, m, h); err != nil {
				return err
			}
		}
	case UVMorphs:
		return uvMorphsMarshal(wt, d, h)
	case UV1Morphs:
		return uvMorphsMarshal(wt, d, h)
	case UV2Morphs:
		return uvMorphsMarshal(wt, d, h)
	case UV3Morphs:
		return uvMorphsMarshal(wt, d, h)
	case UV4Morphs:
		return uvMorphsMarshal(wt, d, h)
	case MaterialMorphs:
		if err := writeLittleUint32(wt, uint32(len(d))); err != nil {
			return err
		}
		for _, m := range d {
			if err := MaterialMorphMarshal(wt, m, h); err != nil {
				return err
			}
		}
	case FlipMorphs:
		if err := writeLittleUint32(wt, uint32(len(d))); err != nil {
			return err
		}
		for _, m := range d {
			if err := FlipMorphMarshal(wt, m, h); err != nil {
				return err
			}
		}
	case ImpulseMorphs:
		if err := writeLittleUint32(wt, uint32(len(d))); err != nil {
			return err
		}
		for _, m := range d {
			if err := ImpulseMorphMarshal(wt, m, h); err != nil {
				return err
			}
		}
	default:
		return &InvalidTagError{Kind: "morph", Value: uint32(data.MorphType())}
	}
	return nil
}

func uvMorphsMarshal(wt io.Writer, records []*UVMorph, h *Header) error {
	if err := writeLittleUint32(wt, uint32(len(records))); err != nil {
		return err
	}
	for _, m := range records {
		if err := UVMorphMarshal(wt, m, h); err != nil {
			return err
		}
	}
	return nil
}

func MorphUnMarshal(rd io.Reader, h *Header) (*Morph, error) {
	m := &Morph{}
	var err error
	if m.Name, err = h.Encoding.ReadString(rd); err != nil {
		return nil, err
	}
	if m.NameEn, err = h.Encoding.ReadString(rd); err != nil {
		return nil, err
	}
	if m.ControlPanel, err = readLittleUint8(rd); err != nil {
		return nil, err
	}
	if m.ControlPanel > CONTROL_PANEL_BOTTOM_RIGHT {
		return nil, &InvalidTagError{Kind: "control panel", Value: uint32(m.ControlPanel)}
	}
	if m.Data, err = MorphDataUnMarshal(rd, h); err != nil {
		return nil, err
	}
	return m, nil
}

func MorphMarshal(wt io.Writer, m *Morph, h *Header) error {
	if err := h.Encoding.WriteString(wt, m.Name); err != nil {
		return err
	}
	if err := h.Encoding.WriteString(wt, m.NameEn); err != nil {
		return err
	}
	if err := writeLittleUint8(wt, m.ControlPanel); err != nil {
		return err
	}
	return MorphDataMarshal(wt, m.Data, h)
}

func MorphsUnMarshal(rd io.Reader, h *Header) ([]*Morph, error) {
	count, err := readLittleUint32(rd)
	if err != nil {
		return nil, err
	}
	morphs := make([]*Morph, 0, count)
	for i := uint32(0); i < count; i++ {
		m, err := MorphUnMarshal(rd, h)
		if err != nil {
			return nil, err
		}
		morphs = append(morphs, m)
	}
	return morphs, nil
}

func MorphsMarshal(wt io.Writer, morphs []*Morph, h *Header) error {
	if err := writeLittleUint32(wt, uint32(len(morphs))); err != nil {
		return err
	}
	for _, m := range morphs {
		if err := MorphMarshal(wt, m, h); err != nil {
			return err
		}
	}
	return nil
}

func DisplayFrameItemUnMarshal(rd io.Reader, h *Header) (DisplayFrameItem, error) {
	t, err := readLittleUint8(rd)
	if err != nil {
		return nil, err
	}
	switch t {
	case FRAME_ITEM_TYPE_BONE:
		index, err := h.BoneIndex.ReadSignedIndex(rd)
		if err != nil {
			return nil, err
		}
		return &FrameItemBone{BoneIndex: index}, nil
	case FRAME_ITEM_TYPE_MORPH:
		index, err := h.MorphIndex.ReadSignedIndex(rd)
		if err != nil {
			return nil, err
		}
		return &FrameItemMorph{MorphIndex: index}, nil
	default:
		return nil, &InvalidTagError{Kind: "display frame item", Value: uint32(t)}
	}
}

func DisplayFrameItemMarshal(wt io.Writer, item DisplayFrameItem, h *Header) error {
	if err := writeLittleUint8(wt, item.FrameItemType()); err != nil {
		return err
	}
	switch i := item.(type) {
	case *FrameItemBone:
		return h.BoneIndex.WriteSignedIndex(wt, i.BoneIndex)
	case *FrameItemMorph:
		return h.MorphIndex.WriteSignedIndex(wt, i.MorphIndex)
	default:
		return &InvalidTagError{Kind: "display frame item", Value: uint32(item.FrameItemType())}
	}
}

func DisplayFrameUnMarshal(rd io.Reader, h *Header) (*DisplayFrame, error) {
	frame := &DisplayFrame{}
	var err error
	if frame.Name, err = h.Encoding.ReadString(rd); err != nil {
		return nil, err
	}
	if frame.NameEn, err = h.Encoding.ReadString(rd); err != nil {
		return nil, err
	}
	if frame.IsSpecial, err = readLittleBool(rd); err != nil {
		return nil, err
	}
	count, err := readLittleUint32(rd)
	if err != nil {
		return nil, err
	}
	frame.Items = make([]DisplayFrameItem, 0, count)
	for i := uint32(0); i < count; i++ {
		item, err := DisplayFrameItemUnMarshal(rd, h)
		if err != nil {
			return nil, err
		}
		frame.Items = append(frame.Items, item)
	}
	return frame, nil
}

func DisplayFrameMarshal(wt io.Writer, frame *DisplayFrame, h *Header) error {
	if err := h.Encoding.WriteString(wt, frame.Name); err != nil {
		return err
	}
	if err := h.Encoding.WriteString(wt, frame.NameEn); err != nil {
		return err
	}
	if err := writeLittleBool(wt, frame.IsSpecial); err != nil {
		return err
	}
	if err := writeLittleUint32(wt, uint32(len(frame.Items))); err != nil {
		return err
	}
	for _, item := range frame.Items {
		if err := DisplayFrameItemMarshal(wt, item, h); err != nil {
			return err
		}
	}
	return nil
}

func DisplayFramesUnMarshal(rd io.Reader, h *Header) ([]*DisplayFrame, error) {
	count, err := readLittleUint32(rd)
	if err != nil {
		return nil, err
	}
	frames := make([]*DisplayFrame, 0, count)
	for i := uint32(0); i < count; i++ {
		frame, err := DisplayFrameUnMarshal(rd, h)
		if err != nil {
			return nil, err
		}
		frames = append(frames, frame)
	}
	return frames, nil
}

func DisplayFramesMarshal(wt io.Writer, frames []*DisplayFrame, h *Header) error {
	if err := writeLittleUint32(wt, uint32(len(frames))); err != nil {
		return err
	}
	for _, frame := range frames {
		if err := DisplayFrameMarshal(wt, frame, h); err != nil {
			return err
		}
	}
	return nil
}

func RigidBodyUnMarshal(rd io.Reader, h *Header) (*RigidBody, error) {
	rb := &RigidBody{}
	var err error
	if rb.Name, err = h.Encoding.ReadString(rd); err != nil {
		return nil, err
	}
	if rb.NameEn, err = h.Encoding.ReadString(rd); err != nil {
		return nil, err
	}
	if rb.BoneIndex, err = h.BoneIndex.ReadIndex(rd); err != nil {
		return nil, err
	}
	if rb.Group, err = readLittleUint8(rd); err != nil {
		return nil, err
	}
	if rb.UnCollisionGroupFlag, err = readLittleUint16(rd); err != nil {
		return nil, err
	}
	if rb.Form, err = readLittleUint8(rd); err != nil {
		return nil, err
	}
	if rb.Form > RIGID_FORM_CAPSULE {
		return nil, &InvalidTagError{Kind: "rigid form", Value: uint32(rb.Form)}
	}
	if rb.Size, err = readLittleVec3(rd); err != nil {
		return nil, err
	}
	if rb.Position, err = readLittleVec3(rd); err != nil {
		return nil, err
	}
	if rb.Rotation, err = readLittleVec3(rd); err != nil {
		return nil, err
	}
	if rb.Mass, err = readLittleFloat32(rd); err != nil {
		return nil, err
	}
	if rb.MoveResist, err = readLittleFloat32(rd); err != nil {
		return nil, err
	}
	if rb.RotationResist, err = readLittleFloat32(rd); err != nil {
		return nil, err
	}
	if rb.Repulsion, err = readLittleFloat32(rd); err != nil {
		return nil, err
	}
	if rb.Friction, err = readLittleFloat32(rd); err != nil {
		return nil, err
	}
	if rb.CalcMethod, err = readLittleUint8(rd); err != nil {
		return nil, err
	}
	if rb.CalcMethod > RIGID_CALC_DYNAMIC_WITH_BONE_POSITION {
		return nil, &InvalidTagError{Kind: "rigid calc method", Value: uint32(rb.CalcMethod)}
	}
	return rb, nil
}

func RigidBodyMarshal(wt io.Writer, rb *RigidBody, h *Header) error {
	if err := h.Encoding.WriteString(wt, rb.Name); err != nil {
		return err
	}
	if err := h.Encoding.WriteString(wt, rb.NameEn); err != nil {
		return err
	}
	if err := h.BoneIndex.WriteIndex(wt, rb.BoneIndex); err != nil {
		return err
	}
	if err := writeLittleUint8(wt, rb.Group); err != nil {
		return err
	}
	if err := writeLittleUint16(wt, rb.UnCollisionGroupFlag); err != nil {
		return err
	}
	if err := writeLittleUint8(wt, rb.Form); err != nil {
		return err
	}
	if err := writeLittleVec3(wt, &rb.Size); err != nil {
		return err
	}
	if err := writeLittleVec3(wt, &rb.Position); err != nil {
		return err
	}
	if err := writeLittleVec3(wt, &rb.Rotation); err != nil {
		return err
	}
	if err := writeLittleFloat32(wt, rb.Mass); err != nil {
		return err
	}
	if err := writeLittleFloat32(wt, rb.MoveResist); err != nil {
		return err
	}
	if err := writeLittleFloat32(wt, rb.RotationResist); err != nil {
		return err
	}
	if err := writeLittleFloat32(wt, rb.Repulsion); err != nil {
		return err
	}
	if err := writeLittleFloat32(wt, rb.Friction); err != nil {
		return err
	}
	return writeLittleUint8(wt, rb.CalcMethod)
}

func RigidBodiesUnMarshal(rd io.Reader, h *Header) ([]*RigidBody, error) {
	count, err := readLittleUint32(rd)
	if err != nil {
		return nil, err
	}
	bodies := make([]*RigidBody, 0, count)
	for i := uint32(0); i < count; i++ {
		rb, err := RigidBodyUnMarshal(rd, h)
		if err != nil {
			return nil, err
		}
		bodies = append(bodies, rb)
	}
	return bodies, nil
}

func RigidBodiesMarshal(wt io.Writer, bodies []*RigidBody, h *Header) error {
	if err := writeLittleUint32(wt, uint32(len(bodies))); err != nil {
		return err
	}
	for _, rb := range bodies {
		if err := RigidBodyMarshal(wt, rb, h); err != nil {
			return err
		}
	}
	return nil
}

func JointUnMarshal(rd io.Reader, h *Header) (*Joint, error) {
	j := &Joint{}
	var err error
	if j.Name, err = h.Encoding.ReadString(rd); err != nil {
		return nil, err
	}
	if j.NameEn, err = h.Encoding.ReadString(rd); err != nil {
		return nil, err
	}
	if j.JointType, err = readLittleUint8(rd); err != nil {
		return nil, err
	}
	if j.JointType > JOINT_TYPE_HINGE {
		return nil, &InvalidTagError{Kind: "joint type", Value: uint32(j.JointType)}
	}
	if j.ARigidIndex, err = h.RigidBodyIndex.ReadIndex(rd); err != nil {
		return nil, err
	}
	if j.BRigidIndex, err = h.RigidBodyIndex.ReadIndex(rd); err != nil {
		return nil, err
	}
	for _, v := range []*vec3.T{
		&j.Position, &j.Rotation,
		&j.MoveLimitDown, &j.MoveLimitUp,
		&j.RotationLimitDown, &j.RotationLimitUp,
		&j.SpringConstMove, &j.SpringConstRotation,
	} {
		if *v, err = readLittleVec3(rd); err != nil {
			return nil, err
		}
	}
	return j, nil
}

func JointMarshal(wt io.Writer, j *Joint, h *Header) error {
	if err := h.Encoding.WriteString(wt, j.Name); err != nil {
		return err
	}
	if err := h.Encoding.WriteString(wt, j.NameEn); err != nil {
		return err
	}
	if err := writeLittleUint8(wt, j.JointType); err != nil {
		return err
	}
	if err := h.RigidBodyIndex.WriteIndex(wt, j.ARigidIndex); err != nil {
		return err
	}
	if err := h.RigidBodyIndex.WriteIndex(wt, j.BRigidIndex); err != nil {
		return err
	}
	for _, v := range []*vec3.T{
		&j.Position, &j.Rotation,
		&j.MoveLimitDown, &j.MoveLimitUp,
		&j.RotationLimitDown, &j.RotationLimitUp,
		&j.SpringConstMove, &j.SpringConstRotation,
	} {
		if err := writeLittleVec3(wt, v); err != nil {
			return err
		}
	}
	return nil
}

func JointsUnMarshal(rd io.Reader, h *Header) ([]*Joint, error) {
	count, err := readLittleUint32(rd)
	if err != nil {
		return nil, err
	}
	joints := make([]*Joint, 0, count)
	for i := uint32(0); i < count; i++ {
		j, err := JointUnMarshal(rd, h)
		if err != nil {
			return nil, err
		}
		joints = append(joints, j)
	}
	return joints, nil
}

func JointsMarshal(wt io.Writer, joints []*Joint, h *Header) error {
	if err := writeLittleUint32(wt, uint32(len(joints))); err != nil {
		return err
	}
	for _, j := range joints {
		if err := JointMarshal(wt, j, h); err != nil {
			return err
		}
	}
	return nil
}

func SoftBodyAnchorRigidUnMarshal(rd io.Reader, h *Header) (*SoftBodyAnchorRigid, error) {
	a := &SoftBodyAnchorRigid{}
	var err error
	if a.RigidIndex, err = h.RigidBodyIndex.ReadIndex(rd); err != nil {
		return nil, err
	}
	if a.VertexIndex, err = h.VertexIndex.ReadIndex(rd); err != nil {
		return nil, err
	}
	if a.NearMode, err = readLittleBool(rd); err != nil {
		return nil, err
	}
	return a, nil
}

func SoftBodyAnchorRigidMarshal(wt io.Writer, a *SoftBodyAnchorRigid, h *Header) error {
	if err := h.RigidBodyIndex.WriteIndex(wt, a.RigidIndex); err != nil {
		return err
	}
	if err := h.VertexIndex.WriteIndex(wt, a.VertexIndex); err != nil {
		return err
	}
	return writeLittleBool(wt, a.NearMode)
}

func SoftBodyUnMarshal(rd io.Reader, h *Header) (*SoftBody, error) {
	sb := &SoftBody{}
	var err error
	if sb.Name, err = h.Encoding.ReadString(rd); err != nil {
		return nil, err
	}
	if sb.NameEn, err = h.Encoding.ReadString(rd); err != nil {
		return nil, err
	}
	if sb.Form, err = readLittleUint8(rd); err != nil {
		return nil, err
	}
	if sb.Form > SOFT_BODY_FORM_ROPE {
		return nil, &InvalidTagError{Kind: "soft body form", Value: uint32(sb.Form)}
	}
	if sb.MaterialIndex, err = h.MaterialIndex.ReadIndex(rd); err != nil {
		return nil, err
	}
	if sb.Group, err = readLittleUint8(rd); err != nil {
		return nil, err
	}
	if sb.UnCollisionGroupFlag, err = readLittleUint16(rd); err != nil {
		return nil, err
	}
	if sb.BitFlag, err = readLittleUint8(rd); err != nil {
		return nil, err
	}
	if sb.BLinkCreateDistance, err = readLittleInt32(rd); err != nil {
		return nil, err
	}
	if sb.Clusters, err = readLittleUint32(rd); err != nil {
		return nil, err
	}
	if sb.Mass, err = readLittleFloat32(rd); err != nil {
		return nil, err
	}
	if sb.CollisionMargin, err = readLittleFloat32(rd); err != nil {
		return nil, err
	}
	if sb.AeroModel, err = readLittleUint32(rd); err != nil {
		return nil, err
	}
	if sb.AeroModel > SOFT_BODY_AERO_F_ONE_SIDED {
		return nil, &InvalidTagError{Kind: "soft body aero model", Value: sb.AeroModel}
	}
	for _, f := range []*float32{
		&sb.VCF, &sb.DP, &sb.DG, &sb.LF, &sb.PR, &sb.VC,
		&sb.DF, &sb.MT, &sb.CHR, &sb.KHR, &sb.SHR, &sb.AHR,
		&sb.SRHRCL, &sb.SKHRCL, &sb.SSHRCL,
		&sb.SRSpltCL, &sb.SKSpltCL, &sb.SSSpltCL,
	} {
		if *f, err = readLittleFloat32(rd); err != nil {
			return nil, err
		}
	}
	for _, u := range []*uint32{&sb.VIT, &sb.PIT, &sb.DIT, &sb.CIT} {
		if *u, err = readLittleUint32(rd); err != nil {
			return nil, err
		}
	}
	for _, f := range []*float32{&sb.LST, &sb.AST, &sb.VST} {
		if *f, err = readLittleFloat32(rd); err != nil {
			return nil, err
		}
	}
	anchorCount, err := readLittleUint32(rd)
	if err != nil {
		return nil, err
	}
	sb.AnchorRigids = make([]*SoftBodyAnchorRigid, 0, anchorCount)
	for i := uint32(0); i < anchorCount; i++ {
		a, err := SoftBodyAnchorRigidUnMarshal(rd, h)
		if err != nil {
			return nil, err
		}
		sb.AnchorRigids = append(sb.AnchorRigids, a)
	}
	pinCount, err := readLittleUint32(rd)
	if err != nil {
		return nil, err
	}
	sb.PinVertexIndexes = make([]uint32, 0, pinCount)
	for i := uint32(0); i < pinCount; i++ {
		pin, err := h.VertexIndex.ReadIndex(rd)
		if err != nil {
			return nil, err
		}
		sb.PinVertexIndexes = append(sb.PinVertexIndexes, pin)
	}
	return sb, nil
}

func SoftBodyMarshal(wt io.Writer, sb *SoftBody, h *Header) error {
	if err := h.Encoding.WriteString(wt, sb.Name); err != nil {
		return err
	}
	if err := h.Encoding.WriteString(wt, sb.NameEn); err != nil {
		return err
	}
	if err := writeLittleUint8(wt, sb.Form); err != nil {
		return err
	}
	if err := h.MaterialIndex.WriteIndex(wt, sb.MaterialIndex); err != nil {
		return err
	}
	if err := writeLittleUint8(wt, sb.Group); err != nil {
		return err
	}
	if err := writeLittleUint16(wt, sb.UnCollisionGroupFlag); err != nil {
		return err
	}
	if err := writeLittleUint8(wt, sb.BitFlag); err != nil {
		return err
	}
	if err := writeLittleInt32(wt, sb.BLinkCreateDistance); err != nil {
		return err
	}
	if err := writeLittleUint32(wt, sb.Clusters); err != nil {
		return err
	}
	if err := writeLittleFloat32(wt, sb.Mass); err != nil {
		return err
	}
	if err := writeLittleFloat32(wt, sb.CollisionMargin); err != nil {
		return err
	}
	if err := writeLittleUint32(wt, sb.AeroModel); err != nil {
		return err
	}
	for _, f := range []float32{
		sb.VCF, sb.DP, sb.DG, sb.LF, sb.PR, sb.VC,
		sb.DF, sb.MT, sb.CHR, sb.KHR, sb.SHR, sb.AHR,
		sb.SRHRCL, sb.SKHRCL, sb.SSHRCL,
		sb.SRSpltCL, sb.SKSpltCL, sb.SSSpltCL,
	} {
		if err := writeLittleFloat32(wt, f); err != nil {
			return err
		}
	}
	for _, u := range []uint32{sb.VIT, sb.PIT, sb.DIT, sb.CIT} {
		if err := writeLittleUint32(wt, u); err != nil {
			return err
		}
	}
	for _, f := range []float32{sb.LST, sb.AST, sb.VST} {
		if err := writeLittleFloat32(wt, f); err != nil {
			return err
		}
	}
	if err := writeLittleUint32(wt, uint32(len(sb.AnchorRigids))); err != nil {
		return err
	}
	for _, a := range sb.AnchorRigids {
		if err := SoftBodyAnchorRigidMarshal(wt, a, h); err != nil {
			return err
		}
	}
	if err := writeLittleUint32(wt, uint32(len(sb.PinVertexIndexes))); err != nil {
		return err
	}
	for _, pin := range sb.PinVertexIndexes {
		if err := h.VertexIndex.WriteIndex(wt, pin); err != nil {
			return err
		}
	}
	return nil
}

// SoftBodiesUnMarshal reads nothing at all below format version 2.1; the
// section does not exist on the wire there.
func SoftBodiesUnMarshal(rd io.Reader, h *Header) ([]*SoftBody, error) {
	if !hasSoftBodySection(h.Version) {
		return []*SoftBody{}, nil
	}
	count, err := readLittleUint32(rd)
	if err != nil {
		return nil, err
	}
	bodies := make([]*SoftBody, 0, count)
	for i := uint32(0); i < count; i++ {
		sb, err := SoftBodyUnMarshal(rd, h)
		if err != nil {
			return nil, err
		}
		bodies = append(bodies, sb)
	}
	return bodies, nil
}

// SoftBodiesMarshal silently drops the list when the target version has no
// soft-body section.
func SoftBodiesMarshal(wt io.Writer, bodies []*SoftBody, h *Header) error {
	if !hasSoftBodySection(h.Version) {
		return nil
	}
	if err := writeLittleUint32(wt, uint32(len(bodies))); err != nil {
		return err
	}
	for _, sb := range bodies {
		if err := SoftBodyMarshal(wt, sb, h); err != nil {
			return err
		}
	}
	return nil
}

// PmxBodyUnMarshal decodes the eleven body sections in wire order using an
// already-decoded header.
func PmxBodyUnMarshal(rd io.Reader, h *Header) (*Pmx, error) {
	ms := &Pmx{}
	info, err := ModelInfoUnMarshal(rd, h)
	if err != nil {
		return nil, fmt.Errorf("decode model info: %w", err)
	}
	ms.Info = *info
	vs, err := VertexesUnMarshal(rd, h)
	if err != nil {
		return nil, fmt.Errorf("decode vertexes: %w", err)
	}
	ms.Vertexes = *vs
	if ms.Elements, err = ElementsUnMarshal(rd, h); err != nil {
		return nil, fmt.Errorf("decode elements: %w", err)
	}
	if ms.Textures, err = TexturesUnMarshal(rd, h); err != nil {
		return nil, fmt.Errorf("decode textures: %w", err)
	}
	if ms.Materials, err = MaterialsUnMarshal(rd, h); err != nil {
		return nil, fmt.Errorf("decode materials: %w", err)
	}
	if ms.Bones, err = BonesUnMarshal(rd, h); err != nil {
		return nil, fmt.Errorf("decode bones: %w", err)
	}
	if ms.Morphs, err = MorphsUnMarshal(rd, h); err != nil {
		return nil, fmt.Errorf("decode morphs: %w", err)
	}
	if ms.DisplayFrames, err = DisplayFramesUnMarshal(rd, h); err != nil {
		return nil, fmt.Errorf("decode display frames: %w", err)
	}
	if ms.RigidBodies, err = RigidBodiesUnMarshal(rd, h); err != nil {
		return nil, fmt.Errorf("decode rigid bodies: %w", err)
	}
	if ms.Joints, err = JointsUnMarshal(rd, h); err != nil {
		return nil, fmt.Errorf("decode joints: %w", err)
	}
	if ms.SoftBodies, err = SoftBodiesUnMarshal(rd, h); err != nil {
		return nil, fmt.Errorf("decode soft bodies: %w", err)
	}
	return ms, nil
}

// PmxBodyMarshal encodes the eleven body sections in wire order with the
// given header. The header's index widths must cover every index in the
// model or encoding fails with a range error.
func PmxBodyMarshal(wt io.Writer, ms *Pmx, h *Header) error {
	if err := ModelInfoMarshal(wt, &ms.Info, h); err != nil {
		return fmt.Errorf("encode model info: %w", err)
	}
	if err := VertexesMarshal(wt, &ms.Vertexes, h); err != nil {
		return fmt.Errorf("encode vertexes: %w", err)
	}
	if err := ElementsMarshal(wt, ms.Elements, h); err != nil {
		return fmt.Errorf("encode elements: %w", err)
	}
	if err := TexturesMarshal(wt, ms.Textures, h); err != nil {
		return fmt.Errorf("encode textures: %w", err)
	}
	if err := MaterialsMarshal(wt, ms.Materials, h); err != nil {
		return fmt.Errorf("encode materials: %w", err)
	}
	if err := BonesMarshal(wt, ms.Bones, h); err != nil {
		return fmt.Errorf("encode bones: %w", err)
	}
	if err := MorphsMarshal(wt, ms.Morphs, h); err != nil {
		return fmt.Errorf("encode morphs: %w", err)
	}
	if err := DisplayFramesMarshal(wt, ms.DisplayFrames, h); err != nil {
		return fmt.Errorf("encode display frames: %w", err)
	}
	if err := RigidBodiesMarshal(wt, ms.RigidBodies, h); err != nil {
		return fmt.Errorf("encode rigid bodies: %w", err)
	}
	if err := JointsMarshal(wt, ms.Joints, h); err != nil {
		return fmt.Errorf("encode joints: %w", err)
	}
	if err := SoftBodiesMarshal(wt, ms.SoftBodies, h); err != nil {
		return fmt.Errorf("encode soft bodies: %w", err)
	}
	return nil
}
