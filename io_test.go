package pmx

import (
	"bytes"
	"testing"

	"github.com/flywave/go3d/vec2"
	"github.com/flywave/go3d/vec3"
	"github.com/flywave/go3d/vec4"
	"github.com/stretchr/testify/require"
)

func testHeader(version float32) *Header {
	return &Header{
		Version:        version,
		Encoding:       ENCODING_UTF16LE,
		VertexIndex:    INDEX_SIZE_BIT16,
		TextureIndex:   INDEX_SIZE_BIT8,
		MaterialIndex:  INDEX_SIZE_BIT8,
		BoneIndex:      INDEX_SIZE_BIT16,
		MorphIndex:     INDEX_SIZE_BIT8,
		RigidBodyIndex: INDEX_SIZE_BIT8,
	}
}

func TestSkinRoundTrip(t *testing.T) {
	h := testHeader(V2_0)
	tests := []struct {
		name string
		skin Skin
		tag  uint8
	}{
		{"bdef1", &BDEF1{BoneIndex: -1}, SKIN_TYPE_BDEF1},
		{"bdef2", &BDEF2{BoneIndex1: 0, BoneIndex2: 1, BoneWeight1: 0.25}, SKIN_TYPE_BDEF2},
		{"bdef4", &BDEF4{
			BoneIndex1: 0, BoneIndex2: 1, BoneIndex3: 2, BoneIndex4: -1,
			BoneWeight1: 0.1, BoneWeight2: 0.2, BoneWeight3: 0.3, BoneWeight4: 0.4,
		}, SKIN_TYPE_BDEF4},
		{"sdef", &SDEF{
			BoneIndex1: 3, BoneIndex2: 4, BoneWeight1: 0.5,
			C:  vec3.T{1, 2, 3},
			R0: vec3.T{4, 5, 6},
			R1: vec3.T{7, 8, 9},
		}, SKIN_TYPE_SDEF},
		{"qdef", &QDEF{
			BoneIndex1: 5, BoneIndex2: 6, BoneIndex3: 7, BoneIndex4: 8,
			BoneWeight1: 0.25, BoneWeight2: 0.25, BoneWeight3: 0.25, BoneWeight4: 0.25,
		}, SKIN_TYPE_QDEF},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			require.NoError(t, SkinMarshal(buf, tc.skin, h))
			require.Equal(t, tc.tag, buf.Bytes()[0])
			got, err := SkinUnMarshal(buf, h)
			require.NoError(t, err)
			require.Equal(t, tc.skin, got)
		})
	}
}

func TestSkinInvalidTag(t *testing.T) {
	h := testHeader(V2_0)
	_, err := SkinUnMarshal(bytes.NewReader([]byte{5}), h)
	var tagErr *InvalidTagError
	require.ErrorAs(t, err, &tagErr)
	require.Equal(t, "skin", tagErr.Kind)
	require.Equal(t, uint32(5), tagErr.Value)
}

func TestToonTextureRoundTrip(t *testing.T) {
	h := testHeader(V2_0)
	tests := []struct {
		name string
		toon ToonTexture
		tag  uint8
	}{
		{"texture index", &ToonTextureIndex{Index: 7}, TOON_TYPE_TEXTURE},
		{"common index", &ToonCommonIndex{Index: 3}, TOON_TYPE_COMMON},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			require.NoError(t, ToonTextureMarshal(buf, tc.toon, h))
			require.Equal(t, tc.tag, buf.Bytes()[0])
			got, err := ToonTextureUnMarshal(buf, h)
			require.NoError(t, err)
			require.Equal(t, tc.toon, got)
		})
	}

	_, err := ToonTextureUnMarshal(bytes.NewReader([]byte{2}), h)
	var tagErr *InvalidTagError
	require.ErrorAs(t, err, &tagErr)
	require.Equal(t, "toon texture", tagErr.Kind)
}

func TestMorphDataRoundTrip(t *testing.T) {
	h := testHeader(V2_1)
	tests := []struct {
		name string
		data MorphData
		tag  uint8
	}{
		{"group", GroupMorphs{{MorphIndex: 1, MorphFactor: 0.5}}, MORPH_TYPE_GROUP},
		{"vertex", VertexMorphs{{VertexIndex: 2, Offset: vec3.T{1, 2, 3}}}, MORPH_TYPE_VERTEX},
		{"bone", BoneMorphs{{BoneIndex: 3, Translates: vec3.T{1, 0, 0}, Rotates: vec4.T{0, 0, 0, 1}}}, MORPH_TYPE_BONE},
		{"uv", UVMorphs{{VertexIndex: 4, Offset: vec4.T{1, 2, 3, 4}}}, MORPH_TYPE_UV},
		{"uv1", UV1Morphs{{VertexIndex: 5, Offset: vec4.T{1, 2, 3, 4}}}, MORPH_TYPE_UV1},
		{"uv2", UV2Morphs{{VertexIndex: 6, Offset: vec4.T{1, 2, 3, 4}}}, MORPH_TYPE_UV2},
		{"uv3", UV3Morphs{{VertexIndex: 7, Offset: vec4.T{1, 2, 3, 4}}}, MORPH_TYPE_UV3},
		{"uv4", UV4Morphs{{VertexIndex: 8, Offset: vec4.T{1, 2, 3, 4}}}, MORPH_TYPE_UV4},
		{"material", MaterialMorphs{{
			MaterialIndex:       9,
			Formula:             1,
			Diffuse:             vec4.T{1, 0, 0, 1},
			Specular:            vec3.T{0.5, 0.5, 0.5},
			SpecularFactor:      12,
			Ambient:             vec3.T{0.1, 0.1, 0.1},
			EdgeColor:           vec4.T{0, 0, 0, 1},
			EdgeSize:            1.5,
			TextureFactor:       vec4.T{1, 1, 1, 1},
			SphereTextureFactor: vec4.T{1, 1, 1, 1},
			ToonTextureFactor:   vec4.T{1, 1, 1, 1},
		}}, MORPH_TYPE_MATERIAL},
		{"flip", FlipMorphs{{MorphIndex: 10, MorphFactor: 1}}, MORPH_TYPE_FLIP},
		{"impulse", ImpulseMorphs{{RigidIndex: 11, IsLocal: true, Velocity: vec3.T{1, 2, 3}, Torque: vec3.T{4, 5, 6}}}, MORPH_TYPE_IMPULSE},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.tag, tc.data.MorphType())
			buf := &bytes.Buffer{}
			require.NoError(t, MorphDataMarshal(buf, tc.data, h))
			require.Equal(t, tc.tag, buf.Bytes()[0])
			got, err := MorphDataUnMarshal(buf, h)
			require.NoError(t, err)
			require.Equal(t, tc.data, got)
		})
	}
}

func TestMorphDataInvalidTag(t *testing.T) {
	h := testHeader(V2_1)
	buf := &bytes.Buffer{}
	writeLittleUint8(buf, 0x0B)
	writeLittleUint32(buf, 0)
	_, err := MorphDataUnMarshal(buf, h)
	var tagErr *InvalidTagError
	require.ErrorAs(t, err, &tagErr)
	require.Equal(t, "morph", tagErr.Kind)
	require.Equal(t, uint32(0x0B), tagErr.Value)
}

func TestDisplayFrameItemRoundTrip(t *testing.T) {
	h := testHeader(V2_0)
	tests := []struct {
		name string
		item DisplayFrameItem
		tag  uint8
	}{
		{"bone", &FrameItemBone{BoneIndex: -1}, FRAME_ITEM_TYPE_BONE},
		{"morph", &FrameItemMorph{MorphIndex: 4}, FRAME_ITEM_TYPE_MORPH},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			require.NoError(t, DisplayFrameItemMarshal(buf, tc.item, h))
			require.Equal(t, tc.tag, buf.Bytes()[0])
			got, err := DisplayFrameItemUnMarshal(buf, h)
			require.NoError(t, err)
			require.Equal(t, tc.item, got)
		})
	}

	_, err := DisplayFrameItemUnMarshal(bytes.NewReader([]byte{2}), h)
	var tagErr *InvalidTagError
	require.ErrorAs(t, err, &tagErr)
	require.Equal(t, "display frame item", tagErr.Kind)
}

func TestBoolByteStrict(t *testing.T) {
	_, err := readLittleBool(bytes.NewReader([]byte{2}))
	var tagErr *InvalidTagError
	require.ErrorAs(t, err, &tagErr)
	require.Equal(t, "bool", tagErr.Kind)
}

func TestVertexesCountMismatch(t *testing.T) {
	h := testHeader(V2_0)
	vs := &Vertexes{
		Positions: []vec3.T{{0, 0, 0}, {1, 1, 1}},
		Normals:   []vec3.T{{0, 1, 0}},
		UVs:       []vec2.T{{0, 0}, {1, 1}},
		Skins:     []Skin{&BDEF1{}, &BDEF1{}},
		Edges:     []float32{1, 1},
	}
	err := VertexesMarshal(&bytes.Buffer{}, vs, h)
	require.ErrorIs(t, err, ErrVertexCount)
}

func TestVertexesExtSlotMismatch(t *testing.T) {
	h := testHeader(V2_0)
	h.ExtVec4Count = 1
	vs := &Vertexes{
		Positions: []vec3.T{{0, 0, 0}},
		Normals:   []vec3.T{{0, 1, 0}},
		UVs:       []vec2.T{{0, 0}},
		ExtVec4s:  [][]vec4.T{{}},
		Skins:     []Skin{&BDEF1{}},
		Edges:     []float32{1},
	}
	err := VertexesMarshal(&bytes.Buffer{}, vs, h)
	require.ErrorIs(t, err, ErrVertexCount)
}

func TestBoneFlagsDerivation(t *testing.T) {
	ext := uint32(2)
	b := &Bone{
		Connect:            BoneConnection{ToBone: true, BoneIndex: 1},
		Rotatable:          true,
		Translatable:       true,
		IsVisible:          true,
		Enable:             true,
		InheritLocal:       true,
		Inherit:            &InheritBone{Mode: INHERIT_ROTATE_TRANSLATE, BoneIndex: 0, Weight: 0.5},
		FixedAxis:          &vec3.T{0, 1, 0},
		LocalAxis:          &LocalAxis{X: vec3.T{1, 0, 0}, Z: vec3.T{0, 0, 1}},
		PhysicsAfterDeform: true,
		ExternalParent:     &ext,
		Ik:                 &Ik{Links: []*IkLink{}},
		Unknown0040:        true,
		Unknown2000:        true,
		Unknown4000:        true,
		Unknown8000:        true,
	}
	want := BONE_FLAG_CONNECT_TO_OTHER_BONE | BONE_FLAG_ROTATABLE | BONE_FLAG_TRANSLATABLE |
		BONE_FLAG_IS_VISIBLE | BONE_FLAG_ENABLED | BONE_FLAG_IK | BONE_FLAG_UNKNOWN_0040 |
		BONE_FLAG_INHERIT_LOCAL | BONE_FLAG_INHERIT_ROTATION | BONE_FLAG_INHERIT_TRANSLATION |
		BONE_FLAG_FIXED_AXIS | BONE_FLAG_LOCAL_COORDINATE | BONE_FLAG_PHYSICS_AFTER_DEFORM |
		BONE_FLAG_EXTERNAL_PARENT_DEFORM | BONE_FLAG_UNKNOWN_4000 | BONE_FLAG_UNKNOWN_8000
	require.Equal(t, want, b.Flags())
}

func TestBoneRoundTripRederivesFlags(t *testing.T) {
	h := testHeader(V2_0)
	ext := uint32(3)
	b := &Bone{
		Name:           "右腕",
		NameEn:         "arm_R",
		Position:       vec3.T{1, 2, 3},
		Connect:        BoneConnection{ToBone: true, BoneIndex: 2},
		Inherit:        &InheritBone{Mode: INHERIT_ROTATE, BoneIndex: 1, Weight: 0.75},
		FixedAxis:      &vec3.T{0, 0, 1},
		LocalAxis:      &LocalAxis{X: vec3.T{1, 0, 0}, Z: vec3.T{0, 0, 1}},
		ExternalParent: &ext,
		Ik: &Ik{
			TargetBoneIndex: 4,
			IterCount:       20,
			LimitAngle:      1.0,
			Links: []*IkLink{
				{BoneIndex: 5, AngleLimit: &AngleLimit{Min: vec3.T{-1, -1, -1}, Max: vec3.T{1, 1, 1}}},
				{BoneIndex: 6},
			},
		},
		Rotatable:   true,
		IsVisible:   true,
		Enable:      true,
		Unknown2000: true,
	}
	buf := &bytes.Buffer{}
	require.NoError(t, BoneMarshal(buf, b, h))
	got, err := BoneUnMarshal(buf, h)
	require.NoError(t, err)
	require.Equal(t, b, got)
	require.Equal(t, b.Flags(), got.Flags())
}

func TestEnumValidation(t *testing.T) {
	h := testHeader(V2_1)

	t.Run("mix", func(t *testing.T) {
		buf := &bytes.Buffer{}
		mtl := &Material{Mix: MIX_ADD, ToonTexture: &ToonCommonIndex{}}
		require.NoError(t, MaterialMarshal(buf, mtl, h))
		raw := buf.Bytes()
		// two u32 string lengths, 11 color floats, the flag byte, edge color
		// and size, then two 8-bit texture indexes precede the mix byte
		mixOff := 4 + 4 + 11*4 + 1 + 4*4 + 4 + 2
		require.Equal(t, uint8(MIX_ADD), raw[mixOff])
		raw[mixOff] = 0x04
		_, err := MaterialUnMarshal(bytes.NewReader(raw), h)
		var tagErr *InvalidTagError
		require.ErrorAs(t, err, &tagErr)
		require.Equal(t, "mix", tagErr.Kind)
	})

	t.Run("control panel", func(t *testing.T) {
		buf := &bytes.Buffer{}
		m := &Morph{ControlPanel: 5, Data: GroupMorphs{}}
		require.NoError(t, MorphMarshal(buf, m, h))
		_, err := MorphUnMarshal(buf, h)
		var tagErr *InvalidTagError
		require.ErrorAs(t, err, &tagErr)
		require.Equal(t, "control panel", tagErr.Kind)
	})

	t.Run("joint type", func(t *testing.T) {
		buf := &bytes.Buffer{}
		j := &Joint{JointType: 6}
		require.NoError(t, JointMarshal(buf, j, h))
		_, err := JointUnMarshal(buf, h)
		var tagErr *InvalidTagError
		require.ErrorAs(t, err, &tagErr)
		require.Equal(t, "joint type", tagErr.Kind)
	})

	t.Run("rigid form", func(t *testing.T) {
		buf := &bytes.Buffer{}
		rb := &RigidBody{Form: 3}
		require.NoError(t, RigidBodyMarshal(buf, rb, h))
		_, err := RigidBodyUnMarshal(buf, h)
		var tagErr *InvalidTagError
		require.ErrorAs(t, err, &tagErr)
		require.Equal(t, "rigid form", tagErr.Kind)
	})

	t.Run("soft body aero model", func(t *testing.T) {
		buf := &bytes.Buffer{}
		sb := &SoftBody{AeroModel: 5}
		require.NoError(t, SoftBodyMarshal(buf, sb, h))
		_, err := SoftBodyUnMarshal(buf, h)
		var tagErr *InvalidTagError
		require.ErrorAs(t, err, &tagErr)
		require.Equal(t, "soft body aero model", tagErr.Kind)
	})
}
