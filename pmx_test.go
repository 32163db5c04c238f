package pmx

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/flywave/go3d/vec2"
	"github.com/flywave/go3d/vec3"
	"github.com/flywave/go3d/vec4"
	"github.com/stretchr/testify/require"
)

// buildTestPmx covers every section with at least one record, including the
// optional bone blocks and all three physics record kinds.
func buildTestPmx() *Pmx {
	ms := NewPmx()
	ms.Info = ModelInfo{
		Name:      "初音ミク",
		NameEn:    "Miku",
		Comment:   "テスト",
		CommentEn: "fixture",
	}
	ms.Vertexes = Vertexes{
		Positions: []vec3.T{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}},
		Normals:   []vec3.T{{0, 0, 1}, {0, 0, 1}, {0, 0, 1}},
		UVs:       []vec2.T{{0, 0}, {1, 0}, {0, 1}},
		ExtVec4s:  [][]vec4.T{{{1, 2, 3, 4}, {5, 6, 7, 8}, {9, 10, 11, 12}}},
		Skins: []Skin{
			&BDEF1{BoneIndex: 0},
			&BDEF2{BoneIndex1: 0, BoneIndex2: 1, BoneWeight1: 0.5},
			&SDEF{
				BoneIndex1: 0, BoneIndex2: 1, BoneWeight1: 0.75,
				C:  vec3.T{0, 1, 0},
				R0: vec3.T{0, 0, 0},
				R1: vec3.T{1, 1, 1},
			},
		},
		Edges: []float32{1, 1, 0.5},
	}
	ms.Elements = []uint32{0, 1, 2}
	ms.Textures = []string{"body.png"}
	ms.Materials = []*Material{{
		Name:            "肌",
		NameEn:          "skin",
		Diffuse:         vec4.T{1, 0.9, 0.8, 1},
		Specular:        vec4.T{0.2, 0.2, 0.2, 5},
		Ambient:         vec3.T{0.5, 0.45, 0.4},
		Flags:           MATERIAL_FLAG_DISABLE_CULLING | MATERIAL_FLAG_HAS_EDGE,
		EdgeColor:       vec4.T{0, 0, 0, 1},
		EdgeSize:        1,
		TextureIndex:    0,
		EnvTextureIndex: 0,
		Mix:             MIX_MUL,
		ToonTexture:     &ToonCommonIndex{Index: 1},
		Comment:         "",
		ElementCount:    3,
	}}
	ext := uint32(0)
	ms.Bones = []*Bone{
		{
			Name:            "センター",
			NameEn:          "center",
			Position:        vec3.T{0, 8, 0},
			ParentBoneIndex: 0xFF,
			Priority:        0,
			Connect:         BoneConnection{Position: vec3.T{0, 1, 0}},
			Rotatable:       true,
			Translatable:    true,
			IsVisible:       true,
			Enable:          true,
		},
		{
			Name:           "右腕",
			NameEn:         "arm_R",
			Position:       vec3.T{-1, 12, 0},
			Connect:        BoneConnection{ToBone: true, BoneIndex: 0},
			Inherit:        &InheritBone{Mode: INHERIT_ROTATE, BoneIndex: 0, Weight: 0.5},
			FixedAxis:      &vec3.T{0, 0, 1},
			LocalAxis:      &LocalAxis{X: vec3.T{1, 0, 0}, Z: vec3.T{0, 0, 1}},
			ExternalParent: &ext,
			Ik: &Ik{
				TargetBoneIndex: 0,
				IterCount:       40,
				LimitAngle:      2,
				Links: []*IkLink{
					{BoneIndex: 0, AngleLimit: &AngleLimit{
						Min: vec3.T{-3.14, 0, 0},
						Max: vec3.T{0, 0, 0},
					}},
				},
			},
			Rotatable:   true,
			IsVisible:   true,
			Enable:      true,
			Unknown2000: true,
		},
	}
	ms.Morphs = []*Morph{
		{
			Name:         "笑い",
			NameEn:       "smile",
			ControlPanel: CONTROL_PANEL_TOP_LEFT,
			Data: VertexMorphs{
				{VertexIndex: 1, Offset: vec3.T{0, 0.1, 0}},
			},
		},
		{
			Name:         "材質",
			NameEn:       "tint",
			ControlPanel: CONTROL_PANEL_BOTTOM_RIGHT,
			Data: MaterialMorphs{{
				MaterialIndex:       0,
				Formula:             1,
				Diffuse:             vec4.T{0.5, 0, 0, 0},
				Specular:            vec3.T{0, 0, 0},
				SpecularFactor:      1,
				Ambient:             vec3.T{0, 0, 0},
				EdgeColor:           vec4.T{0, 0, 0, 0},
				EdgeSize:            0.5,
				TextureFactor:       vec4.T{1, 1, 1, 1},
				SphereTextureFactor: vec4.T{1, 1, 1, 1},
				ToonTextureFactor:   vec4.T{1, 1, 1, 1},
			}},
		},
	}
	ms.DisplayFrames = []*DisplayFrame{{
		Name:      "Root",
		NameEn:    "Root",
		IsSpecial: true,
		Items: []DisplayFrameItem{
			&FrameItemBone{BoneIndex: 0},
			&FrameItemBone{BoneIndex: -1},
			&FrameItemMorph{MorphIndex: 1},
		},
	}}
	ms.RigidBodies = []*RigidBody{{
		Name:                 "頭",
		NameEn:               "head",
		BoneIndex:            1,
		Group:                1,
		UnCollisionGroupFlag: 0xFFFE,
		Form:                 RIGID_FORM_SPHERE,
		Size:                 vec3.T{1, 0, 0},
		Position:             vec3.T{0, 16, 0},
		Rotation:             vec3.T{0, 0, 0},
		Mass:                 1,
		MoveResist:           0.5,
		RotationResist:       0.5,
		Repulsion:            0,
		Friction:             0.5,
		CalcMethod:           RIGID_CALC_STATIC,
	}}
	ms.Joints = []*Joint{{
		Name:                "首",
		NameEn:              "neck",
		JointType:           JOINT_TYPE_SPRING_6DOF,
		ARigidIndex:         0,
		BRigidIndex:         0,
		Position:            vec3.T{0, 15, 0},
		Rotation:            vec3.T{0, 0, 0},
		MoveLimitDown:       vec3.T{-1, -1, -1},
		MoveLimitUp:         vec3.T{1, 1, 1},
		RotationLimitDown:   vec3.T{-0.5, -0.5, -0.5},
		RotationLimitUp:     vec3.T{0.5, 0.5, 0.5},
		SpringConstMove:     vec3.T{10, 10, 10},
		SpringConstRotation: vec3.T{5, 5, 5},
	}}
	ms.SoftBodies = []*SoftBody{{
		Name:                 "スカート",
		NameEn:               "skirt",
		Form:                 SOFT_BODY_FORM_TRI_MESH,
		MaterialIndex:        0,
		Group:                2,
		UnCollisionGroupFlag: 0x0001,
		BitFlag:              0x01,
		BLinkCreateDistance:  2,
		Clusters:             4,
		Mass:                 0.5,
		CollisionMargin:      0.05,
		AeroModel:            SOFT_BODY_AERO_V_POINT,
		VCF:                  1, DP: 0.2, LF: 0.1, PR: 1,
		CHR: 1, KHR: 0.1, SHR: 1, AHR: 0.7,
		SRHRCL: 0.1, SKHRCL: 1, SSHRCL: 0.5,
		SRSpltCL: 0.5, SKSpltCL: 0.5, SSSpltCL: 0.5,
		VIT: 0, PIT: 1, DIT: 0, CIT: 4,
		LST: 1, AST: 1, VST: 1,
		AnchorRigids: []*SoftBodyAnchorRigid{
			{RigidIndex: 0, VertexIndex: 2, NearMode: true},
		},
		PinVertexIndexes: []uint32{0, 2},
	}}
	return ms
}

func TestPmxRoundTrip(t *testing.T) {
	ms := buildTestPmx()

	buf := &bytes.Buffer{}
	require.NoError(t, PmxMarshal(buf, ms, V2_1))

	gotHeader, got, err := PmxUnMarshal(buf)
	require.NoError(t, err)
	require.Equal(t, HeaderFromPmx(V2_1, ms), gotHeader)
	require.Equal(t, ms, got)
	require.Equal(t, 0, buf.Len())
}

func TestPmxRoundTripBytesStable(t *testing.T) {
	ms := buildTestPmx()

	first := &bytes.Buffer{}
	require.NoError(t, PmxMarshal(first, ms, V2_1))
	wire := append([]byte(nil), first.Bytes()...)

	_, got, err := PmxUnMarshal(first)
	require.NoError(t, err)

	second := &bytes.Buffer{}
	require.NoError(t, PmxMarshal(second, got, V2_1))
	require.Equal(t, wire, second.Bytes())
}

func TestPmxVersionGating(t *testing.T) {
	ms := buildTestPmx()

	buf := &bytes.Buffer{}
	require.NoError(t, PmxMarshal(buf, ms, V2_0))

	gotHeader, got, err := PmxUnMarshal(buf)
	require.NoError(t, err)
	require.Equal(t, V2_0, gotHeader.Version)

	want := buildTestPmx()
	want.SoftBodies = []*SoftBody{}
	require.Equal(t, want, got)
}

func TestPmxEmptyModel(t *testing.T) {
	ms := NewPmx()

	buf := &bytes.Buffer{}
	require.NoError(t, PmxMarshal(buf, ms, V2_0))

	_, got, err := PmxUnMarshal(buf)
	require.NoError(t, err)
	require.Equal(t, ms, got)
}

func TestPmxFileRoundTrip(t *testing.T) {
	ms := buildTestPmx()
	path := filepath.Join(t.TempDir(), "out", "model.pmx")

	require.NoError(t, PmxWriteTo(path, ms, V2_1))
	_, got, err := PmxReadFrom(path)
	require.NoError(t, err)
	require.Equal(t, ms, got)
}
