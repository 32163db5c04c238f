package pmx

import (
	"github.com/flywave/go3d/vec3"
	"github.com/flywave/go3d/vec4"
)

// Morph pairs a control-panel slot with one payload list; the payload kind
// is the leading tag byte on the wire.
type Morph struct {
	Name         string    `json:"name"`
	NameEn       string    `json:"nameEn"`
	ControlPanel uint8     `json:"controlPanel"`
	Data         MorphData `json:"data"`
}

// MorphData is the tagged payload union. Each kind is a named slice type so
// the tag byte is recoverable from the value itself.
type MorphData interface {
	MorphType() uint8
}

type GroupMorph struct {
	MorphIndex  uint32  `json:"morphIndex"`
	MorphFactor float32 `json:"morphFactor"`
}

type VertexMorph struct {
	VertexIndex uint32 `json:"vertexIndex"`
	Offset      vec3.T `json:"offset"`
}

type BoneMorph struct {
	BoneIndex  uint32 `json:"boneIndex"`
	Translates vec3.T `json:"translates"`
	Rotates    vec4.T `json:"rotates"`
}

type UVMorph struct {
	VertexIndex uint32 `json:"vertexIndex"`
	Offset      vec4.T `json:"offset"`
}

// MaterialMorph scales or offsets material parameters; Formula 0 multiplies,
// 1 adds.
type MaterialMorph struct {
	MaterialIndex       uint32  `json:"materialIndex"`
	Formula             uint8   `json:"formula"`
	Diffuse             vec4.T  `json:"diffuse"`
	Specular            vec3.T  `json:"specular"`
	SpecularFactor      float32 `json:"specularFactor"`
	Ambient             vec3.T  `json:"ambient"`
	EdgeColor           vec4.T  `json:"edgeColor"`
	EdgeSize            float32 `json:"edgeSize"`
	TextureFactor       vec4.T  `json:"textureFactor"`
	SphereTextureFactor vec4.T  `json:"sphereTextureFactor"`
	ToonTextureFactor   vec4.T  `json:"toonTextureFactor"`
}

type FlipMorph struct {
	MorphIndex  uint32  `json:"morphIndex"`
	MorphFactor float32 `json:"morphFactor"`
}

type ImpulseMorph struct {
	RigidIndex uint32 `json:"rigidIndex"`
	IsLocal    bool   `json:"isLocal"`
	Velocity   vec3.T `json:"velocity"`
	Torque     vec3.T `json:"torque"`
}

type GroupMorphs []*GroupMorph

func (m GroupMorphs) MorphType() uint8 { return MORPH_TYPE_GROUP }

type VertexMorphs []*VertexMorph

func (m VertexMorphs) MorphType() uint8 { return MORPH_TYPE_VERTEX }

type BoneMorphs []*BoneMorph

func (m BoneMorphs) MorphType() uint8 { return MORPH_TYPE_BONE }

// The four numbered UV channels reuse the UVMorph record shape but keep
// distinct tags, so each gets its own slice type.
type UVMorphs []*UVMorph

func (m UVMorphs) MorphType() uint8 { return MORPH_TYPE_UV }

type UV1Morphs []*UVMorph

func (m UV1Morphs) MorphType() uint8 { return MORPH_TYPE_UV1 }

type UV2Morphs []*UVMorph

func (m UV2Morphs) MorphType() uint8 { return MORPH_TYPE_UV2 }

type UV3Morphs []*UVMorph

func (m UV3Morphs) MorphType() uint8 { return MORPH_TYPE_UV3 }

type UV4Morphs []*UVMorph

func (m UV4Morphs) MorphType() uint8 { return MORPH_TYPE_UV4 }

type MaterialMorphs []*MaterialMorph

func (m MaterialMorphs) MorphType() uint8 { return MORPH_TYPE_MATERIAL }

type FlipMorphs []*FlipMorph

func (m FlipMorphs) MorphType() uint8 { return MORPH_TYPE_FLIP }

type ImpulseMorphs []*ImpulseMorph

func (m ImpulseMorphs) MorphType() uint8 { return MORPH_TYPE_IMPULSE }
