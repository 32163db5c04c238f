package pmx

import (
	"github.com/flywave/go3d/vec3"
	"github.com/flywave/go3d/vec4"
)

// Material covers one contiguous run of ElementCount face indices. Flags is
// the raw draw-flag byte; MATERIAL_FLAG_* name its bits.
type Material struct {
	Name            string      `json:"name"`
	NameEn          string      `json:"nameEn"`
	Diffuse         vec4.T      `json:"diffuse"`
	Specular        vec4.T      `json:"specular"`
	Ambient         vec3.T      `json:"ambient"`
	Flags           uint8       `json:"flags"`
	EdgeColor       vec4.T      `json:"edgeColor"`
	EdgeSize        float32     `json:"edgeSize"`
	TextureIndex    uint32      `json:"textureIndex"`
	EnvTextureIndex uint32      `json:"envTextureIndex"`
	Mix             uint8       `json:"mix"`
	ToonTexture     ToonTexture `json:"toonTexture"`
	Comment         string      `json:"comment"`
	ElementCount    uint32      `json:"elementCount"`
}

func (m *Material) HasEdge() bool {
	return m.Flags&MATERIAL_FLAG_HAS_EDGE != 0
}

func (m *Material) IsDoubleSided() bool {
	return m.Flags&MATERIAL_FLAG_DISABLE_CULLING != 0
}

// ToonTexture selects between a texture-list reference and one of the fixed
// common toon slots.
type ToonTexture interface {
	ToonType() uint8
}

type ToonTextureIndex struct {
	Index uint32 `json:"index"`
}

func (t *ToonTextureIndex) ToonType() uint8 { return TOON_TYPE_TEXTURE }

type ToonCommonIndex struct {
	Index uint8 `json:"index"`
}

func (t *ToonCommonIndex) ToonType() uint8 { return TOON_TYPE_COMMON }
