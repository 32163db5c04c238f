package pmx

import "github.com/flywave/go3d/vec3"

// Skin is the per-vertex weighting scheme, one of five mutually exclusive
// layouts selected by a leading tag byte. Bone indices are sign-extended on
// read, so -1 survives any index width.
type Skin interface {
	SkinType() uint8
}

// BDEF1 binds the vertex to one bone at full weight.
type BDEF1 struct {
	BoneIndex int32 `json:"boneIndex"`
}

func (s *BDEF1) SkinType() uint8 { return SKIN_TYPE_BDEF1 }

// BDEF2 stores one normalized weight; the second bone's weight is the
// complement.
type BDEF2 struct {
	BoneIndex1  int32   `json:"boneIndex1"`
	BoneIndex2  int32   `json:"boneIndex2"`
	BoneWeight1 float32 `json:"boneWeight1"`
}

func (s *BDEF2) SkinType() uint8 { return SKIN_TYPE_BDEF2 }

// BDEF4 stores four independent weights with no normalization guarantee.
type BDEF4 struct {
	BoneIndex1  int32   `json:"boneIndex1"`
	BoneIndex2  int32   `json:"boneIndex2"`
	BoneIndex3  int32   `json:"boneIndex3"`
	BoneIndex4  int32   `json:"boneIndex4"`
	BoneWeight1 float32 `json:"boneWeight1"`
	BoneWeight2 float32 `json:"boneWeight2"`
	BoneWeight3 float32 `json:"boneWeight3"`
	BoneWeight4 float32 `json:"boneWeight4"`
}

func (s *BDEF4) SkinType() uint8 { return SKIN_TYPE_BDEF4 }

// SDEF is BDEF2 plus a spherical deformation correction triple.
type SDEF struct {
	BoneIndex1  int32   `json:"boneIndex1"`
	BoneIndex2  int32   `json:"boneIndex2"`
	BoneWeight1 float32 `json:"boneWeight1"`
	C           vec3.T  `json:"c"`
	R0          vec3.T  `json:"r0"`
	R1          vec3.T  `json:"r1"`
}

func (s *SDEF) SkinType() uint8 { return SKIN_TYPE_SDEF }

// QDEF reuses the BDEF4 layout with dual-quaternion semantics.
type QDEF struct {
	BoneIndex1  int32   `json:"boneIndex1"`
	BoneIndex2  int32   `json:"boneIndex2"`
	BoneIndex3  int32   `json:"boneIndex3"`
	BoneIndex4  int32   `json:"boneIndex4"`
	BoneWeight1 float32 `json:"boneWeight1"`
	BoneWeight2 float32 `json:"boneWeight2"`
	BoneWeight3 float32 `json:"boneWeight3"`
	BoneWeight4 float32 `json:"boneWeight4"`
}

func (s *QDEF) SkinType() uint8 { return SKIN_TYPE_QDEF }
