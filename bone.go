package pmx

import "github.com/flywave/go3d/vec3"

const (
	INHERIT_ROTATE           = 0x01
	INHERIT_TRANSLATION      = 0x02
	INHERIT_ROTATE_TRANSLATE = 0x03
)

// BoneConnection is the bone tail: either a reference to another bone or a
// raw offset position. Exactly one of the two shapes is on the wire,
// selected by the connect flag bit.
type BoneConnection struct {
	BoneIndex uint32 `json:"boneIndex"`
	Position  vec3.T `json:"position"`
	ToBone    bool   `json:"toBone"`
}

// InheritBone is the "inherit rotation and/or translation from another bone"
// block. Mode is one of the INHERIT_* values; both inherit flag bits set
// mean INHERIT_ROTATE_TRANSLATE.
type InheritBone struct {
	Mode      uint8   `json:"mode"`
	BoneIndex uint32  `json:"boneIndex"`
	Weight    float32 `json:"weight"`
}

// LocalAxis is the local coordinate frame, two direction vectors.
type LocalAxis struct {
	X vec3.T `json:"x"`
	Z vec3.T `json:"z"`
}

// AngleLimit is a min/max euler-angle pair for one IK link.
type AngleLimit struct {
	Min vec3.T `json:"min"`
	Max vec3.T `json:"max"`
}

type IkLink struct {
	BoneIndex  uint32      `json:"boneIndex"`
	AngleLimit *AngleLimit `json:"angleLimit,omitempty"`
}

type Ik struct {
	TargetBoneIndex uint32    `json:"targetBoneIndex"`
	IterCount       uint32    `json:"iterCount"`
	LimitAngle      float32   `json:"limitAngle"`
	Links           []*IkLink `json:"links"`
}

// Bone never stores its wire flag word; Flags() re-derives it from which
// optional blocks are populated plus the boolean attributes, so the flags
// can never drift from the data they describe.
type Bone struct {
	Name               string         `json:"name"`
	NameEn             string         `json:"nameEn"`
	Position           vec3.T         `json:"position"`
	ParentBoneIndex    uint32         `json:"parentBoneIndex"`
	Priority           uint32         `json:"priority"`
	Connect            BoneConnection `json:"connect"`
	Rotatable          bool           `json:"rotatable"`
	Translatable       bool           `json:"translatable"`
	IsVisible          bool           `json:"isVisible"`
	Enable             bool           `json:"enable"`
	InheritLocal       bool           `json:"inheritLocal"`
	Inherit            *InheritBone   `json:"inherit,omitempty"`
	FixedAxis          *vec3.T        `json:"fixedAxis,omitempty"`
	LocalAxis          *LocalAxis     `json:"localAxis,omitempty"`
	PhysicsAfterDeform bool           `json:"physicsAfterDeform"`
	ExternalParent     *uint32        `json:"externalParent,omitempty"`
	Ik                 *Ik            `json:"ik,omitempty"`
	Unknown0040        bool           `json:"unknown0040"`
	Unknown2000        bool           `json:"unknown2000"`
	Unknown4000        bool           `json:"unknown4000"`
	Unknown8000        bool           `json:"unknown8000"`
}

// Flags computes the wire flag word from the populated optional blocks and
// boolean attributes. It is the exact inverse of the presence tests the
// decoder applies, so a decoded bone re-encodes the identical word.
func (b *Bone) Flags() uint16 {
	var flags uint16
	if b.Connect.ToBone {
		flags |= BONE_FLAG_CONNECT_TO_OTHER_BONE
	}
	if b.Rotatable {
		flags |= BONE_FLAG_ROTATABLE
	}
	if b.Translatable {
		flags |= BONE_FLAG_TRANSLATABLE
	}
	if b.IsVisible {
		flags |= BONE_FLAG_IS_VISIBLE
	}
	if b.Enable {
		flags |= BONE_FLAG_ENABLED
	}
	if b.Ik != nil {
		flags |= BONE_FLAG_IK
	}
	if b.Unknown0040 {
		flags |= BONE_FLAG_UNKNOWN_0040
	}
	if b.InheritLocal {
		flags |= BONE_FLAG_INHERIT_LOCAL
	}
	if b.Inherit != nil {
		switch b.Inherit.Mode {
		case INHERIT_ROTATE:
			flags |= BONE_FLAG_INHERIT_ROTATION
		case INHERIT_TRANSLATION:
			flags |= BONE_FLAG_INHERIT_TRANSLATION
		case INHERIT_ROTATE_TRANSLATE:
			flags |= BONE_FLAG_INHERIT_ROTATION | BONE_FLAG_INHERIT_TRANSLATION
		}
	}
	if b.FixedAxis != nil {
		flags |= BONE_FLAG_FIXED_AXIS
	}
	if b.LocalAxis != nil {
		flags |= BONE_FLAG_LOCAL_COORDINATE
	}
	if b.PhysicsAfterDeform {
		flags |= BONE_FLAG_PHYSICS_AFTER_DEFORM
	}
	if b.ExternalParent != nil {
		flags |= BONE_FLAG_EXTERNAL_PARENT_DEFORM
	}
	if b.Unknown2000 {
		flags |= BONE_FLAG_UNKNOWN_2000
	}
	if b.Unknown4000 {
		flags |= BONE_FLAG_UNKNOWN_4000
	}
	if b.Unknown8000 {
		flags |= BONE_FLAG_UNKNOWN_8000
	}
	return flags
}
