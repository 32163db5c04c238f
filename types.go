package pmx

// PMX_SIGNATURE is the 4-byte magic, "PMX " read as a little-endian uint32.
const PMX_SIGNATURE uint32 = 0x20584D50

const PMXEXT string = ".pmx"

const (
	V2_0 float32 = 2.0
	V2_1 float32 = 2.1
)

const (
	SKIN_TYPE_BDEF1 = 0
	SKIN_TYPE_BDEF2 = 1
	SKIN_TYPE_BDEF4 = 2
	SKIN_TYPE_SDEF  = 3
	SKIN_TYPE_QDEF  = 4
)

const (
	MORPH_TYPE_GROUP    = 0x00
	MORPH_TYPE_VERTEX   = 0x01
	MORPH_TYPE_BONE     = 0x02
	MORPH_TYPE_UV       = 0x03
	MORPH_TYPE_UV1      = 0x04
	MORPH_TYPE_UV2      = 0x05
	MORPH_TYPE_UV3      = 0x06
	MORPH_TYPE_UV4      = 0x07
	MORPH_TYPE_MATERIAL = 0x08
	MORPH_TYPE_FLIP     = 0x09
	MORPH_TYPE_IMPULSE  = 0x0A
)

const (
	CONTROL_PANEL_SYSTEM       = 0x00
	CONTROL_PANEL_BOTTOM_LEFT  = 0x01
	CONTROL_PANEL_TOP_LEFT     = 0x02
	CONTROL_PANEL_TOP_RIGHT    = 0x03
	CONTROL_PANEL_BOTTOM_RIGHT = 0x04
)

const (
	TOON_TYPE_TEXTURE = 0x00
	TOON_TYPE_COMMON  = 0x01
)

const (
	FRAME_ITEM_TYPE_BONE  = 0x00
	FRAME_ITEM_TYPE_MORPH = 0x01
)

const (
	MIX_NO          = 0x00
	MIX_MUL         = 0x01
	MIX_ADD         = 0x02
	MIX_SUB_TEXTURE = 0x03
)

const (
	MATERIAL_FLAG_DISABLE_CULLING uint8 = 0x01
	MATERIAL_FLAG_GROUND_SHADOW   uint8 = 0x02
	MATERIAL_FLAG_DRAW_SHADOW     uint8 = 0x04
	MATERIAL_FLAG_RECEIVE_SHADOW  uint8 = 0x08
	MATERIAL_FLAG_HAS_EDGE        uint8 = 0x10
	MATERIAL_FLAG_VERTEX_COLOR    uint8 = 0x20
	MATERIAL_FLAG_POINT_DRAW      uint8 = 0x40
	MATERIAL_FLAG_LINE_DRAW       uint8 = 0x80
)

const (
	BONE_FLAG_CONNECT_TO_OTHER_BONE  uint16 = 0x0001
	BONE_FLAG_ROTATABLE              uint16 = 0x0002
	BONE_FLAG_TRANSLATABLE           uint16 = 0x0004
	BONE_FLAG_IS_VISIBLE             uint16 = 0x0008
	BONE_FLAG_ENABLED                uint16 = 0x0010
	BONE_FLAG_IK                     uint16 = 0x0020
	BONE_FLAG_UNKNOWN_0040           uint16 = 0x0040
	BONE_FLAG_INHERIT_LOCAL          uint16 = 0x0080
	BONE_FLAG_INHERIT_ROTATION       uint16 = 0x0100
	BONE_FLAG_INHERIT_TRANSLATION    uint16 = 0x0200
	BONE_FLAG_FIXED_AXIS             uint16 = 0x0400
	BONE_FLAG_LOCAL_COORDINATE       uint16 = 0x0800
	BONE_FLAG_PHYSICS_AFTER_DEFORM   uint16 = 0x1000
	BONE_FLAG_EXTERNAL_PARENT_DEFORM uint16 = 0x2000
	// BONE_FLAG_UNKNOWN_2000 shares the physical bit with
	// BONE_FLAG_EXTERNAL_PARENT_DEFORM; files in the wild carry it both ways.
	BONE_FLAG_UNKNOWN_2000 uint16 = 0x2000
	BONE_FLAG_UNKNOWN_4000 uint16 = 0x4000
	BONE_FLAG_UNKNOWN_8000 uint16 = 0x8000
)

const (
	RIGID_FORM_SPHERE  = 0x00
	RIGID_FORM_BOX     = 0x01
	RIGID_FORM_CAPSULE = 0x02
)

const (
	RIGID_CALC_STATIC                     = 0x00
	RIGID_CALC_DYNAMIC                    = 0x01
	RIGID_CALC_DYNAMIC_WITH_BONE_POSITION = 0x02
)

const (
	JOINT_TYPE_SPRING_6DOF = 0x00
	JOINT_TYPE_6DOF        = 0x01
	JOINT_TYPE_P2P         = 0x02
	JOINT_TYPE_CONE_TWIST  = 0x03
	JOINT_TYPE_SLIDER      = 0x04
	JOINT_TYPE_HINGE       = 0x05
)

const (
	SOFT_BODY_FORM_TRI_MESH = 0x00
	SOFT_BODY_FORM_ROPE     = 0x01
)

const (
	SOFT_BODY_AERO_V_POINT     uint32 = 0x00
	SOFT_BODY_AERO_V_TWO_SIDED uint32 = 0x01
	SOFT_BODY_AERO_V_ONE_SIDED uint32 = 0x02
	SOFT_BODY_AERO_F_TWO_SIDED uint32 = 0x03
	SOFT_BODY_AERO_F_ONE_SIDED uint32 = 0x04
)
