package pmx

import "github.com/flywave/go3d/vec3"

// RigidBody is one physics collider bound to a bone. Group is a collision
// group number; UnCollisionGroupFlag is the 16-bit non-collision mask.
type RigidBody struct {
	Name                 string  `json:"name"`
	NameEn               string  `json:"nameEn"`
	BoneIndex            uint32  `json:"boneIndex"`
	Group                uint8   `json:"group"`
	UnCollisionGroupFlag uint16  `json:"unCollisionGroupFlag"`
	Form                 uint8   `json:"form"`
	Size                 vec3.T  `json:"size"`
	Position             vec3.T  `json:"position"`
	Rotation             vec3.T  `json:"rotation"`
	Mass                 float32 `json:"mass"`
	MoveResist           float32 `json:"moveResist"`
	RotationResist       float32 `json:"rotationResist"`
	Repulsion            float32 `json:"repulsion"`
	Friction             float32 `json:"friction"`
	CalcMethod           uint8   `json:"calcMethod"`
}
