package pmx

import "github.com/flywave/go3d/vec3"

// Joint constrains two rigid bodies. All joint kinds share one wire layout;
// JointType only changes how the limits are interpreted by a simulator.
type Joint struct {
	Name                string `json:"name"`
	NameEn              string `json:"nameEn"`
	JointType           uint8  `json:"jointType"`
	ARigidIndex         uint32 `json:"aRigidIndex"`
	BRigidIndex         uint32 `json:"bRigidIndex"`
	Position            vec3.T `json:"position"`
	Rotation            vec3.T `json:"rotation"`
	MoveLimitDown       vec3.T `json:"moveLimitDown"`
	MoveLimitUp         vec3.T `json:"moveLimitUp"`
	RotationLimitDown   vec3.T `json:"rotationLimitDown"`
	RotationLimitUp     vec3.T `json:"rotationLimitUp"`
	SpringConstMove     vec3.T `json:"springConstMove"`
	SpringConstRotation vec3.T `json:"springConstRotation"`
}
