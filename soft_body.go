package pmx

// SoftBodyAnchorRigid pins a soft-body vertex to a rigid body.
type SoftBodyAnchorRigid struct {
	RigidIndex  uint32 `json:"rigidIndex"`
	VertexIndex uint32 `json:"vertexIndex"`
	NearMode    bool   `json:"nearMode"`
}

// SoftBody is the 2.1-only cloth/rope record. The short field names from
// AeroModel down to VST follow the Bullet soft-body config they feed.
type SoftBody struct {
	Name                 string  `json:"name"`
	NameEn               string  `json:"nameEn"`
	Form                 uint8   `json:"form"`
	MaterialIndex        uint32  `json:"materialIndex"`
	Group                uint8   `json:"group"`
	UnCollisionGroupFlag uint16  `json:"unCollisionGroupFlag"`
	BitFlag              uint8   `json:"bitFlag"`
	BLinkCreateDistance  int32   `json:"bLinkCreateDistance"`
	Clusters             uint32  `json:"clusters"`
	Mass                 float32 `json:"mass"`
	CollisionMargin      float32 `json:"collisionMargin"`
	AeroModel            uint32  `json:"aeroModel"`

	// config
	VCF float32 `json:"vcf"`
	DP  float32 `json:"dp"`
	DG  float32 `json:"dg"`
	LF  float32 `json:"lf"`
	PR  float32 `json:"pr"`
	VC  float32 `json:"vc"`
	DF  float32 `json:"df"`
	MT  float32 `json:"mt"`
	CHR float32 `json:"chr"`
	KHR float32 `json:"khr"`
	SHR float32 `json:"shr"`
	AHR float32 `json:"ahr"`

	// cluster
	SRHRCL   float32 `json:"srhrCl"`
	SKHRCL   float32 `json:"skhrCl"`
	SSHRCL   float32 `json:"sshrCl"`
	SRSpltCL float32 `json:"srSpltCl"`
	SKSpltCL float32 `json:"skSpltCl"`
	SSSpltCL float32 `json:"ssSpltCl"`

	// iteration
	VIT uint32 `json:"vIt"`
	PIT uint32 `json:"pIt"`
	DIT uint32 `json:"dIt"`
	CIT uint32 `json:"cIt"`

	// material
	LST float32 `json:"lst"`
	AST float32 `json:"ast"`
	VST float32 `json:"vst"`

	AnchorRigids     []*SoftBodyAnchorRigid `json:"anchorRigids"`
	PinVertexIndexes []uint32               `json:"pinVertexIndexes"`
}
