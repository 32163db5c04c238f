package pmx

// DisplayFrameItem is either a bone reference or a morph reference; each is
// encoded with its own index width and both sign-extend on read.
type DisplayFrameItem interface {
	FrameItemType() uint8
}

type FrameItemBone struct {
	BoneIndex int32 `json:"boneIndex"`
}

func (i *FrameItemBone) FrameItemType() uint8 { return FRAME_ITEM_TYPE_BONE }

type FrameItemMorph struct {
	MorphIndex int32 `json:"morphIndex"`
}

func (i *FrameItemMorph) FrameItemType() uint8 { return FRAME_ITEM_TYPE_MORPH }

// DisplayFrame groups bones and morphs for UI panels. IsSpecial marks the
// two built-in frames the editor does not allow renaming.
type DisplayFrame struct {
	Name      string             `json:"name"`
	NameEn    string             `json:"nameEn"`
	IsSpecial bool               `json:"isSpecial"`
	Items     []DisplayFrameItem `json:"items"`
}
