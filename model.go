package pmx

import (
	"io"
	"math"
	"os"
	"path/filepath"

	"github.com/flywave/go3d/vec2"
	"github.com/flywave/go3d/vec3"
	"github.com/flywave/go3d/vec4"
)

// ModelInfo holds the four display strings at the top of the body.
type ModelInfo struct {
	Name      string `json:"name"`
	NameEn    string `json:"nameEn"`
	Comment   string `json:"comment"`
	CommentEn string `json:"commentEn"`
}

// Vertexes is the vertex block in columnar form. The wire layout interleaves
// the columns per vertex; every column (and each ExtVec4s slot) must hold
// exactly Count() entries when marshaling.
type Vertexes struct {
	Positions []vec3.T   `json:"positions"`
	Normals   []vec3.T   `json:"normals"`
	UVs       []vec2.T   `json:"uvs"`
	ExtVec4s  [][]vec4.T `json:"extVec4s"`
	Skins     []Skin     `json:"skins"`
	Edges     []float32  `json:"edges"`
}

func (vs *Vertexes) Count() uint32 {
	return uint32(len(vs.Positions))
}

func (vs *Vertexes) GetBoundbox() *[6]float64 {
	minX, minY, minZ := math.MaxFloat64, math.MaxFloat64, math.MaxFloat64
	maxX, maxY, maxZ := -math.MaxFloat64, -math.MaxFloat64, -math.MaxFloat64
	for i := range vs.Positions {
		minX = math.Min(minX, float64(vs.Positions[i][0]))
		minY = math.Min(minY, float64(vs.Positions[i][1]))
		minZ = math.Min(minZ, float64(vs.Positions[i][2]))

		maxX = math.Max(maxX, float64(vs.Positions[i][0]))
		maxY = math.Max(maxY, float64(vs.Positions[i][1]))
		maxZ = math.Max(maxZ, float64(vs.Positions[i][2]))
	}
	return &[6]float64{minX, minY, minZ, maxX, maxY, maxZ}
}

// Pmx is the whole-model aggregate: eleven sections in the order they sit on
// the wire. Cross-references between sections are plain integers; nothing
// here checks that they point at existing elements.
type Pmx struct {
	Info          ModelInfo       `json:"info"`
	Vertexes      Vertexes        `json:"vertexes"`
	Elements      []uint32        `json:"elements"`
	Textures      []string        `json:"textures"`
	Materials     []*Material     `json:"materials"`
	Bones         []*Bone         `json:"bones"`
	Morphs        []*Morph        `json:"morphs"`
	DisplayFrames []*DisplayFrame `json:"displayFrames"`
	RigidBodies   []*RigidBody    `json:"rigidBodies"`
	Joints        []*Joint        `json:"joints"`
	SoftBodies    []*SoftBody     `json:"softBodies"`
}

func NewPmx() *Pmx {
	return &Pmx{
		Elements:      []uint32{},
		Textures:      []string{},
		Materials:     []*Material{},
		Bones:         []*Bone{},
		Morphs:        []*Morph{},
		DisplayFrames: []*DisplayFrame{},
		RigidBodies:   []*RigidBody{},
		Joints:        []*Joint{},
		SoftBodies:    []*SoftBody{},
		Vertexes: Vertexes{
			Positions: []vec3.T{},
			Normals:   []vec3.T{},
			UVs:       []vec2.T{},
			ExtVec4s:  [][]vec4.T{},
			Skins:     []Skin{},
			Edges:     []float32{},
		},
	}
}

func (ms *Pmx) VertexCount() uint32 {
	return ms.Vertexes.Count()
}

func (ms *Pmx) MaterialCount() int {
	return len(ms.Materials)
}

func (ms *Pmx) BoneCount() int {
	return len(ms.Bones)
}

// PmxUnMarshal decodes a header followed by the eleven body sections.
func PmxUnMarshal(rd io.Reader) (*Header, *Pmx, error) {
	h, err := HeaderUnMarshal(rd)
	if err != nil {
		return nil, nil, err
	}
	ms, err := PmxBodyUnMarshal(rd, h)
	if err != nil {
		return nil, nil, err
	}
	return h, ms, nil
}

// PmxMarshal synthesizes a best-fit header for the requested version, writes
// it, then writes the body with it.
func PmxMarshal(wt io.Writer, ms *Pmx, version float32) error {
	h := HeaderFromPmx(version, ms)
	if err := HeaderMarshal(wt, h); err != nil {
		return err
	}
	return PmxBodyMarshal(wt, ms, h)
}

func PmxReadFrom(path string) (*Header, *Pmx, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()
	return PmxUnMarshal(f)
}

func PmxWriteTo(path string, ms *Pmx, version float32) error {
	if err := os.MkdirAll(filepath.Dir(path), os.ModePerm); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return PmxMarshal(f, ms, version)
}
