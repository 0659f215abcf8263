package fonts

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// Role selects the face used for a run of text on the card.
type Role int

const (
	RoleTag Role = iota
	RoleTitle
	RoleCaption
)

func (r Role) String() string {
	switch r {
	case RoleTag:
		return "tag"
	case RoleTitle:
		return "title"
	case RoleCaption:
		return "caption"
	}
	return fmt.Sprintf("role(%d)", int(r))
}

// Point sizes per role. The canvas is rendered at 72 DPI so points equal pixels.
const (
	TagSize     = 48
	TitleSize   = 55
	CaptionSize = 34
	dpi         = 72
)

// Config points at the preferred font files. Relative names are resolved against Dir.
type Config struct {
	Dir     string
	Bold    string
	Regular string
}

// Set is a parsed pair of fonts. It is immutable and safe to share between renders;
// faces are not, so every render asks for its own with NewFaces.
type Set struct {
	bold     *opentype.Font
	regular  *opentype.Font
	Fallback bool
}

// Load parses the configured fonts, falling back to the built-in Go fonts for any
// file that is missing or unreadable.
func Load(cfg Config, logger *zap.Logger) *Set {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Set{}
	s.bold = loadOne(resolve(cfg.Dir, cfg.Bold), gobold.TTF, &s.Fallback, logger)
	s.regular = loadOne(resolve(cfg.Dir, cfg.Regular), goregular.TTF, &s.Fallback, logger)
	return s
}

// Builtin returns a Set made of the embedded Go fonts only.
func Builtin() *Set {
	bold, err := opentype.Parse(gobold.TTF)
	if err != nil {
		panic(fmt.Errorf("parse gobold: %w", err))
	}
	regular, err := opentype.Parse(goregular.TTF)
	if err != nil {
		panic(fmt.Errorf("parse goregular: %w", err))
	}
	return &Set{bold: bold, regular: regular, Fallback: true}
}

func resolve(dir, name string) string {
	if name == "" || filepath.IsAbs(name) || dir == "" {
		return name
	}
	return filepath.Join(dir, name)
}

func loadOne(path string, builtin []byte, fellBack *bool, logger *zap.Logger) *opentype.Font {
	if path != "" {
		data, err := os.ReadFile(path)
		if err == nil {
			f, perr := opentype.Parse(data)
			if perr == nil {
				return f
			}
			err = perr
		}
		logger.Warn("font unavailable, using built-in face", zap.String("path", path), zap.Error(err))
	}
	*fellBack = true
	f, err := opentype.Parse(builtin)
	if err != nil {
		panic(fmt.Errorf("parse built-in font: %w", err))
	}
	return f
}

// Faces holds one face per role. It belongs to a single render.
type Faces struct {
	faces map[Role]font.Face
}

// NewFaces builds fresh faces for every role.
func (s *Set) NewFaces() (*Faces, error) {
	specs := []struct {
		role Role
		f    *opentype.Font
		size float64
	}{
		{RoleTag, s.bold, TagSize},
		{RoleTitle, s.bold, TitleSize},
		{RoleCaption, s.regular, CaptionSize},
	}
	out := &Faces{faces: make(map[Role]font.Face, len(specs))}
	for _, sp := range specs {
		face, err := opentype.NewFace(sp.f, &opentype.FaceOptions{
			Size:    sp.size,
			DPI:     dpi,
			Hinting: font.HintingFull,
		})
		if err != nil {
			out.Close()
			return nil, fmt.Errorf("create %s face: %w", sp.role, err)
		}
		out.faces[sp.role] = face
	}
	return out, nil
}

// Face returns the face for role, or nil for an unknown role.
func (f *Faces) Face(role Role) font.Face {
	return f.faces[role]
}

func (f *Faces) Close() {
	for _, face := range f.faces {
		face.Close()
	}
}
