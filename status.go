package ihero

import "github.com/gogpu/ihero/host"

// Center names the presentation that owns the hero area.
type Center string

const (
	CenterWebGL Center = "webgl"
	CenterCSS   Center = "css"
)

// Status is the state of a mounted stage.
type Status string

const (
	StatusOK               Status = "ok"
	StatusInitFailed       Status = "init-failed"
	StatusContextLost      Status = "context-lost"
	StatusWebGLUnavailable Status = "webgl-unavailable"
)

// Dataset keys of the root element written by the engine.
const (
	keyCenter  = "center"
	keyStatus  = "status"
	keyDetail  = "detail"
	keyChapter = "chapter"
	keyQuality = "quality"
)

// StageStatus is the single source of truth for the fallback styling of a
// root. It is mirrored into the root dataset.
type StageStatus struct {
	Center Center
	Status Status
	Detail string
}

// Fallback reports whether the CSS presentation is in charge.
func (s StageStatus) Fallback() bool { return s.Center == CenterCSS }

func (s StageStatus) String() string {
	if s.Detail == "" {
		return string(s.Center) + "/" + string(s.Status)
	}
	return string(s.Center) + "/" + string(s.Status) + ": " + s.Detail
}

// write mirrors s into the root dataset. An empty detail clears the key.
func (s StageStatus) write(root host.Root) {
	root.SetDataset(keyCenter, string(s.Center))
	root.SetDataset(keyStatus, string(s.Status))
	root.SetDataset(keyDetail, s.Detail)
}

func okStatus() StageStatus {
	return StageStatus{Center: CenterWebGL, Status: StatusOK}
}

func cssStatus(st Status, detail string) StageStatus {
	return StageStatus{Center: CenterCSS, Status: st, Detail: detail}
}
