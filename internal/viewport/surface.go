package viewport

// Surface is the scrollable area the timeline is drawn into
type Surface interface {
	ClientWidth() float64
	ScrollWidth() float64
	ScrollLeft() float64
	SetScrollLeft(x float64)
}

// MemorySurface is a Surface without a renderer. Its scroll width tracks the
// content width of the model it is attached to.
type MemorySurface struct {
	Client float64
	Left   float64
	model  *Model
}

var _ Surface = (*MemorySurface)(nil)

// NewHeadless creates a model driving an in-memory surface of the given width
func NewHeadless(opts Options, clientWidth float64) (*Model, *MemorySurface) {
	s := &MemorySurface{Client: clientWidth}
	m := New(opts, s)
	s.model = m
	return m, s
}

func (s *MemorySurface) ClientWidth() float64 { return s.Client }

func (s *MemorySurface) ScrollWidth() float64 {
	if s.model == nil {
		return s.Client
	}
	return s.model.ContentWidth()
}

func (s *MemorySurface) ScrollLeft() float64 { return s.Left }

func (s *MemorySurface) SetScrollLeft(x float64) { s.Left = x }
