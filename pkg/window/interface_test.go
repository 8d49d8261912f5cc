package window

import (
	"testing"
)

type MockBackend struct {
	handle        Handle
	found         bool
	rect          Rect
	isAvailable   bool
	displayServer string
	setCalls      []Rect
	closeError    error
}

func (m *MockBackend) FindVisibleWindow(title string) (Handle, bool, error) {
	return m.handle, m.found, nil
}

func (m *MockBackend) GetRect(h Handle) (Rect, bool, error) {
	if h != m.handle || !m.found {
		return Rect{}, false, nil
	}
	return m.rect, true, nil
}

func (m *MockBackend) SetRect(h Handle, r Rect) error {
	m.setCalls = append(m.setCalls, r)
	m.rect = r
	return nil
}

func (m *MockBackend) IsAvailable() bool {
	return m.isAvailable
}

func (m *MockBackend) DisplayServer() string {
	return m.displayServer
}

func (m *MockBackend) Close() error {
	return m.closeError
}

func TestMockBackend(t *testing.T) {
	var _ Backend = (*MockBackend)(nil)

	mock := &MockBackend{
		handle:        42,
		found:         true,
		rect:          Rect{X: 10, Y: 20, Width: 300, Height: 200},
		isAvailable:   true,
		displayServer: "x11",
	}

	h, ok, err := mock.FindVisibleWindow("Replayer")
	if err != nil || !ok {
		t.Fatalf("FindVisibleWindow() = %v, %v, %v", h, ok, err)
	}

	rect, ok, err := mock.GetRect(h)
	if err != nil || !ok {
		t.Fatalf("GetRect() = %v, %v, %v", rect, ok, err)
	}
	if rect.Width != 300 {
		t.Errorf("Width = %d, want 300", rect.Width)
	}

	want := Rect{X: -5, Y: 0, Width: 640, Height: 480}
	if err := mock.SetRect(h, want); err != nil {
		t.Errorf("SetRect() error: %v", err)
	}
	got, _, _ := mock.GetRect(h)
	if got != want {
		t.Errorf("GetRect() after SetRect = %v, want %v", got, want)
	}

	if err := mock.Close(); err != nil {
		t.Errorf("Close() error: %v", err)
	}
}

func TestRectString(t *testing.T) {
	tests := []struct {
		rect Rect
		want string
	}{
		{Rect{X: 100, Y: 50, Width: 800, Height: 600}, "x=100 y=50 w=800 h=600"},
		{Rect{X: -1920, Y: -8, Width: 0, Height: 0}, "x=-1920 y=-8 w=0 h=0"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.rect.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRectOrigin(t *testing.T) {
	r := Rect{X: 7, Y: -3, Width: 10, Height: 20}

	if got := r.Origin(); got != (Point{X: 7, Y: -3}) {
		t.Errorf("Origin() = %v", got)
	}

	moved := r.MovedTo(Point{X: 1, Y: 2})
	if moved != (Rect{X: 1, Y: 2, Width: 10, Height: 20}) {
		t.Errorf("MovedTo() = %v", moved)
	}
	if r.X != 7 {
		t.Error("MovedTo() mutated the receiver")
	}
}

func TestRectEquality(t *testing.T) {
	a := Rect{X: 1, Y: 2, Width: 3, Height: 4}
	b := Rect{X: 1, Y: 2, Width: 3, Height: 4}
	c := Rect{X: 1, Y: 2, Width: 3, Height: 5}

	if a != b {
		t.Error("equal rectangles compare unequal")
	}
	if a == c {
		t.Error("different rectangles compare equal")
	}
}
