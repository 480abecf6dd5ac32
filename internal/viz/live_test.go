package viz

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/sphfluid/internal/fluid"
)

func newTestModel(t *testing.T) *Model {
	t.Helper()
	engine := fluid.New()
	cfg := fluid.DefaultConfig()
	particles := []fluid.Particle{
		{Position: fluid.Vec3{X: 0.5, Y: 0.5, Z: 0.5}},
		{Position: fluid.Vec3{X: 0.4, Y: 0.5, Z: 0.5}},
	}
	if err := engine.Init(cfg, particles); err != nil {
		t.Fatalf("Init: %v", err)
	}
	t.Cleanup(engine.Destroy)
	return NewModel(engine, 0.01)
}

func TestModelStepAdvancesTimeAndHistory(t *testing.T) {
	m := newTestModel(t)
	m.step()
	if m.t <= 0 {
		t.Fatalf("t = %v, want > 0 after one step", m.t)
	}
	if len(m.energyHistory) != 1 {
		t.Fatalf("len(energyHistory) = %d, want 1", len(m.energyHistory))
	}
}

func TestModelUpdateTogglesPause(t *testing.T) {
	m := newTestModel(t)
	if !m.running {
		t.Fatal("expected model to start running")
	}
	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeySpace})
	mm := updated.(*Model)
	if mm.running {
		t.Fatal("expected space to pause the model")
	}
}

func TestModelUpdateQuitRequestsTeaQuit(t *testing.T) {
	m := newTestModel(t)
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	if cmd == nil {
		t.Fatal("expected a quit command")
	}
}

func TestModelDrawParticlesDoesNotPanic(t *testing.T) {
	m := newTestModel(t)
	m.draw()
}

func TestModelViewRendersWithoutPanicking(t *testing.T) {
	m := newTestModel(t)
	m.draw()
	if out := m.View(); out == "" {
		t.Fatal("expected non-empty view output")
	}
}
