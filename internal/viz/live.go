package viz

import (
	"fmt"
	"image"
	"image/color"
	"image/gif"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/sphfluid/internal/fluid"
)

var (
	canvasStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#444466")).
			Padding(0, 1)

	statsStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#444466")).
			Padding(0, 1)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#00ffff"))

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888899"))

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#00ccff")).
			Bold(true)

	graphStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#00ff88"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666688")).
			Italic(true)
)

// TickMsg drives the simulation clock.
type TickMsg time.Time

// Model is the bubbletea model for a live, interactive view of a running
// fluid.Engine.
type Model struct {
	engine *fluid.Engine
	dt     float64
	t      float64

	width, height int
	canvas        *Canvas
	camera        *Camera

	running   bool
	recording bool
	frames    []*image.Paletted

	energyHistory []float64
	historyCap    int

	theme    Theme
	themeIdx int
	showHelp bool
}

// NewModel builds a live view over an already-initialized engine stepping
// at the given dt.
func NewModel(engine *fluid.Engine, dt float64) *Model {
	cam := NewCamera()
	cam.Position = Vec3{X: 0, Y: 0, Z: 3}
	cam.RotX = 0.4
	cam.RotY = 0.6

	return &Model{
		engine:     engine,
		dt:         dt,
		width:      80,
		height:     24,
		canvas:     NewCanvas(80, 24),
		camera:     cam,
		running:    true,
		historyCap: 600,
		theme:      ThemeCyberpunk,
	}
}

func (m *Model) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(time.Second/60, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		canvasW := m.width - 4
		canvasH := m.height - 10
		if canvasW < 10 {
			canvasW = 10
		}
		if canvasH < 6 {
			canvasH = 6
		}
		m.canvas = NewCanvas(canvasW, canvasH)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			if m.recording {
				m.saveGIF()
			}
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "g":
			m.recording = !m.recording
			if !m.recording && len(m.frames) > 0 {
				m.saveGIF()
			}
		case "?":
			m.showHelp = !m.showHelp
		case "t":
			m.themeIdx = (m.themeIdx + 1) % len(Themes)
			m.theme = Themes[m.themeIdx]
		case "x":
			m.camera.RotateX(0.1)
		case "X":
			m.camera.RotateX(-0.1)
		case "y":
			m.camera.RotateY(0.1)
		case "Y":
			m.camera.RotateY(-0.1)
		case "z":
			m.camera.RotateZ(0.1)
		case "Z":
			m.camera.RotateZ(-0.1)
		case "+", "=":
			m.camera.ZoomIn()
		case "-":
			m.camera.ZoomOut()
		case "r":
			m.reset()
		}
		return m, nil

	case TickMsg:
		if m.running {
			m.step()
		}
		m.draw()
		if m.recording {
			m.captureFrame()
		}
		return m, tick()
	}
	return m, nil
}

func (m *Model) step() {
	if err := m.engine.Step(m.dt); err != nil {
		m.running = false
		return
	}
	m.t += m.dt

	var ke float64
	for _, p := range m.engine.Particles() {
		ke += 0.5 * p.Velocity.Dot(p.Velocity)
	}
	m.energyHistory = append(m.energyHistory, ke)
	if len(m.energyHistory) > m.historyCap {
		m.energyHistory = m.energyHistory[len(m.energyHistory)-m.historyCap:]
	}
}

func (m *Model) reset() {
	m.t = 0
	m.energyHistory = nil
}

// draw projects the current particle cloud onto the braille canvas via the
// camera/wireframe pipeline, one degenerate point-edge per particle.
func (m *Model) draw() {
	m.canvas.Clear()
	m.drawParticles()
}

func (m *Model) drawParticles() {
	particles := m.engine.Particles()

	wf := NewWireframe()
	for _, p := range particles {
		v := Vec3{X: p.Position.X, Y: p.Position.Y, Z: p.Position.Z}
		wf.AddPoint(v, '●')
	}
	Render3D(m.canvas, wf, m.camera)
}

func (m *Model) captureFrame() {
	charW, charH := 8, 16
	img := image.NewPaletted(
		image.Rect(0, 0, m.canvas.Width*charW, m.canvas.Height*charH),
		gifPalette,
	)
	for row := range m.canvas.Grid {
		for col := range m.canvas.Grid[row] {
			cell := m.canvas.Grid[row][col]
			if cell == 0x2800 {
				continue
			}
			px := col * charW
			py := row * charH
			for dx := 0; dx < charW; dx++ {
				for dy := 0; dy < charH; dy++ {
					img.SetColorIndex(px+dx, py+dy, 1)
				}
			}
		}
	}
	m.frames = append(m.frames, img)
}

var gifPalette = color.Palette{
	color.Black,
	color.RGBA{0, 255, 136, 255},
}

func (m *Model) saveGIF() {
	if len(m.frames) == 0 {
		return
	}
	f, err := os.Create("simulation.gif")
	if err != nil {
		return
	}
	defer f.Close()

	g := &gif.GIF{}
	for _, frame := range m.frames {
		g.Image = append(g.Image, frame)
		g.Delay = append(g.Delay, 2)
	}
	_ = gif.EncodeAll(f, g)
	m.frames = nil
}

func (m *Model) View() string {
	if m.showHelp {
		return m.helpView()
	}

	canvas := canvasStyle.Render(m.canvas.String())

	status := StatusRunning.Render("running")
	if !m.running {
		status = StatusPaused.Render("paused")
	}
	if m.recording {
		status += " " + StatusRecording.Render("rec")
	}

	var ke float64
	if len(m.energyHistory) > 0 {
		ke = m.energyHistory[len(m.energyHistory)-1]
	}

	graph := ""
	if len(m.energyHistory) > 1 {
		graph = asciigraph.Plot(m.energyHistory, asciigraph.Height(6), asciigraph.Width(40))
	}

	stats := headerStyle.Render("fluid") + "\n" +
		labelStyle.Render("status ") + status + "\n" +
		labelStyle.Render("time   ") + valueStyle.Render(fmt.Sprintf("%.2fs", m.t)) + "\n" +
		labelStyle.Render("particles ") + valueStyle.Render(fmt.Sprintf("%d", len(m.engine.Particles()))) + "\n" +
		labelStyle.Render("kinetic energy ") + valueStyle.Render(fmt.Sprintf("%.4f", ke)) + "\n\n" +
		graphStyle.Render(graph)

	body := lipgloss.JoinHorizontal(lipgloss.Top, canvas, statsStyle.Render(stats))
	help := helpStyle.Render("space: pause  g: record gif  t: theme  x/X y/Y z/Z: rotate  +/-: zoom  r: reset  ?: help  q: quit")

	return body + "\n" + help
}

func (m *Model) helpView() string {
	lines := []string{
		"keyboard shortcuts",
		"",
		"space     pause/resume",
		"g         toggle gif recording",
		"t         cycle color theme",
		"x X y Y z Z   rotate camera",
		"+ -       zoom in/out",
		"r         reset run clock and history",
		"?         toggle this help",
		"q ctrl+c  quit",
	}
	return statsStyle.Render(strings.Join(lines, "\n"))
}
