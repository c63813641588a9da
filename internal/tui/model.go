package tui

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"cbeta-search/internal/domain"
)

// SearchPort is the TUI-facing subset of the retrieval engine.
type SearchPort interface {
	Search(query string, topK int) []domain.QueryResult
	SearchPassages(query string, topK int) []domain.Passage
}

// Model is the Bubble Tea model for the interactive search screen.
type Model struct {
	engine    SearchPort
	input     textinput.Model
	viewport  viewport.Model
	results   []domain.QueryResult
	passages  []domain.Passage
	summary   string
	status    string
	cursor    int
	topK      int
	ready     bool
	lastQuery string
}

// New creates a new TUI model instance. The summary line describes the
// loaded corpus and is shown under the header.
func New(engine SearchPort, summary string, topK int) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "輸入問題後按 Enter 檢索經文"
	ti.Focus()
	ti.CharLimit = 0
	vp := viewport.New(0, 0)
	if topK <= 0 {
		topK = 3
	}
	return Model{engine: engine, input: ti, viewport: vp, summary: summary, topK: topK, status: "語料已載入，輸入關鍵詞開始檢索。"}
}

// Init initializes the model (text input cursor blink).
func (m Model) Init() tea.Cmd { return textinput.Blink }

// Update handles key and window events and updates the view state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		// account for frames around result and query boxes
		_, rh := resultBoxStyle.GetFrameSize()
		_, qh := queryBoxStyle.GetFrameSize()
		totalHeaderLines := 2                                    // header + summary
		totalFooterLines := 1                                    // status
		reserved := totalHeaderLines + totalFooterLines + qh + 1 // 1 spacer
		vh := msg.Height - reserved
		if vh < 3 {
			vh = 3
		}
		m.viewport.Width = max(20, msg.Width)
		m.viewport.Height = max(3, vh-rh)
		m.viewport.SetContent(m.renderCurrentResult())
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyCtrlD {
			return m, tea.Quit
		}
		switch msg.String() {
		case "enter":
			q := strings.TrimSpace(m.input.Value())
			if q != "" {
				m.results = m.engine.Search(q, m.topK)
				m.passages = m.engine.SearchPassages(q, m.topK)
				m.cursor = 0
				m.lastQuery = q
				if len(m.results) == 0 {
					m.status = fmt.Sprintf("%q 無結果", q)
				} else {
					m.status = fmt.Sprintf("%q 共 %d 筆結果", q, len(m.results))
				}
				m.viewport.SetContent(m.renderCurrentResult())
				return m, nil
			}
		case "down":
			if len(m.results) > 0 {
				m.cursor = (m.cursor + 1) % len(m.results)
				m.viewport.SetContent(m.renderCurrentResult())
				return m, nil
			}
		case "up":
			if len(m.results) > 0 {
				m.cursor = (m.cursor - 1 + len(m.results)) % len(m.results)
				m.viewport.SetContent(m.renderCurrentResult())
				return m, nil
			}
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View renders the TUI layout and current result.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	header := lipgloss.NewStyle().Bold(true).Render("CBETA 經文檢索")
	summary := lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Render(m.summary)
	input := queryBoxStyle.Render(m.input.View())
	status := lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Render(m.status)
	results := resultBoxStyle.Render(m.viewport.View())
	return header + "\n" + summary + "\n" + results + "\n" + input + "\n" + status
}

func (m Model) renderCurrentResult() string {
	if len(m.results) == 0 {
		return "尚無結果。"
	}
	r := m.results[m.cursor]
	var heading string
	if r.MatchType != "" {
		heading = fmt.Sprintf("結果 %d/%d  match=%s", m.cursor+1, len(m.results), r.MatchType)
	} else {
		heading = fmt.Sprintf("結果 %d/%d  score=%.3f", m.cursor+1, len(m.results), r.Score)
	}
	body := highlightBestSentence(r.Paragraph.Content, m.lastQuery)
	reference := ""
	if m.cursor < len(m.passages) {
		reference = referenceStyle.Render(m.passages[m.cursor].Reference)
	}
	return heading + "\n\n" + body + "\n\n" + reference
}

var (
	resultBoxStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	queryBoxStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	highlightStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
	referenceStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	sentenceRe     = regexp.MustCompile(`[^。？！.!?]+[。？！.!?]?`)
)

// highlightBestSentence emphasizes the sentence sharing the most Han
// character bigrams with the query.
func highlightBestSentence(text, query string) string {
	if strings.TrimSpace(text) == "" {
		return text
	}
	sentences := sentenceRe.FindAllString(text, -1)
	if len(sentences) == 0 {
		sentences = []string{strings.TrimSpace(text)}
	}
	qTokens := bigramSet(query)
	if len(qTokens) == 0 {
		return strings.Join(sentences, "")
	}
	bestIdx := 0
	bestScore := -1
	for i, s := range sentences {
		score := overlap(qTokens, s)
		if score > bestScore {
			bestScore = score
			bestIdx = i
		}
	}
	for i := range sentences {
		if i == bestIdx {
			sentences[i] = highlightStyle.Render(sentences[i])
		}
	}
	return strings.Join(sentences, "")
}

func bigramSet(s string) map[string]struct{} {
	out := make(map[string]struct{})
	var run []rune
	flush := func() {
		switch {
		case len(run) == 1:
			out[string(run)] = struct{}{}
		case len(run) > 1:
			for i := 0; i+1 < len(run); i++ {
				out[string(run[i:i+2])] = struct{}{}
			}
		}
		run = run[:0]
	}
	for _, r := range s {
		if unicode.Is(unicode.Han, r) || unicode.IsLetter(r) {
			run = append(run, r)
		} else {
			flush()
		}
	}
	flush()
	return out
}

func overlap(queryTokens map[string]struct{}, sentence string) int {
	score := 0
	for tok := range bigramSet(sentence) {
		if _, ok := queryTokens[tok]; ok {
			score++
		}
	}
	return score
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
