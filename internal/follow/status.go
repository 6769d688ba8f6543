package follow

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"

	"github.com/slurmtools/sfollow/internal/slurm"
)

// Session status lines are prefixed so they are distinguishable from the
// relayed job output.
const statusPrefix = "[sfollow]"

var (
	completedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	failedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
)

var spinnerFrames = []string{"|", "/", "-", `\`}

// printer writes session status messages to a writer, keeping them clear of
// an in-progress spinner line.
type printer struct {
	mu       sync.Mutex
	w        io.Writer
	color    bool
	frame    int
	spinning bool
}

func newPrinter(w io.Writer, color bool) *printer {
	return &printer{w: w, color: color}
}

// line prints one status line, erasing the spinner first if present.
func (p *printer) line(format string, args ...any) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.spinning {
		fmt.Fprint(p.w, "\r\x1b[2K")
		p.spinning = false
	}
	fmt.Fprintf(p.w, statusPrefix+" "+format+"\n", args...)
}

// spin redraws the waiting spinner in place.
func (p *printer) spin(message string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	fmt.Fprintf(p.w, "\r%s %s %s", statusPrefix, spinnerFrames[p.frame], message)
	p.frame = (p.frame + 1) % len(spinnerFrames)
	p.spinning = true
}

// stop erases a leftover spinner line.
func (p *printer) stop() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.spinning {
		fmt.Fprint(p.w, "\r\x1b[2K")
		p.spinning = false
	}
}

// state renders a job state, colored green for COMPLETED and red for every
// other terminal state.
func (p *printer) state(s slurm.State) string {
	if !p.color {
		return s.String()
	}
	if s == "COMPLETED" {
		return completedStyle.Render(s.String())
	}
	return failedStyle.Render(s.String())
}

// fmtJobs describes a set of job IDs compactly.
func fmtJobs(ids []string) string {
	switch {
	case len(ids) == 1:
		return "Job " + ids[0]
	case len(ids) <= 3:
		return "Jobs " + strings.Join(ids, ",")
	default:
		return fmt.Sprintf("%d jobs", len(ids))
	}
}
