package ui

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"blogfinder/pkg/search"
)

const lineWidth = 100

// ProgressDisplay renders run progress as a single rewritten console line.
// It implements search.Reporter.
type ProgressDisplay struct {
	mu        sync.Mutex
	out       io.Writer
	theme     string
	posts     int
	unique    int
	processed int
	total     int
	qualified int
	startTime time.Time
	profiling bool
	now       func() time.Time
}

// NewProgressDisplay creates a display writing to out
func NewProgressDisplay(out io.Writer) *ProgressDisplay {
	return &ProgressDisplay{
		out:       out,
		startTime: time.Now(),
		now:       time.Now,
	}
}

// SearchProgress redraws the line for the theme being searched
func (p *ProgressDisplay) SearchProgress(theme string, posts, unique int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.theme != "" && p.theme != theme {
		fmt.Fprintln(p.out)
	}
	p.theme, p.posts, p.unique = theme, posts, unique
	p.profiling = false

	p.redraw(fmt.Sprintf("%s #%s • %d posts • %d blogs",
		Magenta("[SEARCH]"), theme, posts, unique))
}

// ProfileProgress redraws the profile line
func (p *ProgressDisplay) ProfileProgress(processed, total, qualified int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.processed, p.total, p.qualified = processed, total, qualified
	p.profiling = true

	line := fmt.Sprintf("%s [%s] %d/%d • %s qualified",
		Cyan("[PROFILE]"),
		RenderBar(processed, total, 20),
		processed, total,
		Green(fmt.Sprint(qualified)),
	)
	if rate := p.rate(); rate > 0 {
		line += fmt.Sprintf(" • %.1f/min", rate)
	}
	p.redraw(line)
}

// Complete ends the progress line and prints the run summary
func (p *ProgressDisplay) Complete(report *search.Report) {
	p.mu.Lock()
	defer p.mu.Unlock()

	fmt.Fprint(p.out, "\n\n")
	if report.Interrupted {
		fmt.Fprintf(p.out, "%s Stopped early: %s\n", Yellow("!"), report.Reason)
	} else {
		fmt.Fprintf(p.out, "%s Search completed\n", Green("✓"))
	}

	for _, t := range report.Themes {
		line := fmt.Sprintf("  %s #%-20s %4d posts %4d new %4d dup %3d qualified",
			Dim("•"), t.Theme, t.Posts, t.NewBlogs, t.Duplicates, t.Qualified)
		if t.Err != "" {
			line += " " + Red(t.Err)
		}
		fmt.Fprintln(p.out, line)
	}

	fmt.Fprintf(p.out, "  %s %d unique blogs, %d profiled, %d failed, %s qualified in %s\n",
		Dim("•"),
		report.UniqueSeen,
		report.Profiled,
		report.ProfileFailures,
		Green(fmt.Sprint(report.Qualified)),
		FormatDuration(report.Duration()),
	)
}

func (p *ProgressDisplay) rate() float64 {
	elapsed := p.now().Sub(p.startTime).Minutes()
	if elapsed <= 0 {
		return 0
	}
	return float64(p.processed) / elapsed
}

func (p *ProgressDisplay) redraw(line string) {
	fmt.Fprintf(p.out, "\r%s\r%s", strings.Repeat(" ", lineWidth), line)
}
