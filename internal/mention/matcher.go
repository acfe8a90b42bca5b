// Package mention classifies task mentions in note text and rewrites bare
// task references into markdown links. Classification is span-based: markdown
// links are enumerated first and anything inside them is off limits, so a
// linked reference can never be reclassified as bare within the same pass.
package mention

import (
	"regexp"
	"strings"

	"github.com/tracknote/tracknote/internal/models"
)

var (
	// Optional free text, a separator, then an uppercase queue key closed by
	// the space the user just typed. The greedy prefix makes the key the last
	// candidate token on the line, which is the one next to the cursor.
	newTaskRe = regexp.MustCompile(`^(?:(.*)[ \t])?([A-Z]+) `)

	bareRefRe = regexp.MustCompile(`[A-Z]+-[0-9]+`)
	linkRe    = regexp.MustCompile(`\[([^\]]*)\]\(([^)]*)\)`)
)

// Link renders the canonical markdown link for a task id. baseURL is expected
// to carry its trailing slash already (config normalizes it on load).
func Link(taskID, baseURL string) string {
	return "[" + taskID + "](" + baseURL + taskID + ")"
}

// FindNewTask scans a single line for a new-task mention: optional free text
// followed by an uppercase queue key and a space. Only the first match is
// considered. Lines that already contain a markdown link are never treated as
// new-task candidates.
func FindNewTask(line string) (models.Mention, bool) {
	if strings.Contains(line, "](") {
		return models.Mention{}, false
	}
	loc := newTaskRe.FindStringSubmatchIndex(line)
	if loc == nil {
		return models.Mention{}, false
	}
	m := models.Mention{
		Kind:     models.KindNewTask,
		Start:    loc[0],
		End:      loc[1],
		QueueKey: line[loc[4]:loc[5]],
	}
	if loc[2] >= 0 {
		m.Text = line[loc[2]:loc[3]]
	}
	return m, true
}

// ClassifyLine enumerates the linked and bare references on a line, linked
// mentions first. Link spans take precedence: a bare-shaped token inside a
// link's text or URL is reported as part of that linked mention only.
func ClassifyLine(line string) []models.Mention {
	var mentions []models.Mention
	links := linkRe.FindAllStringSubmatchIndex(line, -1)
	for _, loc := range links {
		mentions = append(mentions, models.Mention{
			Kind:   models.KindLinked,
			Start:  loc[0],
			End:    loc[1],
			TaskID: line[loc[2]:loc[3]],
			URL:    line[loc[4]:loc[5]],
		})
	}
	for _, loc := range bareRefRe.FindAllStringIndex(line, -1) {
		if loc[1] >= len(line) || line[loc[1]] != ' ' {
			continue
		}
		if insideLink(links, loc[0]) || strings.HasSuffix(line[:loc[0]], "](") {
			continue
		}
		mentions = append(mentions, models.Mention{
			Kind:   models.KindBareRef,
			Start:  loc[0],
			End:    loc[1],
			TaskID: line[loc[0]:loc[1]],
		})
	}
	return mentions
}

// Normalize rewrites every bare task reference in doc into a canonical
// markdown link. It is a fixed point: running it over its own output changes
// nothing, so freshly written links are immune to reprocessing.
func Normalize(doc, baseURL string) string {
	lines := strings.Split(doc, "\n")
	for i, line := range lines {
		lines[i] = normalizeLine(line, baseURL)
	}
	return strings.Join(lines, "\n")
}

func normalizeLine(line, baseURL string) string {
	if !bareRefRe.MatchString(line) {
		return line
	}
	links := linkRe.FindAllStringSubmatchIndex(line, -1)
	var b strings.Builder
	last := 0
	for _, loc := range bareRefRe.FindAllStringIndex(line, -1) {
		start, end := loc[0], loc[1]
		if end >= len(line) || line[end] != ' ' {
			continue
		}
		if insideLink(links, start) {
			continue
		}
		if strings.HasSuffix(line[:start], "](") {
			// Token sits in the URL position of link markup that is still
			// being typed; leave it alone.
			continue
		}
		id := line[start:end]
		if strings.Contains(line, "]("+baseURL+id+")") {
			// The canonical link for this id already exists on the line;
			// rewriting again would stack adjacent duplicates.
			continue
		}
		b.WriteString(line[last:start])
		b.WriteString(Link(id, baseURL))
		last = end
	}
	if last == 0 {
		return line
	}
	b.WriteString(line[last:])
	return b.String()
}

func insideLink(links [][]int, pos int) bool {
	for _, l := range links {
		if pos >= l[0] && pos < l[1] {
			return true
		}
	}
	return false
}
