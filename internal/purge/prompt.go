package purge

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/hnipps/purgarr/pkg/models"
)

// ErrInvalidSelection is returned when the selection is not an integer
var ErrInvalidSelection = errors.New("invalid selection")

// Prompter runs the confirmation and disambiguation dialogue
type Prompter struct {
	in     *bufio.Reader
	out    io.Writer
	dryRun bool
}

// NewPrompter creates a Prompter reading answers from in
func NewPrompter(in io.Reader, out io.Writer, dryRun bool) *Prompter {
	return &Prompter{
		in:     bufio.NewReader(in),
		out:    out,
		dryRun: dryRun,
	}
}

// Select asks the user which entry to delete and returns its 1-based
// position. Zero or a negative number means nothing was chosen. The result
// may be larger than len(entries); callers check the range.
func (p *Prompter) Select(entries []models.LibraryEntry) (int, error) {
	switch len(entries) {
	case 0:
		return 0, nil
	case 1:
		return p.confirm(entries[0])
	default:
		return p.choose(entries)
	}
}

func (p *Prompter) confirm(entry models.LibraryEntry) (int, error) {
	fmt.Fprintf(p.out, "Movie found:\n%s\nDelete it? [N]: ", entry.DisplayName())

	answer, err := p.readLine()
	if err != nil {
		return 0, err
	}
	if strings.EqualFold(answer, "y") {
		return 1, nil
	}
	return 0, nil
}

func (p *Prompter) choose(entries []models.LibraryEntry) (int, error) {
	fmt.Fprintln(p.out, "[0] Delete nothing")
	for i, entry := range entries {
		line := fmt.Sprintf("[%d] %s", i+1, entry.DisplayName())
		if entry.FileSize > 0 {
			line += " [" + humanize.IBytes(uint64(entry.FileSize)) + "]"
		}
		fmt.Fprintln(p.out, line)
	}

	if p.dryRun {
		fmt.Fprintln(p.out, "DRY RUN MODE - no selected movies will be deleted")
	} else {
		fmt.Fprintln(p.out, "*** The selected movie will be deleted ***")
	}
	fmt.Fprint(p.out, "Choose a movie to delete [0]: ")

	answer, err := p.readLine()
	if err != nil {
		return 0, err
	}

	selection, err := strconv.Atoi(answer)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidSelection, answer)
	}
	return selection, nil
}

// readLine returns one trimmed line. A final line without a newline is accepted.
func (p *Prompter) readLine() (string, error) {
	line, err := p.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", fmt.Errorf("failed to read answer: %w", err)
	}
	return strings.TrimSpace(line), nil
}

// NoMatch tells the user the search found nothing
func (p *Prompter) NoMatch() {
	fmt.Fprintln(p.out, "I couldn't find your movie. Try a different search term.")
}

// NoAction tells the user nothing will be deleted
func (p *Prompter) NoAction() {
	fmt.Fprintln(p.out, "No action taken.")
}

// SelectionFailed reports a selection that could not be acted on
func (p *Prompter) SelectionFailed(err error) {
	fmt.Fprintf(p.out, "Couldn't delete movie.\n\n%s\n", err.Error())
}
